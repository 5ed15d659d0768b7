package feedimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/feed"
	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/pkg/config"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/formatter"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config      *config.Config
	Logger      logger.Logger
	Clock       clockwork.Clock
	Thumbnailer media.Thumbnailer
}

// Impl serves the fixture feeds and owns their like state. A background
// refresher recomputes the "posted ago" labels and warms missing reel
// thumbnails.
type Impl struct {
	Logger      logger.Logger
	Clock       clockwork.Clock
	Thumbnailer media.Thumbnailer

	RefreshMin time.Duration
	RefreshMax time.Duration
	PoolSize   int

	mu        sync.Mutex
	tabs      map[feed.Tab][]domain.FeedItem
	scheduler gocron.Scheduler
}

var _ feed.Client = (*Impl)(nil)

func New(opts Opts) *Impl {
	impl := &Impl{
		Logger:      opts.Logger,
		Clock:       opts.Clock,
		Thumbnailer: opts.Thumbnailer,
		RefreshMin:  opts.Config.Refresher.MinInterval,
		RefreshMax:  opts.Config.Refresher.MaxInterval,
		PoolSize:    opts.Config.Refresher.PoolSize,
		tabs:        fixtures(opts.Clock.Now()),
	}
	impl.refreshLabels()
	return impl
}

func (i *Impl) List(ctx context.Context, tab feed.Tab) ([]domain.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	items, ok := i.tabs[tab]
	if !ok {
		return nil, apperrors.New(fmt.Sprintf("unknown feed tab %q", tab))
	}
	out := make([]domain.FeedItem, len(items))
	copy(out, items)
	return out, nil
}

func (i *Impl) ToggleLike(tab feed.Tab, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	item, err := i.findLocked(tab, id)
	if err != nil {
		return err
	}
	if item.IsLiked {
		item.IsLiked = false
		item.LikeCount--
	} else {
		item.IsLiked = true
		item.LikeCount++
	}
	return nil
}

func (i *Impl) Like(tab feed.Tab, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	item, err := i.findLocked(tab, id)
	if err != nil {
		return err
	}
	if item.IsLiked {
		return nil
	}
	item.IsLiked = true
	item.LikeCount++
	return nil
}

func (i *Impl) IsLiked(tab feed.Tab, id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	item, err := i.findLocked(tab, id)
	if err != nil {
		return false
	}
	return item.IsLiked
}

func (i *Impl) ShareLink(tab feed.Tab, id string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	item, err := i.findLocked(tab, id)
	if err != nil {
		return "", err
	}
	return item.Link, nil
}

func (i *Impl) findLocked(tab feed.Tab, id string) (*domain.FeedItem, error) {
	items, ok := i.tabs[tab]
	if !ok {
		return nil, apperrors.New(fmt.Sprintf("unknown feed tab %q", tab))
	}
	for idx := range items {
		if items[idx].ID == id {
			return &items[idx], nil
		}
	}
	return nil, apperrors.New(fmt.Sprintf("item %q not in tab %q", id, tab))
}

// Start schedules the refresher at a random interval within the configured
// bounds, the jitter keeps refreshes from clustering across instances.
func (i *Impl) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationRandomJob(i.RefreshMin, i.RefreshMax),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				i.Logger.Info("Context cancelled, skipping feed refresh")
				return
			}
			taskCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()

			i.refreshLabels()
			i.warmThumbnails(taskCtx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	scheduler.Start()

	i.mu.Lock()
	i.scheduler = scheduler
	i.mu.Unlock()
	return nil
}

func (i *Impl) Stop() error {
	i.mu.Lock()
	scheduler := i.scheduler
	i.scheduler = nil
	i.mu.Unlock()
	if scheduler == nil {
		return nil
	}
	return scheduler.Shutdown()
}

func (i *Impl) refreshLabels() {
	now := i.Clock.Now()
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, items := range i.tabs {
		for idx := range items {
			items[idx].PostedAgo = formatter.RelativeTime(items[idx].CreatedAt, now)
		}
	}
}

// warmThumbnails derives thumbnails for reels that are still missing one,
// fanned out over a worker pool.
func (i *Impl) warmThumbnails(ctx context.Context) {
	if i.Thumbnailer == nil {
		return
	}

	type target struct {
		tab feed.Tab
		id  string
		uri string
	}
	var targets []target
	i.mu.Lock()
	for tab, items := range i.tabs {
		for idx := range items {
			if items[idx].Kind == domain.KindReel && items[idx].ThumbnailURL == "" {
				targets = append(targets, target{tab: tab, id: items[idx].ID, uri: items[idx].VideoURL})
			}
		}
	}
	i.mu.Unlock()
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPool(i.PoolSize, ants.WithPreAlloc(true))
	if err != nil {
		i.Logger.Error("Failed to create thumbnail pool", "error", err)
		return
	}
	defer pool.Release()

	for _, tgt := range targets {
		wg.Add(1)
		tgt := tgt

		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
			}
			thumb, err := i.Thumbnailer.Thumbnail(ctx, tgt.uri)
			if err != nil {
				i.Logger.Warn("Thumbnail warming failed", "id", tgt.id, "error", err)
				return
			}
			i.mu.Lock()
			if item, err := i.findLocked(tgt.tab, tgt.id); err == nil {
				item.ThumbnailURL = thumb
			}
			i.mu.Unlock()
		})
		if err != nil {
			wg.Done()
			i.Logger.Error("Failed to submit thumbnail job", "id", tgt.id, "error", err)
		}
	}

	wg.Wait()
}
