package feed

import (
	"context"

	"github.com/crinzping/feed-engine/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=feed.go -destination=mocks/mock.go -package=mocks

// Tab identifies one of the independent feed lists.
type Tab string

const (
	TabForYou  Tab = "forYou"
	TabReels   Tab = "reels"
	TabCrinzes Tab = "crinzes"
)

// Client serves the feed lists and owns their like state. Implementations are
// safe for concurrent use; the playback layer calls Like from gesture
// callbacks while the UI lists items.
type Client interface {
	// List returns the items of a tab in display order.
	List(ctx context.Context, tab Tab) ([]domain.FeedItem, error)

	// ToggleLike flips the like state of an item and adjusts its count.
	ToggleLike(tab Tab, id string) error

	// Like sets the item liked. Liking an already-liked item is a no-op;
	// the double-tap gesture never unlikes.
	Like(tab Tab, id string) error

	// IsLiked reports the current like state.
	IsLiked(tab Tab, id string) bool

	// ShareLink returns the canonical share URL of an item.
	ShareLink(tab Tab, id string) (string, error)

	// Start launches the background refresher; Stop shuts it down.
	Start(ctx context.Context) error
	Stop() error
}
