package feedimpl

import (
	"time"

	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/feed"
	"github.com/samber/lo"
)

// seed describes one fixture entry; age is relative to the clock so the
// "posted ago" labels stay meaningful no matter when the process starts.
type seed struct {
	item domain.FeedItem
	age  time.Duration
}

var crinzSeeds = []seed{
	{
		age: 48 * time.Hour,
		item: domain.FeedItem{
			ID:           "crinz-1",
			Kind:         domain.KindText,
			Author:       "Chandu",
			Message:      "This is a crinz message!",
			LikeCount:    10,
			CommentCount: 1,
			IsLiked:      true,
			Link:         "https://crinzping.com/crinzes/crinz-1",
		},
	},
	{
		age: 24 * time.Hour,
		item: domain.FeedItem{
			ID:           "crinz-2",
			Kind:         domain.KindText,
			Author:       "JaneDoe",
			Message:      "Just discovered a cool new cafe.",
			LikeCount:    42,
			CommentCount: 3,
			IsLiked:      false,
			Link:         "https://crinzping.com/crinzes/crinz-2",
		},
	},
}

var reelSeeds = []seed{
	{
		age: 6 * time.Hour,
		item: domain.FeedItem{
			ID:           "reel-1",
			Kind:         domain.KindReel,
			Author:       "@MovieMagic",
			AvatarURL:    "https://randomuser.me/api/portraits/women/75.jpg",
			Description:  "Behind the scenes!",
			VideoURL:     "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerFun.mp4",
			LikeCount:    2450,
			CommentCount: 310,
			IsLiked:      false,
			Link:         "https://crinzping.com/reels/reel-1",
		},
	},
	{
		age: 30 * time.Hour,
		item: domain.FeedItem{
			ID:           "reel-2",
			Kind:         domain.KindReel,
			Author:       "@SciFiDreams",
			AvatarURL:    "https://randomuser.me/api/portraits/men/88.jpg",
			Description:  "A glimpse into a futuristic world.",
			VideoURL:     "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/TearsOfSteel.mp4",
			LikeCount:    8800,
			CommentCount: 1200,
			IsLiked:      true,
			Link:         "https://crinzping.com/reels/reel-2",
		},
	},
}

var forYouSeeds = []seed{
	{
		age: 5 * time.Hour,
		item: domain.FeedItem{
			ID:     "post-1",
			Kind:   domain.KindImagePost,
			Author: "ArtExplorer",
			ImageURLs: []string{
				"https://picsum.photos/seed/newart1/800/600",
				"https://picsum.photos/seed/newart2/800/600",
			},
			AudioURL:     "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
			LikeCount:    450,
			CommentCount: 55,
			IsLiked:      true,
			Link:         "https://crinzping.com/posts/post-1",
		},
	},
	reelSeeds[0],
	crinzSeeds[1],
}

// fixtures materializes the demo data, anchoring every item's created-at
// against now.
func fixtures(now time.Time) map[feed.Tab][]domain.FeedItem {
	materialize := func(seeds []seed) []domain.FeedItem {
		return lo.Map(seeds, func(s seed, _ int) domain.FeedItem {
			item := s.item
			item.CreatedAt = now.Add(-s.age)
			item.ImageURLs = append([]string(nil), s.item.ImageURLs...)
			return item
		})
	}
	return map[feed.Tab][]domain.FeedItem{
		feed.TabCrinzes: materialize(crinzSeeds),
		feed.TabReels:   materialize(reelSeeds),
		feed.TabForYou:  materialize(forYouSeeds),
	}
}
