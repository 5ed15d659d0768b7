package feed

import "github.com/crinzping/feed-engine/internal/playback"

// Likes binds one tab of a client to the playback layer's like model, so the
// double-tap gesture writes back through the client.
func Likes(c Client, tab Tab) playback.LikeModel {
	return tabLikes{c: c, tab: tab}
}

type tabLikes struct {
	c   Client
	tab Tab
}

func (l tabLikes) IsLiked(id string) bool { return l.c.IsLiked(l.tab, id) }
func (l tabLikes) Like(id string)         { _ = l.c.Like(l.tab, id) }
