package player

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=player.go -destination=mocks/mock.go -package=mocks

// Handle wraps one native audio or video player bound to exactly one media
// URI. A handle is exclusively owned by the component that created it and must
// be released before that component goes away or the URI changes. Release is
// idempotent; Play and Pause fail after release.
type Handle interface {
	Play() error
	Pause() error
	SetMuted(muted bool)
	IsPlaying() bool
	Release()
}

// Surface creates players. It is the boundary to the native playback layer;
// a creation failure means the URI cannot be opened at all.
type Surface interface {
	Create(ctx context.Context, uri string) (Handle, error)
}
