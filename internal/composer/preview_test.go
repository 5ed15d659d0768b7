package composer_test

import (
	"context"
	"testing"

	"github.com/crinzping/feed-engine/internal/backend/backendimpl"
	"github.com/crinzping/feed-engine/internal/composer"
	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/internal/media/mediaimpl"
	"github.com/crinzping/feed-engine/internal/player/mocks"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// The video handle must be released exactly once no matter how many exit
// paths fire after one another.
func TestPreviewReleaseIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	surface := mocks.NewMockSurface(ctrl)
	handle := mocks.NewMockHandle(ctrl)

	surface.EXPECT().Create(gomock.Any(), "file://clip.mp4").Return(handle, nil)
	handle.EXPECT().Pause().Return(nil).Times(1)
	handle.EXPECT().Release().Times(1)

	picker := mediaimpl.NewMemoryPicker()
	picker.QueueVideo("file://clip.mp4")
	c := composer.New(composer.Opts{
		Logger:  logger.NewNop(),
		Clock:   clockwork.NewFakeClock(),
		Picker:  picker,
		Surface: surface,
		Sink:    backendimpl.New(logger.NewNop()),
		Kind:    domain.KindReel,
	})
	t.Cleanup(c.Close)
	require.NoError(t, c.SelectVideo(context.Background()))

	p, err := c.BeginPreview(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.Confirm(context.Background()))
	p.Cancel() // already released: must not touch the handle again
	c.Close()  // nor here
}

func TestPreviewToggleAudioDrivesHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	surface := mocks.NewMockSurface(ctrl)
	handle := mocks.NewMockHandle(ctrl)

	surface.EXPECT().Create(gomock.Any(), "file://track.mp3").Return(handle, nil)
	gomock.InOrder(
		handle.EXPECT().IsPlaying().Return(false),
		handle.EXPECT().Play().Return(nil),
		handle.EXPECT().IsPlaying().Return(true),
		handle.EXPECT().Pause().Return(nil),
	)
	handle.EXPECT().Pause().Return(nil) // release pauses once more
	handle.EXPECT().Release()

	picker := mediaimpl.NewMemoryPicker()
	picker.QueueAudio(media.PickedAudio{URI: "file://track.mp3"})
	c := composer.New(composer.Opts{
		Logger:  logger.NewNop(),
		Clock:   clockwork.NewFakeClock(),
		Picker:  picker,
		Surface: surface,
		Sink:    backendimpl.New(logger.NewNop()),
		Kind:    domain.KindImagePost,
	})
	t.Cleanup(c.Close)
	c.SetDescription("with sound")
	require.NoError(t, c.ToggleAudio(context.Background()))

	p, err := c.BeginPreview(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.ToggleAudio())
	require.NoError(t, p.ToggleAudio())
	p.Cancel()
}
