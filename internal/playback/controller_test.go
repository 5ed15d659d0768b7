package playback

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/crinzping/feed-engine/internal/player/playerimpl"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *playerimpl.Memory) {
	t.Helper()
	surface := playerimpl.New(logger.NewNop())
	c := NewController(logger.NewNop(), surface, true)
	t.Cleanup(c.Close)
	return c, surface
}

func TestControllerActiveSwitchPausesBeforePlay(t *testing.T) {
	c, surface := newTestController(t)
	ctx := context.Background()

	c.Render(ctx, "a", "file://a.mp4")
	c.Render(ctx, "b", "file://b.mp4")

	c.SetActive("a")
	assert.True(t, c.IsPlaying("a"))
	assert.False(t, c.IsPlaying("b"))
	assert.Equal(t, 1, surface.PlayingCount())

	c.SetActive("b")
	assert.False(t, c.IsPlaying("a"))
	assert.True(t, c.IsPlaying("b"))
	assert.Equal(t, 1, surface.PlayingCount())
}

func TestControllerBothVisibleOnlyFirstPlays(t *testing.T) {
	// After a fling both items can sit above the visibility threshold at
	// once; the one selected active plays, the other must stay silent until
	// it is explicitly superseded.
	c, surface := newTestController(t)
	ctx := context.Background()

	c.Render(ctx, "a", "file://a.mp4")
	c.Render(ctx, "b", "file://b.mp4")

	c.SetActive("a")
	require.True(t, c.IsPlaying("a"))
	assert.False(t, c.IsPlaying("b"))
	assert.Equal(t, 1, surface.PlayingCount())
}

func TestControllerLazyCreationAndRemount(t *testing.T) {
	c, surface := newTestController(t)
	ctx := context.Background()

	assert.Equal(t, 0, surface.OpenHandles())
	c.Render(ctx, "a", "file://a.mp4")
	assert.Equal(t, 1, surface.OpenHandles())

	// Re-render of a mounted item is a no-op, no second player.
	c.Render(ctx, "a", "file://a.mp4")
	assert.Equal(t, 1, surface.OpenHandles())

	// Unmount releases, remount builds a fresh handle.
	c.Unmount("a")
	assert.Equal(t, 0, surface.OpenHandles())
	c.Render(ctx, "a", "file://a.mp4")
	assert.Equal(t, 1, surface.OpenHandles())
}

func TestControllerRenderOfActiveItemStartsPlayback(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	c.SetActive("a")
	c.Render(ctx, "a", "file://a.mp4")
	assert.True(t, c.IsPlaying("a"))
}

func TestControllerMuteIsOrthogonal(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	c.Render(ctx, "a", "file://a.mp4")
	c.Render(ctx, "b", "file://b.mp4")
	c.SetActive("a")
	c.TogglePlay("a") // pause it

	c.SetMuted(false)
	assert.Equal(t, "a", c.Active(), "mute must not change the active item")
	assert.False(t, c.IsPlaying("a"), "mute must not start a paused item")
	assert.False(t, c.IsPlaying("b"))
}

func TestControllerTogglePlay(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	c.Render(ctx, "a", "file://a.mp4")
	c.Render(ctx, "b", "file://b.mp4")
	c.SetActive("a")

	c.TogglePlay("a")
	assert.False(t, c.IsPlaying("a"))
	c.TogglePlay("a")
	assert.True(t, c.IsPlaying("a"))

	// A non-active item cannot be resumed by tapping it.
	c.TogglePlay("b")
	assert.False(t, c.IsPlaying("b"))
}

func TestControllerCreateFailureDegradesSingleItem(t *testing.T) {
	c, surface := newTestController(t)
	ctx := context.Background()
	surface.FailURI("file://broken.mp4")

	c.Render(ctx, "bad", "file://broken.mp4")
	c.Render(ctx, "good", "file://good.mp4")

	c.SetActive("bad")
	assert.False(t, c.IsPlaying("bad"))
	assert.Equal(t, 0, surface.PlayingCount())

	// Neighbours are unaffected.
	c.SetActive("good")
	assert.True(t, c.IsPlaying("good"))
}

func TestControllerCloseReleasesEverything(t *testing.T) {
	surface := playerimpl.New(logger.NewNop())
	c := NewController(logger.NewNop(), surface, true)
	ctx := context.Background()

	c.Render(ctx, "a", "file://a.mp4")
	c.Render(ctx, "b", "file://b.mp4")
	c.SetActive("a")

	c.Close()
	assert.Equal(t, 0, surface.OpenHandles())
	assert.Equal(t, 0, surface.PlayingCount())
}

// TestControllerAtMostOnePlayingProperty drives the controller with random
// event sequences and checks the core invariant after every step: never two
// players playing at once in one list.
func TestControllerAtMostOnePlayingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ids := []string{"a", "b", "c", "d", "e"}

	for run := 0; run < 50; run++ {
		c, surface := newTestController(t)
		ctx := context.Background()

		for step := 0; step < 200; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(5) {
			case 0:
				c.Render(ctx, id, fmt.Sprintf("file://%s.mp4", id))
			case 1:
				c.Unmount(id)
			case 2:
				c.SetActive(id)
			case 3:
				c.SetActive("")
			case 4:
				c.TogglePlay(id)
			}
			require.LessOrEqual(t, surface.PlayingCount(), 1,
				"run %d step %d: two players playing at once", run, step)
		}
		c.Close()
		require.Equal(t, 0, surface.OpenHandles())
	}
}
