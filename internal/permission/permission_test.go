package permission_test

import (
	"context"
	"sync"
	"testing"

	"github.com/crinzping/feed-engine/internal/permission"
	"github.com/crinzping/feed-engine/internal/permission/permissionimpl"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []permission.Kind
}

func (n *recordingNotifier) Explain(kind permission.Kind, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.kinds)
}

func TestGateGranted(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	notifier := &recordingNotifier{}
	gate := permission.NewGate(bridge, notifier, logger.NewNop())

	require.NoError(t, gate.Request(context.Background(), permission.Camera))
	assert.Zero(t, notifier.count())
}

func TestGateDeniedExplains(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	bridge.SetStatus(permission.MediaLibrary, permission.Denied)
	notifier := &recordingNotifier{}
	gate := permission.NewGate(bridge, notifier, logger.NewNop())

	err := gate.Request(context.Background(), permission.MediaLibrary)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
	assert.Equal(t, 1, notifier.count())
}

func TestGateRechecksEveryAttempt(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	notifier := &recordingNotifier{}
	gate := permission.NewGate(bridge, notifier, logger.NewNop())

	require.NoError(t, gate.Request(context.Background(), permission.Microphone))

	// Revoked externally between attempts: no stale grant may survive.
	bridge.SetStatus(permission.Microphone, permission.Denied)
	err := gate.Request(context.Background(), permission.Microphone)
	assert.True(t, apperrors.IsPermissionDenied(err))
}

func TestGateDropsResultAfterDismissal(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	notifier := &recordingNotifier{}
	gate := permission.NewGate(bridge, notifier, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the requesting view is already gone

	err := gate.Request(ctx, permission.Camera)
	require.Error(t, err)
	assert.False(t, apperrors.IsPermissionDenied(err))
	assert.Zero(t, notifier.count())
}
