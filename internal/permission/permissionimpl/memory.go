package permissionimpl

import (
	"context"
	"sync"

	"github.com/crinzping/feed-engine/internal/permission"
	"github.com/crinzping/feed-engine/pkg/logger"
)

// MemoryBridge is a permission bridge backed by a map, standing in for the
// native layer. Grants default to granted and can be flipped at runtime, the
// way a user can revoke a permission from system settings mid-session.
type MemoryBridge struct {
	mu       sync.Mutex
	statuses map[permission.Kind]permission.Status
}

var _ permission.Bridge = (*MemoryBridge)(nil)

func NewMemoryBridge() *MemoryBridge {
	return &MemoryBridge{statuses: make(map[permission.Kind]permission.Status)}
}

func (b *MemoryBridge) SetStatus(kind permission.Kind, status permission.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[kind] = status
}

func (b *MemoryBridge) Request(ctx context.Context, kind permission.Kind) (permission.Status, error) {
	if err := ctx.Err(); err != nil {
		return permission.Denied, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.statuses[kind]; ok {
		return s, nil
	}
	return permission.Granted, nil
}

// LogNotifier surfaces denial explanations through the log, where the mobile
// shell would raise an alert dialog.
type LogNotifier struct {
	Logger logger.Logger
}

var _ permission.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Explain(kind permission.Kind, message string) {
	n.Logger.Warn("permission explanation shown", "kind", kind, "message", message)
}
