package permission

import (
	"context"

	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
)

type Kind string

const (
	MediaLibrary Kind = "mediaLibrary"
	Camera       Kind = "camera"
	Microphone   Kind = "microphone"
)

type Status string

const (
	Granted Status = "granted"
	Denied  Status = "denied"
)

// Bridge is the OS permission layer. A request may block on a system dialog.
type Bridge interface {
	Request(ctx context.Context, kind Kind) (Status, error)
}

// Notifier shows the user-facing explanation when a permission is denied.
type Notifier interface {
	Explain(kind Kind, message string)
}

// Explanations shown on denial, one per kind.
var explanations = map[Kind]string{
	MediaLibrary: "This app needs access to your media library to select photos and videos.",
	Camera:       "Camera access is needed to take photos.",
	Microphone:   "Microphone access is needed to record audio messages.",
}

// Gate mediates every OS permission request. The bridge is consulted on every
// single capture attempt: grants are never cached because the OS can revoke
// them behind the app's back.
type Gate struct {
	bridge   Bridge
	notifier Notifier
	log      logger.Logger
}

func NewGate(bridge Bridge, notifier Notifier, log logger.Logger) *Gate {
	return &Gate{bridge: bridge, notifier: notifier, log: log}
}

// Request resolves the permission for kind. On denial the user gets an
// explanation and ErrPermissionDenied comes back; callers must not invoke the
// underlying picker or recorder. A result that arrives after the requesting
// view is gone (ctx cancelled) is dropped rather than applied.
func (g *Gate) Request(ctx context.Context, kind Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	status, err := g.bridge.Request(ctx, kind)
	if err != nil {
		return apperrors.Wrap(err, "permission request failed")
	}

	// The requesting view may have been dismissed while the system dialog
	// was up; its result must not be applied.
	if err := ctx.Err(); err != nil {
		g.log.Debug("permission result arrived after dismissal, dropping", "kind", kind)
		return err
	}

	if status != Granted {
		msg := explanations[kind]
		g.log.Info("permission denied", "kind", kind)
		if g.notifier != nil {
			g.notifier.Explain(kind, msg)
		}
		return apperrors.Wrap(apperrors.ErrPermissionDenied, msg)
	}
	return nil
}
