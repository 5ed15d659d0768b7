package backend

import (
	"context"

	"github.com/crinzping/feed-engine/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock.go -package=mocks

// Sink accepts confirmed submissions. The wire protocol behind it is not this
// core's business; it is an opaque data sink.
type Sink interface {
	Submit(ctx context.Context, s domain.Submission) error
}
