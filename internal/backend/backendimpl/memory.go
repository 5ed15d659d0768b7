package backendimpl

import (
	"context"
	"sync"

	"github.com/crinzping/feed-engine/internal/backend"
	"github.com/crinzping/feed-engine/internal/domain"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
)

// Memory collects submissions in memory, standing in for the hosted backend.
type Memory struct {
	Logger logger.Logger

	mu          sync.Mutex
	submissions []domain.Submission
	failures    int
}

var _ backend.Sink = (*Memory)(nil)

func New(log logger.Logger) *Memory {
	return &Memory{Logger: log}
}

// FailNext makes the next n submissions fail, for retry tests.
func (m *Memory) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

func (m *Memory) Submissions() []domain.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Submission(nil), m.submissions...)
}

func (m *Memory) Submit(ctx context.Context, s domain.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return apperrors.New("backend temporarily unavailable")
	}
	m.submissions = append(m.submissions, s)
	m.Logger.Info("submission accepted", "kind", s.Kind, "author", s.Author)
	return nil
}
