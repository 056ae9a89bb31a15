package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/careercoach/internal/api"
)

// BoardAPI is the subset of the backend client the job board needs.
type BoardAPI interface {
	Jobs(ctx context.Context) ([]api.Job, error)
	Events(ctx context.Context) ([]api.Event, error)
}

// Board is the jobs and events tab content.
type Board struct {
	Jobs   []api.Job
	Events []api.Event
	// JobsErr and EventsErr hold the fetch failure of each list, if any.
	JobsErr   error
	EventsErr error
}

// FetchBoard loads jobs and events concurrently. A failure of one list
// leaves that list empty and does not affect the other.
func FetchBoard(ctx context.Context, client BoardAPI, logger *zap.Logger) Board {
	if logger == nil {
		logger = zap.NewNop()
	}

	// A failed list must not cancel the other, so the group has no
	// context and its goroutines record errors on b instead of returning.
	var b Board
	var g errgroup.Group
	g.Go(func() error {
		jobs, err := client.Jobs(ctx)
		if err != nil {
			logger.Warn("fetch jobs failed", zap.Error(err))
			b.JobsErr = err
			return nil
		}
		b.Jobs = jobs
		return nil
	})
	g.Go(func() error {
		events, err := client.Events(ctx)
		if err != nil {
			logger.Warn("fetch events failed", zap.Error(err))
			b.EventsErr = err
			return nil
		}
		b.Events = events
		return nil
	})
	_ = g.Wait()
	return b
}
