package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/placarapp/placar-server/internal/logger"
	"github.com/placarapp/placar-server/internal/service"
)

const (
	gameSweepInterval      = time.Minute
	sessionCleanupInterval = time.Hour
)

// GameSweeperJob drops idle play sessions.
type GameSweeperJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *GameSweeperJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideGameSweeperJob provides the periodic play session sweeper.
func ProvideGameSweeperJob(i do.Injector) (*GameSweeperJob, error) {
	games := do.MustInvoke[*service.GameService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(gameSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				if removed := games.Sweep(now); removed > 0 {
					log.Debug("Swept idle game sessions", "removed", removed, "active", games.Active())
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Game sweeper started", "interval", gameSweepInterval)

	return &GameSweeperJob{cancel: cancel, done: done}, nil
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	cleanup := func(label string) {
		count, err := sessions.DeleteExpiredSessions(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn(label+" failed", "error", err)
		case count > 0:
			log.Info(label+" completed", "deleted", count)
		}
	}

	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		cleanup("Initial session cleanup")

		for {
			select {
			case <-ticker.C:
				cleanup("Session cleanup")
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}
