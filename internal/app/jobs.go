/**
 * @description
 * Scheduled job implementations for the remit-service cron runner.
 */

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/diaremit/remit-service/internal/domain"
)

// ScheduledExecutor defines the operations the jobs need from the service.
type ScheduledExecutor interface {
	DueScheduledTransfers(ctx context.Context) ([]domain.ScheduledTransfer, error)
	ExecuteScheduledTransfer(ctx context.Context, st domain.ScheduledTransfer) (*domain.Transfer, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	executor ScheduledExecutor
	logger   *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(executor ScheduledExecutor, logger *slog.Logger) *Jobs {
	return &Jobs{executor: executor, logger: logger}
}

// ProcessDueScheduledTransfers executes every scheduled transfer whose date
// has arrived. A failed execution is logged and left scheduled so the next
// run retries it; a success flips the row to executed.
func (j *Jobs) ProcessDueScheduledTransfers() {
	j.logger.Info("starting scheduled transfer execution job")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	due, err := j.executor.DueScheduledTransfers(ctx)
	if err != nil {
		j.logger.Error("failed to load due scheduled transfers", "error", err)
		return
	}
	if len(due) == 0 {
		j.logger.Info("no scheduled transfers due")
		return
	}

	executed := 0
	for _, st := range due {
		transfer, err := j.executor.ExecuteScheduledTransfer(ctx, st)
		if err != nil {
			j.logger.Error("scheduled transfer execution failed",
				"schedule_id", st.ID, "user_id", st.UserID, "error", err)
			continue
		}
		executed++
		j.logger.Info("scheduled transfer executed",
			"schedule_id", st.ID, "transfer_id", transfer.ID, "amount", st.Amount)
	}

	j.logger.Info("scheduled transfer execution job finished", "due", len(due), "executed", executed)
}
