package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
)

type executorStub struct {
	due      []domain.ScheduledTransfer
	dueErr   error
	failFor  map[uuid.UUID]error
	executed []uuid.UUID
}

func (e *executorStub) DueScheduledTransfers(ctx context.Context) ([]domain.ScheduledTransfer, error) {
	return e.due, e.dueErr
}

func (e *executorStub) ExecuteScheduledTransfer(ctx context.Context, st domain.ScheduledTransfer) (*domain.Transfer, error) {
	if err := e.failFor[st.ID]; err != nil {
		return nil, err
	}
	e.executed = append(e.executed, st.ID)
	return &domain.Transfer{ID: uuid.New(), SenderID: st.UserID}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessDueScheduledTransfers_ExecutesEveryDueTransfer(t *testing.T) {
	first := domain.ScheduledTransfer{ID: uuid.New(), UserID: uuid.New(), Amount: 100}
	second := domain.ScheduledTransfer{ID: uuid.New(), UserID: uuid.New(), Amount: 200}
	executor := &executorStub{due: []domain.ScheduledTransfer{first, second}}

	NewJobs(executor, discardLogger()).ProcessDueScheduledTransfers()

	if len(executor.executed) != 2 {
		t.Fatalf("expected both due transfers executed, got %v", executor.executed)
	}
}

func TestProcessDueScheduledTransfers_FailureDoesNotBlockOthers(t *testing.T) {
	failing := domain.ScheduledTransfer{ID: uuid.New(), UserID: uuid.New(), Amount: 100}
	healthy := domain.ScheduledTransfer{ID: uuid.New(), UserID: uuid.New(), Amount: 200}
	executor := &executorStub{
		due:     []domain.ScheduledTransfer{failing, healthy},
		failFor: map[uuid.UUID]error{failing.ID: errors.New("insufficient funds")},
	}

	NewJobs(executor, discardLogger()).ProcessDueScheduledTransfers()

	if len(executor.executed) != 1 || executor.executed[0] != healthy.ID {
		t.Fatalf("expected only the healthy transfer executed, got %v", executor.executed)
	}
}

func TestProcessDueScheduledTransfers_LoadFailureExecutesNothing(t *testing.T) {
	executor := &executorStub{dueErr: errors.New("backend not configured")}

	NewJobs(executor, discardLogger()).ProcessDueScheduledTransfers()

	if len(executor.executed) != 0 {
		t.Fatalf("expected nothing executed, got %v", executor.executed)
	}
}
