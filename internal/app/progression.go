/**
 * @description
 * The progression worker reflects transfer progress back to clients while
 * the real payout rails are stubbed. After a transfer is created it moves
 * pending -> processing -> completed on fixed delays, each step a guarded
 * status update plus a published status event.
 *
 * Unlike a fire-and-forget timer, every tracked transfer runs under the
 * worker's context: Stop cancels all in-flight progressions and waits for
 * them, so timers never fire against shared state after shutdown. The
 * guarded update (`WHERE status = <from>`) means an externally driven
 * failed/cancelled transition simply halts the progression.
 */

package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/store"
	"github.com/diaremit/remit-service/pkg/rabbitmq"
)

// Progression drives transfer status transitions on fixed delays.
type Progression struct {
	repo            store.Repository
	producer        rabbitmq.Publisher
	processingDelay time.Duration
	completionDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProgression creates a progression worker. processingDelay is the wait
// before pending -> processing; completionDelay the further wait before
// processing -> completed.
func NewProgression(repo store.Repository, producer rabbitmq.Publisher, processingDelay, completionDelay time.Duration) *Progression {
	ctx, cancel := context.WithCancel(context.Background())
	return &Progression{
		repo:            repo,
		producer:        producer,
		processingDelay: processingDelay,
		completionDelay: completionDelay,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Track starts the status progression for a newly created transfer.
func (p *Progression) Track(transferID, senderID uuid.UUID) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if !p.sleep(p.processingDelay) {
			return
		}
		if !p.advance(transferID, senderID, domain.TransferStatusPending, domain.TransferStatusProcessing) {
			return
		}
		if !p.sleep(p.completionDelay) {
			return
		}
		p.advance(transferID, senderID, domain.TransferStatusProcessing, domain.TransferStatusCompleted)
	}()
}

// Stop cancels all in-flight progressions and waits for their goroutines.
func (p *Progression) Stop() {
	p.cancel()
	p.wg.Wait()
}

// sleep waits for d or until the worker is stopped. Returns false when
// stopped.
func (p *Progression) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (p *Progression) advance(transferID, senderID uuid.UUID, from, to string) bool {
	ctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()

	moved, err := p.repo.AdvanceTransferStatus(ctx, transferID, from, to)
	if err != nil {
		log.Printf("level=error component=progression msg=\"status advance failed\" transfer_id=%s from=%s to=%s err=%v", transferID, from, to, err)
		return false
	}
	if !moved {
		// The transfer left the expected status through another path
		// (e.g. failed or cancelled by the backend); stop progressing.
		log.Printf("level=info component=progression msg=\"status advance skipped\" transfer_id=%s from=%s to=%s", transferID, from, to)
		return false
	}

	log.Printf("level=info component=progression msg=\"transfer status advanced\" transfer_id=%s status=%s", transferID, to)
	if p.producer != nil {
		event := domain.TransferStatusEvent{TransferID: transferID, SenderID: senderID, Status: to, Timestamp: time.Now().UTC()}
		if err := p.producer.Publish(ctx, rabbitmq.EventsExchange, "transfer.status."+to, event); err != nil {
			log.Printf("level=warn component=progression msg=\"status event publish failed\" transfer_id=%s status=%s err=%v", transferID, to, err)
		}
	}
	return true
}
