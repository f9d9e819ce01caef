/**
 * @description
 * Scheduled transfer operations. A scheduled transfer persists the rate
 * snapshot chosen at scheduling time; when its date arrives the cron job
 * executes it through the normal transfer path using that snapshot, and the
 * row flips scheduled -> executed. Cancellation is a guarded update that
 * only touches still-scheduled rows.
 */

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
)

// scheduleDateLayout is the wire format for scheduled dates.
const scheduleDateLayout = "2006-01-02"

// defaultAnalysis is the advisory payload attached when a transfer is
// scheduled without a bespoke analysis.
func defaultAnalysis() *domain.RateAnalysis {
	return &domain.RateAnalysis{
		Recommendation: "Good time to transfer based on current market conditions",
		MarketTrend:    "stable",
		Confidence:     0.85,
	}
}

// ScheduleTransfer validates and persists a deferred transfer.
func (s *Service) ScheduleTransfer(ctx context.Context, userID uuid.UUID, req domain.ScheduleRequest) (*domain.ScheduledTransfer, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	scheduledDate, err := time.Parse(scheduleDateLayout, req.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidScheduleDate
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !scheduledDate.After(today) {
		return nil, ErrInvalidScheduleDate
	}

	rate, ok := s.catalog.RateForCountry(req.Country)
	if !ok {
		return nil, ErrUnknownCountry
	}
	// When an institution is chosen on the live-rates screen its rate is the
	// snapshot the user agreed to.
	snapshotRate := rate.Rate
	var institutionID *string
	if req.InstitutionID != "" {
		inst, ok := s.catalog.Institution(req.Country, req.InstitutionID)
		if !ok {
			return nil, ErrUnknownInstitution
		}
		snapshotRate = inst.Rate
		institutionID = &inst.ID
	}

	// The recipient must exist and belong to the user up front, even though
	// the registration lookup happens again at execution time.
	if _, err := s.repo.FindRecipientByID(ctx, req.RecipientID, userID); err != nil {
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}

	st := &domain.ScheduledTransfer{
		ID:             uuid.New(),
		UserID:         userID,
		RecipientID:    req.RecipientID,
		Amount:         req.Amount,
		SourceCurrency: req.SourceCurrency,
		TargetCurrency: rate.Currency,
		Country:        req.Country,
		Rate:           snapshotRate,
		InstitutionID:  institutionID,
		PaymentMethod:  req.PaymentMethod,
		ScheduledDate:  scheduledDate,
		Status:         domain.ScheduleStatusScheduled,
		Analysis:       defaultAnalysis(),
	}
	if err := s.repo.CreateScheduledTransfer(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to schedule transfer: %w", err)
	}
	return st, nil
}

// ListScheduledTransfers returns the user's scheduled transfers.
func (s *Service) ListScheduledTransfers(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledTransfer, error) {
	return s.repo.ListScheduledTransfersByUserID(ctx, userID)
}

// CancelScheduledTransfer cancels a still-scheduled transfer. Reports
// whether a row actually moved to cancelled.
func (s *Service) CancelScheduledTransfer(ctx context.Context, userID, scheduleID uuid.UUID) (bool, error) {
	return s.repo.CancelScheduledTransfer(ctx, scheduleID, userID)
}

// DueScheduledTransfers returns every scheduled transfer whose date has
// arrived.
func (s *Service) DueScheduledTransfers(ctx context.Context) ([]domain.ScheduledTransfer, error) {
	return s.repo.FindDueScheduledTransfers(ctx, time.Now().UTC())
}

// ExecuteScheduledTransfer runs a due scheduled transfer through the normal
// creation path using the stored rate snapshot, then marks the row
// executed. A failure leaves the row scheduled so the next run retries it.
func (s *Service) ExecuteScheduledTransfer(ctx context.Context, st domain.ScheduledTransfer) (*domain.Transfer, error) {
	institutionID := ""
	if st.InstitutionID != nil {
		institutionID = *st.InstitutionID
	}
	transfer, err := s.createTransfer(ctx, st.UserID, createTransferParams{
		recipientID:    st.RecipientID,
		amount:         st.Amount,
		sourceCurrency: st.SourceCurrency,
		targetCurrency: st.TargetCurrency,
		exchangeRate:   st.Rate,
		country:        st.Country,
		paymentMethod:  st.PaymentMethod,
		institutionID:  institutionID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkScheduledTransferExecuted(ctx, st.ID, transfer.ID); err != nil {
		return nil, fmt.Errorf("transfer %s created but schedule %s not marked executed: %w", transfer.ID, st.ID, err)
	}
	return transfer, nil
}
