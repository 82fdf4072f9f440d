package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

// ModerationStore applies single-row moderation writes
type ModerationStore interface {
	SetUserVerification(ctx context.Context, userID int64, status models.VerificationStatus) (*models.User, error)
	SetProfileVerified(ctx context.Context, id int64, verified bool) (*models.TutorProfile, error)
	SetReviewStatus(ctx context.Context, id int64, status models.ReviewStatus) (*models.Review, error)
	SetContentStatus(ctx context.Context, id int64, status models.ContentStatus) (*models.Content, error)
	TransitionTransaction(ctx context.Context, id int64, status models.TransactionStatus, from []models.TransactionStatus) (*models.Transaction, error)
	TransitionPayout(ctx context.Context, id int64, status models.PayoutStatus, from []models.PayoutStatus) (*models.Payout, error)
	TransitionRefund(ctx context.Context, id int64, status models.RefundStatus, from []models.RefundStatus) (*models.Refund, error)
}

// ModerationService changes the status of one row at a time and returns the
// updated row. User, profile, review and content changes are last-write-wins.
// Money rows follow their lifecycle.
type ModerationService struct {
	store  ModerationStore
	logger zerolog.Logger
}

// NewModerationService creates a new ModerationService
func NewModerationService(store ModerationStore, logger zerolog.Logger) *ModerationService {
	return &ModerationService{store: store, logger: logger}
}

// SetUserVerification sets the verification status of an account
func (s *ModerationService) SetUserVerification(ctx context.Context, userID int64, status string) (*dto.UserResponse, error) {
	st := models.VerificationStatus(status)
	if !st.Valid() {
		return nil, invalidStatus(status)
	}
	user, err := s.store.SetUserVerification(ctx, userID, st)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", userID).Str("status", status).Msg("User verification updated")
	row := views.User(*user)
	return &row, nil
}

// SetProfileVerified marks a tutor profile as verified or unverified
func (s *ModerationService) SetProfileVerified(ctx context.Context, id int64, verified bool) (*dto.TutorProfileRow, error) {
	p, err := s.store.SetProfileVerified(ctx, id, verified)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("profileID", id).Bool("verified", verified).Msg("Tutor profile verification updated")
	return &views.Profiles([]models.TutorProfile{*p})[0], nil
}

// SetReviewStatus approves or rejects a review
func (s *ModerationService) SetReviewStatus(ctx context.Context, id int64, status string) (*dto.ReviewRow, error) {
	st := models.ReviewStatus(status)
	if !st.Valid() {
		return nil, invalidStatus(status)
	}
	r, err := s.store.SetReviewStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	return &views.Reviews([]models.Review{*r})[0], nil
}

// SetContentStatus approves or rejects a piece of tutor content
func (s *ModerationService) SetContentStatus(ctx context.Context, id int64, status string) (*dto.ContentRow, error) {
	st := models.ContentStatus(status)
	if !st.Valid() {
		return nil, invalidStatus(status)
	}
	c, err := s.store.SetContentStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	return &views.Content([]models.Content{*c})[0], nil
}

// SetTransactionStatus settles a pending transaction
func (s *ModerationService) SetTransactionStatus(ctx context.Context, id int64, status string) (*dto.TransactionRow, error) {
	st := models.TransactionStatus(status)
	from, err := predecessors(models.TransactionLifecycle, st, status)
	if err != nil {
		return nil, err
	}
	tx, err := s.store.TransitionTransaction(ctx, id, st, from)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("transactionID", id).Str("status", status).Msg("Transaction status updated")
	return &views.Transactions([]models.Transaction{*tx})[0], nil
}

// SetPayoutStatus advances a payout
func (s *ModerationService) SetPayoutStatus(ctx context.Context, id int64, status string) (*dto.PayoutRow, error) {
	st := models.PayoutStatus(status)
	from, err := predecessors(models.PayoutLifecycle, st, status)
	if err != nil {
		return nil, err
	}
	p, err := s.store.TransitionPayout(ctx, id, st, from)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("payoutID", id).Str("status", status).Msg("Payout status updated")
	return &views.Payouts([]models.Payout{*p})[0], nil
}

// SetRefundStatus advances a refund
func (s *ModerationService) SetRefundStatus(ctx context.Context, id int64, status string) (*dto.RefundRow, error) {
	st := models.RefundStatus(status)
	from, err := predecessors(models.RefundLifecycle, st, status)
	if err != nil {
		return nil, err
	}
	r, err := s.store.TransitionRefund(ctx, id, st, from)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("refundID", id).Str("status", status).Msg("Refund status updated")
	return &views.Refunds([]models.Refund{*r})[0], nil
}

type validStatus interface {
	~string
	Valid() bool
}

// predecessors validates a target status and returns the statuses it may be reached from.
// A known status that no action may enter, such as pending, is an invalid transition.
func predecessors[S validStatus](lc models.Lifecycle[S], target S, raw string) ([]S, error) {
	if !target.Valid() {
		return nil, invalidStatus(raw)
	}
	from, ok := lc.Predecessors(target)
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition, "no action may move a row to '"+raw+"'")
	}
	return from, nil
}
