package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/config"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

// Steps of an institution decision, in the order they are written
const (
	StepSubmission  = "submission"
	StepInstitution = "institution_profile"
	StepUser        = "user"
)

// ApprovalStore is the data an institution decision touches
type ApprovalStore interface {
	GetSubmission(ctx context.Context, id int64) (*models.InstitutionSubmission, error)
	GetSubmissionDetail(ctx context.Context, id int64) (*models.InstitutionSubmissionDetail, error)
	GetInstitutionByID(ctx context.Context, id int64) (*models.InstitutionProfile, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	SetSubmissionDecision(ctx context.Context, id int64, status models.SubmissionStatus, notes *string, reviewerID int64) (*models.InstitutionSubmission, error)
	SetInstitutionVerified(ctx context.Context, id int64, verified bool) error
	SetUserVerification(ctx context.Context, userID int64, status models.VerificationStatus) (*models.User, error)
	ListInconsistentSubmissions(ctx context.Context) ([]models.InstitutionSubmission, error)
}

// DecisionNotifier tells an institution about the outcome of its review
type DecisionNotifier interface {
	NotifyInstitutionDecision(ctx context.Context, user *models.User, institution *models.InstitutionProfile, approved bool, notes string) error
}

// InstitutionApprovalService approves or rejects institution verification submissions.
// A decision writes the submission, the institution profile and the owning user.
type InstitutionApprovalService struct {
	store    ApprovalStore
	inTx     TxRunner[ApprovalStore]
	mode     string
	notifier DecisionNotifier
	logger   zerolog.Logger
}

// NewInstitutionApprovalService creates the service. mode is config.ApprovalTransactional
// or config.ApprovalSequential; anything else falls back to transactional.
func NewInstitutionApprovalService(store ApprovalStore, inTx TxRunner[ApprovalStore], mode string, notifier DecisionNotifier, logger zerolog.Logger) *InstitutionApprovalService {
	if mode != config.ApprovalSequential {
		mode = config.ApprovalTransactional
	}
	return &InstitutionApprovalService{
		store:    store,
		inTx:     inTx,
		mode:     mode,
		notifier: notifier,
		logger:   logger,
	}
}

// Mode returns the configured write mode
func (s *InstitutionApprovalService) Mode() string {
	return s.mode
}

// Submission returns one submission with its institution and related sets
func (s *InstitutionApprovalService) Submission(ctx context.Context, id int64) (*models.InstitutionSubmissionDetail, error) {
	return s.store.GetSubmissionDetail(ctx, id)
}

// Approve marks the submission approved, the institution verified and its user approved
func (s *InstitutionApprovalService) Approve(ctx context.Context, submissionID, reviewerID int64) (*dto.SubmissionDecisionResponse, error) {
	return s.decide(ctx, submissionID, reviewerID, models.SubmissionApproved, "")
}

// Reject marks the submission rejected, the institution unverified and its user rejected
func (s *InstitutionApprovalService) Reject(ctx context.Context, submissionID, reviewerID int64, notes string) (*dto.SubmissionDecisionResponse, error) {
	return s.decide(ctx, submissionID, reviewerID, models.SubmissionRejected, notes)
}

type decision struct {
	submissionID int64
	reviewerID   int64
	status       models.SubmissionStatus
	notes        *string
	institution  *models.InstitutionProfile
}

func (d decision) approved() bool {
	return d.status == models.SubmissionApproved
}

func (d decision) userStatus() models.VerificationStatus {
	if d.approved() {
		return models.VerificationApproved
	}
	return models.VerificationRejected
}

func (s *InstitutionApprovalService) decide(ctx context.Context, submissionID, reviewerID int64, status models.SubmissionStatus, notes string) (*dto.SubmissionDecisionResponse, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	inst, err := s.store.GetInstitutionByID(ctx, sub.InstitutionID)
	if err != nil {
		return nil, err
	}

	d := decision{submissionID: sub.ID, reviewerID: reviewerID, status: status, institution: inst}
	if notes = strings.TrimSpace(notes); notes != "" {
		d.notes = &notes
	}

	var user *models.User
	switch s.mode {
	case config.ApprovalSequential:
		completed, u, err := s.apply(ctx, s.store, d)
		if err != nil {
			if len(completed) == 0 {
				return nil, err
			}
			failed := []string{StepSubmission, StepInstitution, StepUser}[len(completed)]
			s.logger.Error().Err(err).Int64("submissionID", submissionID).Strs("completed", completed).
				Str("failed", failed).Msg("Institution decision partially applied")
			return nil, &apperrors.PartialApprovalError{Completed: completed, Failed: failed, Err: err}
		}
		user = u
	default:
		err := s.inTx(ctx, func(ctx context.Context, store ApprovalStore) error {
			_, u, err := s.apply(ctx, store, d)
			user = u
			return err
		})
		if err != nil {
			s.logger.Error().Err(err).Int64("submissionID", submissionID).Msg("Institution decision rolled back")
			return nil, err
		}
	}

	s.logger.Info().Int64("submissionID", submissionID).Int64("institutionID", inst.ID).
		Str("status", string(status)).Str("mode", s.mode).Msg("Institution submission decided")
	s.notify(ctx, user, inst, d)

	return &dto.SubmissionDecisionResponse{
		SubmissionID:  sub.ID,
		InstitutionID: inst.ID,
		UserID:        inst.UserID,
		Status:        string(status),
		Mode:          s.mode,
	}, nil
}

// apply performs the three writes in order and stops at the first failure.
// It returns the steps that succeeded.
func (s *InstitutionApprovalService) apply(ctx context.Context, store ApprovalStore, d decision) ([]string, *models.User, error) {
	completed := make([]string, 0, 3)

	if _, err := store.SetSubmissionDecision(ctx, d.submissionID, d.status, d.notes, d.reviewerID); err != nil {
		return completed, nil, fmt.Errorf("update submission: %w", err)
	}
	completed = append(completed, StepSubmission)

	if err := store.SetInstitutionVerified(ctx, d.institution.ID, d.approved()); err != nil {
		return completed, nil, fmt.Errorf("update institution profile: %w", err)
	}
	completed = append(completed, StepInstitution)

	user, err := store.SetUserVerification(ctx, d.institution.UserID, d.userStatus())
	if err != nil {
		return completed, nil, fmt.Errorf("update user: %w", err)
	}
	completed = append(completed, StepUser)

	return completed, user, nil
}

// notify sends the decision email in the background. Failures are only logged.
func (s *InstitutionApprovalService) notify(ctx context.Context, user *models.User, inst *models.InstitutionProfile, d decision) {
	if s.notifier == nil || user == nil {
		return
	}
	notes := ""
	if d.notes != nil {
		notes = *d.notes
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.notifier.NotifyInstitutionDecision(ctx, user, inst, d.approved(), notes); err != nil {
			s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send institution decision notification")
		}
	}()
}

// Reconcile re-applies decided submissions whose institution flag or user status
// disagree with the decision, each inside its own transaction. Users moderated
// after the decision are left alone. It returns how many were repaired.
func (s *InstitutionApprovalService) Reconcile(ctx context.Context) (int, error) {
	subs, err := s.store.ListInconsistentSubmissions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list inconsistent submissions: %w", err)
	}

	var (
		repaired int
		errs     []error
	)
	for _, sub := range subs {
		d := decision{submissionID: sub.ID, status: sub.Status}
		err := s.inTx(ctx, func(ctx context.Context, store ApprovalStore) error {
			inst, err := store.GetInstitutionByID(ctx, sub.InstitutionID)
			if err != nil {
				return err
			}
			if err := store.SetInstitutionVerified(ctx, inst.ID, d.approved()); err != nil {
				return err
			}
			_, err = store.SetUserVerification(ctx, inst.UserID, d.userStatus())
			return err
		})
		if err != nil {
			s.logger.Error().Err(err).Int64("submissionID", sub.ID).Msg("Failed to reconcile institution decision")
			errs = append(errs, fmt.Errorf("submission %d: %w", sub.ID, err))
			continue
		}
		repaired++
	}

	if repaired > 0 {
		s.logger.Info().Int("repaired", repaired).Msg("Reconciled institution decisions")
	}
	return repaired, errors.Join(errs...)
}
