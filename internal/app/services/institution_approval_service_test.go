package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/config"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

var errWriteFailed = errors.New("write failed")

type approvalFake struct {
	subs         map[int64]*models.InstitutionSubmission
	insts        map[int64]*models.InstitutionProfile
	users        map[int64]*models.User
	failStep     string
	inconsistent []models.InstitutionSubmission
}

func newApprovalFake() *approvalFake {
	return &approvalFake{
		subs: map[int64]*models.InstitutionSubmission{
			1: {ID: 1, InstitutionID: 10, Status: models.SubmissionPending},
		},
		insts: map[int64]*models.InstitutionProfile{
			10: {ID: 10, UserID: 100, Name: "Northfield Academy"},
		},
		users: map[int64]*models.User{
			100: {ID: 100, Email: "office@northfield.test", FullName: "Northfield Office",
				Role: models.RoleInstitution, VerificationStatus: models.VerificationPending, IsActive: true},
		},
	}
}

func (f *approvalFake) snapshot() func() {
	subs, insts, users := copyMap(f.subs), copyMap(f.insts), copyMap(f.users)
	return func() {
		f.subs, f.insts, f.users = subs, insts, users
	}
}

func (f *approvalFake) GetSubmission(_ context.Context, id int64) (*models.InstitutionSubmission, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	c := *s
	return &c, nil
}

func (f *approvalFake) GetSubmissionDetail(ctx context.Context, id int64) (*models.InstitutionSubmissionDetail, error) {
	s, err := f.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.InstitutionSubmissionDetail{InstitutionSubmission: *s, Institution: f.insts[s.InstitutionID]}, nil
}

func (f *approvalFake) GetInstitutionByID(_ context.Context, id int64) (*models.InstitutionProfile, error) {
	p, ok := f.insts[id]
	if !ok {
		return nil, apperrors.ErrInstitutionNotFound
	}
	c := *p
	return &c, nil
}

func (f *approvalFake) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *approvalFake) SetSubmissionDecision(_ context.Context, id int64, status models.SubmissionStatus, notes *string, reviewerID int64) (*models.InstitutionSubmission, error) {
	if f.failStep == StepSubmission {
		return nil, errWriteFailed
	}
	s, ok := f.subs[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	now := time.Now()
	s.Status, s.ReviewNotes, s.ReviewedBy, s.ReviewedAt = status, notes, &reviewerID, &now
	c := *s
	return &c, nil
}

func (f *approvalFake) SetInstitutionVerified(_ context.Context, id int64, verified bool) error {
	if f.failStep == StepInstitution {
		return errWriteFailed
	}
	p, ok := f.insts[id]
	if !ok {
		return apperrors.ErrInstitutionNotFound
	}
	p.Verified = verified
	return nil
}

func (f *approvalFake) SetUserVerification(_ context.Context, userID int64, status models.VerificationStatus) (*models.User, error) {
	if f.failStep == StepUser {
		return nil, errWriteFailed
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.VerificationStatus = status
	c := *u
	return &c, nil
}

func (f *approvalFake) ListInconsistentSubmissions(context.Context) ([]models.InstitutionSubmission, error) {
	return f.inconsistent, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	approved []bool
	notes    []string
	done     chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 4)}
}

func (n *recordingNotifier) NotifyInstitutionDecision(_ context.Context, _ *models.User, _ *models.InstitutionProfile, approved bool, notes string) error {
	n.mu.Lock()
	n.approved = append(n.approved, approved)
	n.notes = append(n.notes, notes)
	n.mu.Unlock()
	n.done <- struct{}{}
	return errors.New("smtp unavailable")
}

func newApprovalService(f *approvalFake, mode string, n DecisionNotifier) *InstitutionApprovalService {
	return NewInstitutionApprovalService(f, fakeTx[ApprovalStore](f, f), mode, n, nopLogger)
}

func TestApprove_Transactional(t *testing.T) {
	f := newApprovalFake()
	n := newRecordingNotifier()
	svc := newApprovalService(f, config.ApprovalTransactional, n)

	resp, err := svc.Approve(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, int64(100), resp.UserID)
	assert.Equal(t, config.ApprovalTransactional, resp.Mode)

	assert.Equal(t, models.SubmissionApproved, f.subs[1].Status)
	assert.Equal(t, int64(7), *f.subs[1].ReviewedBy)
	assert.True(t, f.insts[10].Verified)
	assert.Equal(t, models.VerificationApproved, f.users[100].VerificationStatus)

	select {
	case <-n.done:
	case <-time.After(time.Second):
		t.Fatal("notifier was not called")
	}
	assert.Equal(t, []bool{true}, n.approved)
}

func TestReject_StoresNotesAndRejectsUser(t *testing.T) {
	f := newApprovalFake()
	f.insts[10].Verified = true
	svc := newApprovalService(f, config.ApprovalTransactional, nil)

	_, err := svc.Reject(context.Background(), 1, 7, "  missing accreditation  ")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionRejected, f.subs[1].Status)
	assert.Equal(t, "missing accreditation", *f.subs[1].ReviewNotes)
	assert.False(t, f.insts[10].Verified)
	assert.Equal(t, models.VerificationRejected, f.users[100].VerificationStatus)
}

func TestApprove_SequentialFailureLeavesEarlierWrites(t *testing.T) {
	f := newApprovalFake()
	f.failStep = StepInstitution
	svc := newApprovalService(f, config.ApprovalSequential, nil)

	_, err := svc.Approve(context.Background(), 1, 7)
	require.Error(t, err)

	var partial *apperrors.PartialApprovalError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{StepSubmission}, partial.Completed)
	assert.Equal(t, StepInstitution, partial.Failed)
	assert.ErrorIs(t, err, errWriteFailed)

	assert.Equal(t, models.SubmissionApproved, f.subs[1].Status)
	assert.False(t, f.insts[10].Verified)
	assert.Equal(t, models.VerificationPending, f.users[100].VerificationStatus)
}

func TestApprove_SequentialFirstWriteFailureIsNotPartial(t *testing.T) {
	f := newApprovalFake()
	f.failStep = StepSubmission
	svc := newApprovalService(f, config.ApprovalSequential, nil)

	_, err := svc.Approve(context.Background(), 1, 7)
	require.ErrorIs(t, err, errWriteFailed)
	var partial *apperrors.PartialApprovalError
	assert.False(t, errors.As(err, &partial))
}

func TestApprove_TransactionalFailureChangesNothing(t *testing.T) {
	for _, step := range []string{StepInstitution, StepUser} {
		t.Run(step, func(t *testing.T) {
			f := newApprovalFake()
			f.failStep = step
			svc := newApprovalService(f, config.ApprovalTransactional, nil)

			_, err := svc.Approve(context.Background(), 1, 7)
			require.ErrorIs(t, err, errWriteFailed)
			var partial *apperrors.PartialApprovalError
			assert.False(t, errors.As(err, &partial))

			assert.Equal(t, models.SubmissionPending, f.subs[1].Status)
			assert.False(t, f.insts[10].Verified)
			assert.Equal(t, models.VerificationPending, f.users[100].VerificationStatus)
		})
	}
}

func TestApprove_UnknownSubmission(t *testing.T) {
	svc := newApprovalService(newApprovalFake(), config.ApprovalTransactional, nil)
	_, err := svc.Approve(context.Background(), 404, 7)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestNewInstitutionApprovalService_UnknownModeIsTransactional(t *testing.T) {
	svc := newApprovalService(newApprovalFake(), "eventually", nil)
	assert.Equal(t, config.ApprovalTransactional, svc.Mode())
}

func TestReconcile(t *testing.T) {
	f := newApprovalFake()
	f.subs[1].Status = models.SubmissionApproved
	f.inconsistent = []models.InstitutionSubmission{*f.subs[1]}
	svc := newApprovalService(f, config.ApprovalSequential, nil)

	repaired, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.True(t, f.insts[10].Verified)
	assert.Equal(t, models.VerificationApproved, f.users[100].VerificationStatus)
}

func TestReconcile_FailureIsRolledBackAndReported(t *testing.T) {
	f := newApprovalFake()
	f.subs[1].Status = models.SubmissionApproved
	f.inconsistent = []models.InstitutionSubmission{*f.subs[1]}
	f.failStep = StepUser
	svc := newApprovalService(f, config.ApprovalTransactional, nil)

	repaired, err := svc.Reconcile(context.Background())
	assert.Equal(t, 0, repaired)
	assert.ErrorIs(t, err, errWriteFailed)
	assert.False(t, f.insts[10].Verified)
}
