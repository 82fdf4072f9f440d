package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/tutorhub/internal/app/models"
)

// Repositories holds all the repository instances bound to one DBTX
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	FileRepository        *FileRepository
	ProfileRepository     *ProfileRepository
	ReviewRepository      *ReviewRepository
	ContentRepository     *ContentRepository
	PaymentRepository     *PaymentRepository
	FeeRepository         *FeeRepository
	InstitutionRepository *InstitutionRepository
	SubmissionRepository  *SubmissionRepository
	CourseRepository      *CourseRepository
}

// NewRepositories initializes all repositories against db
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		FileRepository:        NewFileRepository(db),
		ProfileRepository:     NewProfileRepository(db),
		ReviewRepository:      NewReviewRepository(db),
		ContentRepository:     NewContentRepository(db),
		PaymentRepository:     NewPaymentRepository(db),
		FeeRepository:         NewFeeRepository(db),
		InstitutionRepository: NewInstitutionRepository(db),
		SubmissionRepository:  NewSubmissionRepository(db),
		CourseRepository:      NewCourseRepository(db),
	}
}

// WithTx returns the same set of repositories running inside tx
func (r *Repositories) WithTx(tx pgx.Tx) *Repositories {
	return NewRepositories(tx)
}

// Admin dashboard loaders

func (r *Repositories) ListUsers(ctx context.Context) ([]models.User, error) {
	return r.UserRepository.List(ctx)
}

func (r *Repositories) ListProfiles(ctx context.Context) ([]models.TutorProfile, error) {
	return r.ProfileRepository.List(ctx)
}

func (r *Repositories) ListReviews(ctx context.Context) ([]models.Review, error) {
	return r.ReviewRepository.List(ctx)
}

func (r *Repositories) ListContent(ctx context.Context) ([]models.Content, error) {
	return r.ContentRepository.List(ctx)
}

func (r *Repositories) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return r.PaymentRepository.ListTransactions(ctx)
}

func (r *Repositories) ListPayouts(ctx context.Context) ([]models.Payout, error) {
	return r.PaymentRepository.ListPayouts(ctx)
}

func (r *Repositories) ListRefunds(ctx context.Context) ([]models.Refund, error) {
	return r.PaymentRepository.ListRefunds(ctx)
}

func (r *Repositories) ListFees(ctx context.Context) ([]models.Fee, error) {
	return r.FeeRepository.List(ctx)
}

// ListSubmissionDetails loads every submission and attaches its institution
// and related sets, using one query per table.
func (r *Repositories) ListSubmissionDetails(ctx context.Context) ([]models.InstitutionSubmissionDetail, error) {
	subs, err := r.SubmissionRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	return r.assembleDetails(ctx, subs)
}

// GetSubmissionDetail loads one assembled submission
func (r *Repositories) GetSubmissionDetail(ctx context.Context, id int64) (*models.InstitutionSubmissionDetail, error) {
	sub, err := r.SubmissionRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := r.assembleDetails(ctx, []models.InstitutionSubmission{*sub})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (r *Repositories) assembleDetails(ctx context.Context, subs []models.InstitutionSubmission) ([]models.InstitutionSubmissionDetail, error) {
	seen := make(map[int64]struct{}, len(subs))
	ids := make([]int64, 0, len(subs))
	for _, s := range subs {
		if _, ok := seen[s.InstitutionID]; !ok {
			seen[s.InstitutionID] = struct{}{}
			ids = append(ids, s.InstitutionID)
		}
	}

	profiles, err := r.InstitutionRepository.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("institution profiles: %w", err)
	}
	related, err := r.InstitutionRepository.LoadRelated(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.InstitutionSubmissionDetail, 0, len(subs))
	for _, s := range subs {
		out = append(out, models.InstitutionSubmissionDetail{
			InstitutionSubmission: s,
			Institution:           profiles[s.InstitutionID],
			InstitutionRelated:    *related[s.InstitutionID],
		})
	}
	return out, nil
}

// Institution approval

func (r *Repositories) GetSubmission(ctx context.Context, id int64) (*models.InstitutionSubmission, error) {
	return r.SubmissionRepository.GetByID(ctx, id)
}

func (r *Repositories) GetInstitutionByID(ctx context.Context, id int64) (*models.InstitutionProfile, error) {
	return r.InstitutionRepository.GetByID(ctx, id)
}

func (r *Repositories) SetSubmissionDecision(ctx context.Context, id int64, status models.SubmissionStatus, notes *string, reviewerID int64) (*models.InstitutionSubmission, error) {
	return r.SubmissionRepository.SetDecision(ctx, id, status, notes, reviewerID)
}

func (r *Repositories) SetInstitutionVerified(ctx context.Context, id int64, verified bool) error {
	_, err := r.InstitutionRepository.SetVerified(ctx, id, verified)
	return err
}

func (r *Repositories) SetUserVerification(ctx context.Context, userID int64, status models.VerificationStatus) (*models.User, error) {
	return r.UserRepository.SetVerificationStatus(ctx, userID, status)
}

func (r *Repositories) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.UserRepository.GetByID(ctx, id)
}

func (r *Repositories) ListInconsistentSubmissions(ctx context.Context) ([]models.InstitutionSubmission, error) {
	return r.SubmissionRepository.ListInconsistent(ctx)
}

// Accounts and sessions

func (r *Repositories) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.UserRepository.GetByEmail(ctx, email)
}

func (r *Repositories) UpdateLastLogin(ctx context.Context, userID int64) error {
	return r.UserRepository.UpdateLastLogin(ctx, userID)
}

func (r *Repositories) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.UserRepository.EmailExists(ctx, email)
}

func (r *Repositories) CreateUser(ctx context.Context, user *models.User) error {
	return r.UserRepository.Create(ctx, user)
}

func (r *Repositories) CreateTutorProfile(ctx context.Context, profile *models.TutorProfile) error {
	return r.ProfileRepository.Create(ctx, profile)
}

func (r *Repositories) CreateInstitution(ctx context.Context, profile *models.InstitutionProfile) error {
	return r.InstitutionRepository.Create(ctx, profile)
}

func (r *Repositories) CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	return r.TokenRepository.CreateToken(ctx, token, userID, expiresAt)
}

func (r *Repositories) GetTokenOwner(ctx context.Context, token string) (int64, error) {
	return r.TokenRepository.GetTokenOwner(ctx, token)
}

func (r *Repositories) RevokeToken(ctx context.Context, token string) error {
	return r.TokenRepository.RevokeToken(ctx, token)
}

func (r *Repositories) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return r.TokenRepository.CleanupExpiredTokens(ctx)
}

func (r *Repositories) CountPublic(ctx context.Context) (PublicCounts, error) {
	return r.UserRepository.CountPublic(ctx)
}

// Moderation

func (r *Repositories) SetProfileVerified(ctx context.Context, id int64, verified bool) (*models.TutorProfile, error) {
	return r.ProfileRepository.SetVerified(ctx, id, verified)
}

func (r *Repositories) SetReviewStatus(ctx context.Context, id int64, status models.ReviewStatus) (*models.Review, error) {
	return r.ReviewRepository.SetStatus(ctx, id, status)
}

func (r *Repositories) SetContentStatus(ctx context.Context, id int64, status models.ContentStatus) (*models.Content, error) {
	return r.ContentRepository.SetStatus(ctx, id, status)
}

func (r *Repositories) TransitionTransaction(ctx context.Context, id int64, status models.TransactionStatus, from []models.TransactionStatus) (*models.Transaction, error) {
	return r.PaymentRepository.TransitionTransaction(ctx, id, status, from)
}

func (r *Repositories) TransitionPayout(ctx context.Context, id int64, status models.PayoutStatus, from []models.PayoutStatus) (*models.Payout, error) {
	return r.PaymentRepository.TransitionPayout(ctx, id, status, from)
}

func (r *Repositories) TransitionRefund(ctx context.Context, id int64, status models.RefundStatus, from []models.RefundStatus) (*models.Refund, error) {
	return r.PaymentRepository.TransitionRefund(ctx, id, status, from)
}

func (r *Repositories) EnsureDefaultFee(ctx context.Context, fee models.Fee) error {
	return r.FeeRepository.EnsureDefault(ctx, fee)
}

func (r *Repositories) CreateFee(ctx context.Context, fee *models.Fee) (*models.Fee, error) {
	return r.FeeRepository.Create(ctx, fee)
}

func (r *Repositories) UpdateFee(ctx context.Context, fee *models.Fee, active *bool) (*models.Fee, error) {
	return r.FeeRepository.Update(ctx, fee, active)
}

func (r *Repositories) SetFeeActive(ctx context.Context, id int64, active bool) (*models.Fee, error) {
	return r.FeeRepository.SetActive(ctx, id, active)
}

// Institution dashboard

func (r *Repositories) GetInstitutionByUserID(ctx context.Context, userID int64) (*models.InstitutionProfile, error) {
	return r.InstitutionRepository.GetByUserID(ctx, userID)
}

func (r *Repositories) UpdateInstitutionSettings(ctx context.Context, p *models.InstitutionProfile) (*models.InstitutionProfile, error) {
	return r.InstitutionRepository.UpdateSettings(ctx, p)
}

func (r *Repositories) SetInstitutionLogo(ctx context.Context, institutionID int64, url string) (*models.InstitutionProfile, error) {
	return r.InstitutionRepository.SetLogo(ctx, institutionID, url)
}

func (r *Repositories) LatestSubmission(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error) {
	return r.SubmissionRepository.Latest(ctx, institutionID)
}

func (r *Repositories) CreateSubmission(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error) {
	return r.SubmissionRepository.Create(ctx, institutionID)
}

func (r *Repositories) ListCourses(ctx context.Context, institutionID int64) ([]models.Course, error) {
	return r.CourseRepository.ListCourses(ctx, institutionID)
}

func (r *Repositories) GetCourse(ctx context.Context, institutionID, id int64) (*models.Course, error) {
	return r.CourseRepository.GetCourse(ctx, institutionID, id)
}

func (r *Repositories) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	return r.CourseRepository.CreateCourse(ctx, c)
}

func (r *Repositories) UpdateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	return r.CourseRepository.UpdateCourse(ctx, c)
}

func (r *Repositories) DeactivateCourse(ctx context.Context, institutionID, id int64) (*models.Course, error) {
	return r.CourseRepository.DeactivateCourse(ctx, institutionID, id)
}

func (r *Repositories) SetCourseSyllabus(ctx context.Context, institutionID, courseID int64, url string) (*models.Course, error) {
	return r.CourseRepository.SetSyllabus(ctx, institutionID, courseID, url)
}

func (r *Repositories) ListEnrollments(ctx context.Context, institutionID int64) ([]models.Enrollment, error) {
	return r.CourseRepository.ListEnrollments(ctx, institutionID)
}

func (r *Repositories) ListInquiries(ctx context.Context, institutionID int64) ([]models.Inquiry, error) {
	return r.CourseRepository.ListInquiries(ctx, institutionID)
}

func (r *Repositories) TransitionInquiry(ctx context.Context, institutionID, id int64, status models.InquiryStatus, from []models.InquiryStatus) (*models.Inquiry, error) {
	return r.CourseRepository.TransitionInquiry(ctx, institutionID, id, status, from)
}

func (r *Repositories) ListAdmissions(ctx context.Context, institutionID int64) ([]models.Admission, error) {
	return r.CourseRepository.ListAdmissions(ctx, institutionID)
}

func (r *Repositories) TransitionAdmission(ctx context.Context, institutionID, id int64, status models.AdmissionStatus, from []models.AdmissionStatus) (*models.Admission, error) {
	return r.CourseRepository.TransitionAdmission(ctx, institutionID, id, status, from)
}

func (r *Repositories) ListFaculty(ctx context.Context, institutionID int64) ([]models.InstitutionFaculty, error) {
	return r.InstitutionRepository.ListFaculty(ctx, institutionID)
}

func (r *Repositories) CreateFaculty(ctx context.Context, f *models.InstitutionFaculty) (*models.InstitutionFaculty, error) {
	return r.InstitutionRepository.CreateFaculty(ctx, f)
}

func (r *Repositories) UpdateFaculty(ctx context.Context, f *models.InstitutionFaculty) (*models.InstitutionFaculty, error) {
	return r.InstitutionRepository.UpdateFaculty(ctx, f)
}

func (r *Repositories) DeleteFaculty(ctx context.Context, institutionID, id int64) error {
	return r.InstitutionRepository.DeleteFaculty(ctx, institutionID, id)
}

func (r *Repositories) CreateFile(ctx context.Context, file *models.File) (int64, error) {
	return r.FileRepository.Create(ctx, file)
}
