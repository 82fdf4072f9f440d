package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/repositories"
)

// HomeStore provides the live counters of the marketing page
type HomeStore interface {
	CountPublic(ctx context.Context) (repositories.PublicCounts, error)
}

// HomeService serves the public marketing and sign-up chooser pages
type HomeService struct {
	store  HomeStore
	logger zerolog.Logger
}

// NewHomeService creates a new HomeService
func NewHomeService(store HomeStore, logger zerolog.Logger) *HomeService {
	return &HomeService{store: store, logger: logger}
}

// Home returns the marketing page. The copy is static; only the counters are
// read, and a failed read leaves them at zero.
func (s *HomeService) Home(ctx context.Context) *dto.HomeResponse {
	resp := &dto.HomeResponse{
		Hero: dto.HeroSection{
			Title:    "Find the right tutor, course or institution",
			Subtitle: "Verified tutors and institutions, transparent fees and one place to manage every class.",
			CTALabel: "Get started",
			CTAPath:  "/api/v1/signup/options",
		},
		Features: []dto.Feature{
			{Title: "Verified experts", Description: "Every tutor and institution is reviewed before they appear in search.", Icon: "shield-check"},
			{Title: "Flexible learning", Description: "Book one-to-one sessions or enroll in structured institution courses.", Icon: "calendar"},
			{Title: "Secure payments", Description: "Payments are held until the session is delivered, with refunds handled by our team.", Icon: "credit-card"},
		},
		Steps: []dto.Step{
			{Order: 1, Title: "Create an account", Description: "Sign up as a student, tutor or institution."},
			{Order: 2, Title: "Complete your profile", Description: "Tutors and institutions submit their details for verification."},
			{Order: 3, Title: "Start learning", Description: "Students browse, enroll and pay in one flow."},
		},
		Testimonials: []dto.Testimonial{
			{Quote: "I found a physics tutor in a day and my grades followed.", Author: "Aarav S.", Role: "Student"},
			{Quote: "Half of our new admissions now come through inquiries on the platform.", Author: "Northfield Academy", Role: "Institution"},
		},
	}

	counts, err := s.store.CountPublic(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load public counters")
		return resp
	}
	resp.Stats = dto.PublicStats{
		VerifiedTutors:       counts.VerifiedTutors,
		VerifiedInstitutions: counts.VerifiedInstitutions,
		ActiveCourses:        counts.ActiveCourses,
		Students:             counts.Students,
	}
	return resp
}

// SignupOptions lists the role-specific sign-up forms
func (s *HomeService) SignupOptions() []dto.SignupOption {
	account := []string{"fullName", "email", "password", "phone"}
	return []dto.SignupOption{
		{
			Role:        string(models.RoleStudent),
			Title:       "I want to learn",
			Description: "Book tutors and enroll in institution courses.",
			FormPath:    "/api/v1/auth/register/" + string(models.RoleStudent),
			Fields:      account,
		},
		{
			Role:        string(models.RoleTutor),
			Title:       "I want to teach",
			Description: "Offer one-to-one sessions. Profiles are verified before they are listed.",
			FormPath:    "/api/v1/auth/register/" + string(models.RoleTutor),
			Fields:      append(append([]string{}, account...), "headline", "bio", "subjects", "hourlyRate", "currency"),
			NeedsReview: true,
		},
		{
			Role:        string(models.RoleInstitution),
			Title:       "We are an institution",
			Description: "Publish courses, manage admissions and track fees.",
			FormPath:    "/api/v1/auth/register/" + string(models.RoleInstitution),
			Fields:      append(append([]string{}, account...), "institutionName", "city", "address", "website"),
			NeedsReview: true,
		},
	}
}
