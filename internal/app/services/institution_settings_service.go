package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/filestorage"
)

// SettingsStore edits an institution profile and files verification submissions
type SettingsStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateInstitutionSettings(ctx context.Context, p *models.InstitutionProfile) (*models.InstitutionProfile, error)
	LatestSubmission(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error)
	CreateSubmission(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error)
}

// InstitutionSettingsService handles the settings tab
type InstitutionSettingsService struct {
	store    SettingsStore
	resolver InstitutionResolver
	uploads  uploader
	logger   zerolog.Logger
}

// NewInstitutionSettingsService creates a new InstitutionSettingsService
func NewInstitutionSettingsService(store SettingsStore, resolver InstitutionResolver, storage filestorage.FileStorage, inTx TxRunner[UploadStore], logger zerolog.Logger) *InstitutionSettingsService {
	return &InstitutionSettingsService{
		store:    store,
		resolver: resolver,
		uploads:  uploader{storage: storage, inTx: inTx, logger: logger},
		logger:   logger,
	}
}

func (s *InstitutionSettingsService) view(ctx context.Context, p *models.InstitutionProfile) *dto.InstitutionProfileView {
	status := models.VerificationPending
	if user, err := s.store.GetUserByID(ctx, p.UserID); err == nil {
		status = views.DisplayVerificationStatus(user.Role, user.VerificationStatus)
	} else {
		s.logger.Warn().Err(err).Int64("userID", p.UserID).Msg("Failed to load institution account status")
	}
	v := views.InstitutionProfile(*p, status)
	return &v
}

// Settings returns the caller's institution profile
func (s *InstitutionSettingsService) Settings(ctx context.Context, userID int64) (*dto.InstitutionProfileView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, inst), nil
}

// UpdateSettings replaces the editable profile fields
func (s *InstitutionSettingsService) UpdateSettings(ctx context.Context, userID int64, req *dto.InstitutionSettingsRequest) (*dto.InstitutionProfileView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := *inst
	next.Name = strings.TrimSpace(req.Name)
	next.Description = req.Description
	next.Website = req.Website
	next.Address = req.Address
	next.City = req.City
	next.EstablishedYear = req.EstablishedYear

	updated, err := s.store.UpdateInstitutionSettings(ctx, &next)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated), nil
}

// UploadLogo stores a logo image and sets it on the profile
func (s *InstitutionSettingsService) UploadLogo(ctx context.Context, userID int64, upload FileUpload) (*dto.InstitutionProfileView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := storeUpload(ctx, s.uploads, logoPolicy, upload, inst.ID, userID,
		func(ctx context.Context, store UploadStore, url string) (*models.InstitutionProfile, error) {
			return store.SetInstitutionLogo(ctx, inst.ID, url)
		})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated), nil
}

// Submit files the profile for verification. Only one submission may be pending,
// and a verified institution has nothing to submit.
func (s *InstitutionSettingsService) Submit(ctx context.Context, userID int64) (*models.InstitutionSubmission, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if inst.Verified {
		return nil, apperrors.NewConflictError("institution is already verified")
	}

	latest, err := s.store.LatestSubmission(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == models.SubmissionPending {
		return nil, apperrors.ErrSubmissionPending
	}

	sub, err := s.store.CreateSubmission(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("institutionID", inst.ID).Int64("submissionID", sub.ID).Msg("Institution submitted for verification")
	return sub, nil
}
