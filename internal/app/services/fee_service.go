package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

// DefaultFeeScope is the applies_to value of a fee that covers every booking
const DefaultFeeScope = "all"

// FeeStore persists fee rules. UpdateFee leaves is_active untouched when active is nil.
type FeeStore interface {
	CreateFee(ctx context.Context, fee *models.Fee) (*models.Fee, error)
	UpdateFee(ctx context.Context, fee *models.Fee, active *bool) (*models.Fee, error)
	SetFeeActive(ctx context.Context, id int64, active bool) (*models.Fee, error)
}

// FeeService manages platform fee rules
type FeeService struct {
	store  FeeStore
	logger zerolog.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(store FeeStore, logger zerolog.Logger) *FeeService {
	return &FeeService{store: store, logger: logger}
}

// Create adds a fee rule. New fees are active unless the request says otherwise.
func (s *FeeService) Create(ctx context.Context, req *dto.FeeRequest) (*dto.FeeRow, error) {
	fee, err := feeFromRequest(req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateFee(ctx, fee)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, apperrors.NewConflictError("a fee named '" + fee.Name + "' already exists")
		}
		return nil, err
	}
	s.logger.Info().Int64("feeID", created.ID).Str("name", created.Name).Msg("Fee created")
	row := views.Fee(*created)
	return &row, nil
}

// Update replaces the editable fields of a fee. The active flag only changes
// when the request carries one.
func (s *FeeService) Update(ctx context.Context, id int64, req *dto.FeeRequest) (*dto.FeeRow, error) {
	fee, err := feeFromRequest(req)
	if err != nil {
		return nil, err
	}
	fee.ID = id
	updated, err := s.store.UpdateFee(ctx, fee, req.IsActive)
	if err != nil {
		return nil, err
	}
	row := views.Fee(*updated)
	return &row, nil
}

// SetActive switches a fee on or off
func (s *FeeService) SetActive(ctx context.Context, id int64, active bool) (*dto.FeeRow, error) {
	fee, err := s.store.SetFeeActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	row := views.Fee(*fee)
	return &row, nil
}

func feeFromRequest(req *dto.FeeRequest) (*models.Fee, error) {
	feeType := models.FeeType(req.Type)
	if !feeType.Valid() {
		return nil, apperrors.NewValidationError("type", "type must be percentage or fixed")
	}
	if feeType == models.FeePercentage && req.Value > 100 {
		return nil, apperrors.NewValidationError("value", "a percentage fee cannot exceed 100")
	}

	fee := &models.Fee{
		Name:      strings.TrimSpace(req.Name),
		Type:      feeType,
		Value:     req.Value,
		Currency:  normalizeCurrency(req.Currency),
		AppliesTo: strings.TrimSpace(req.AppliesTo),
		IsActive:  true,
	}
	if fee.AppliesTo == "" {
		fee.AppliesTo = DefaultFeeScope
	}
	if req.IsActive != nil {
		fee.IsActive = *req.IsActive
	}
	return fee, nil
}
