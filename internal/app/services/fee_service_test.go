package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

type feeFake struct {
	fees map[int64]*models.Fee
}

func (f *feeFake) CreateFee(_ context.Context, fee *models.Fee) (*models.Fee, error) {
	for _, existing := range f.fees {
		if existing.Name == fee.Name {
			return nil, apperrors.ErrResourceAlreadyExists
		}
	}
	fee.ID = int64(len(f.fees) + 1)
	stored := *fee
	f.fees[fee.ID] = &stored
	return fee, nil
}

func (f *feeFake) UpdateFee(_ context.Context, fee *models.Fee, active *bool) (*models.Fee, error) {
	current, ok := f.fees[fee.ID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	stored := *fee
	stored.IsActive = current.IsActive
	if active != nil {
		stored.IsActive = *active
	}
	f.fees[fee.ID] = &stored
	out := stored
	return &out, nil
}

func (f *feeFake) SetFeeActive(_ context.Context, id int64, active bool) (*models.Fee, error) {
	fee, ok := f.fees[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	fee.IsActive = active
	out := *fee
	return &out, nil
}

func TestFeeService_CreateDefaults(t *testing.T) {
	svc := NewFeeService(&feeFake{fees: map[int64]*models.Fee{}}, nopLogger)

	row, err := svc.Create(context.Background(), &dto.FeeRequest{Name: " Platform commission ", Type: "percentage", Value: 12.5})
	require.NoError(t, err)
	assert.Equal(t, "Platform commission", row.Name)
	assert.Equal(t, "12.5%", row.DisplayValue)
	assert.Equal(t, "USD", row.Currency)
	assert.Equal(t, DefaultFeeScope, row.AppliesTo)
	assert.True(t, row.IsActive)
}

func TestFeeService_CreateValidation(t *testing.T) {
	svc := NewFeeService(&feeFake{fees: map[int64]*models.Fee{}}, nopLogger)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.FeeRequest{Name: "Too much", Type: "percentage", Value: 120})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Create(ctx, &dto.FeeRequest{Name: "Odd", Type: "tiered", Value: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	row, err := svc.Create(ctx, &dto.FeeRequest{Name: "Booking", Type: "fixed", Value: 120, Currency: "gbp"})
	require.NoError(t, err)
	assert.Equal(t, "£120.00", row.DisplayValue)
}

func TestFeeService_DuplicateNameIsConflict(t *testing.T) {
	svc := NewFeeService(&feeFake{fees: map[int64]*models.Fee{}}, nopLogger)
	req := &dto.FeeRequest{Name: "Service", Type: "fixed", Value: 2}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFeeService_UpdateAndToggle(t *testing.T) {
	f := &feeFake{fees: map[int64]*models.Fee{}}
	svc := NewFeeService(f, nopLogger)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.FeeRequest{Name: "Service", Type: "fixed", Value: 2})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, created.ID, &dto.FeeRequest{Name: "Service", Type: "percentage", Value: 3, AppliesTo: "tutors", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "3%", updated.DisplayValue)
	assert.Equal(t, "tutors", updated.AppliesTo)
	assert.False(t, updated.IsActive)

	toggled, err := svc.SetActive(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = svc.SetActive(ctx, 99, true)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestFeeService_UpdateKeepsActiveFlagWhenOmitted(t *testing.T) {
	f := &feeFake{fees: map[int64]*models.Fee{}}
	svc := NewFeeService(f, nopLogger)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.FeeRequest{Name: "Listing", Type: "fixed", Value: 25})
	require.NoError(t, err)
	_, err = svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &dto.FeeRequest{Name: "Listing", Type: "fixed", Value: 30})
	require.NoError(t, err)
	assert.Equal(t, "$30.00", updated.DisplayValue)
	assert.False(t, updated.IsActive)
	assert.False(t, f.fees[created.ID].IsActive)
}
