package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

type fakeOwnershipStore struct {
	users        map[int64]*models.User
	institutions map[int64]*models.InstitutionProfile
	err          error
}

func (f *fakeOwnershipStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeOwnershipStore) GetInstitutionByUserID(_ context.Context, userID int64) (*models.InstitutionProfile, error) {
	p, ok := f.institutions[userID]
	if !ok {
		return nil, apperrors.ErrInstitutionNotFound
	}
	return p, nil
}

func newOwnershipStore() *fakeOwnershipStore {
	return &fakeOwnershipStore{
		users: map[int64]*models.User{
			1: {ID: 1, Role: models.RoleInstitution, IsActive: true},
			2: {ID: 2, Role: models.RoleTutor, IsActive: true},
			3: {ID: 3, Role: models.RoleInstitution, IsActive: false},
			4: {ID: 4, Role: models.RoleInstitution, IsActive: true},
		},
		institutions: map[int64]*models.InstitutionProfile{
			1: {ID: 10, UserID: 1, Name: "Bright Minds"},
		},
	}
}

func TestInstitutionFor(t *testing.T) {
	svc := NewAuthorizationService(newOwnershipStore())

	inst, err := svc.InstitutionFor(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), inst.ID)

	_, err = svc.InstitutionFor(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.InstitutionFor(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)

	_, err = svc.InstitutionFor(context.Background(), 4)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.InstitutionFor(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestGetUserInfo_WrapsStoreErrors(t *testing.T) {
	store := newOwnershipStore()
	store.err = errors.New("connection reset")
	svc := NewAuthorizationService(store)

	_, err := svc.GetUserInfo(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
