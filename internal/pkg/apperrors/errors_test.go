package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialApprovalError(t *testing.T) {
	err := fmt.Errorf("approve submission 3: %w", &PartialApprovalError{
		Completed: []string{"submission", "institution_profile"},
		Failed:    "user",
		Err:       ErrUserNotFound,
	})

	var partial *PartialApprovalError
	assert.True(t, errors.As(err, &partial))
	assert.Equal(t, "user", partial.Failed)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "completed: submission, institution_profile, failed: user")
}

func TestIs(t *testing.T) {
	err := NewForbiddenError("not your course")
	assert.True(t, Is(err, ErrResourceNotFound, ErrPermissionDenied))
	assert.False(t, Is(err, ErrResourceNotFound, ErrConflict))
	assert.Equal(t, "not your course", err.Error())
}
