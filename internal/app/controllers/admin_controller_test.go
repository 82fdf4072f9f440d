package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

type adminFake struct {
	calls       []string
	dashboardOK bool
	partial     bool
	rejectNotes string
}

func (f *adminFake) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *adminFake) Dashboard(context.Context) (*dto.AdminDashboardResponse, error) {
	if !f.dashboardOK {
		return nil, apperrors.ErrDashboardUnavailable
	}
	return &dto.AdminDashboardResponse{FailedResources: []string{"refunds"}}, nil
}

func (f *adminFake) SetUserVerification(_ context.Context, id int64, status string) (*dto.UserResponse, error) {
	if status == "archived" {
		return nil, apperrors.ErrInvalidStatus
	}
	f.record("user %d %s", id, status)
	return &dto.UserResponse{ID: id, VerificationStatus: status}, nil
}

func (f *adminFake) SetProfileVerified(_ context.Context, id int64, verified bool) (*dto.TutorProfileRow, error) {
	f.record("profile %d %t", id, verified)
	return &dto.TutorProfileRow{}, nil
}

func (f *adminFake) SetReviewStatus(_ context.Context, id int64, status string) (*dto.ReviewRow, error) {
	f.record("review %d %s", id, status)
	return &dto.ReviewRow{}, nil
}

func (f *adminFake) SetContentStatus(_ context.Context, id int64, status string) (*dto.ContentRow, error) {
	if id == 404 {
		return nil, apperrors.ErrResourceNotFound
	}
	f.record("content %d %s", id, status)
	return &dto.ContentRow{}, nil
}

func (f *adminFake) SetTransactionStatus(_ context.Context, id int64, status string) (*dto.TransactionRow, error) {
	f.record("transaction %d %s", id, status)
	return &dto.TransactionRow{}, nil
}

func (f *adminFake) SetPayoutStatus(_ context.Context, id int64, status string) (*dto.PayoutRow, error) {
	if status == "pending" {
		return nil, apperrors.ErrInvalidTransition
	}
	f.record("payout %d %s", id, status)
	return &dto.PayoutRow{}, nil
}

func (f *adminFake) SetRefundStatus(_ context.Context, id int64, status string) (*dto.RefundRow, error) {
	f.record("refund %d %s", id, status)
	return &dto.RefundRow{}, nil
}

func (f *adminFake) Submission(_ context.Context, id int64) (*models.InstitutionSubmissionDetail, error) {
	if id != 3 {
		return nil, apperrors.ErrResourceNotFound
	}
	return &models.InstitutionSubmissionDetail{}, nil
}

func (f *adminFake) Approve(_ context.Context, submissionID, reviewerID int64) (*dto.SubmissionDecisionResponse, error) {
	if f.partial {
		return nil, &apperrors.PartialApprovalError{
			Completed: []string{"submission"},
			Failed:    "institution_profile",
			Err:       apperrors.ErrResourceUnavailable,
		}
	}
	f.record("approve %d by %d", submissionID, reviewerID)
	return &dto.SubmissionDecisionResponse{SubmissionID: submissionID, Status: "approved", Mode: "transactional"}, nil
}

func (f *adminFake) Reject(_ context.Context, submissionID, reviewerID int64, notes string) (*dto.SubmissionDecisionResponse, error) {
	f.rejectNotes = notes
	f.record("reject %d by %d", submissionID, reviewerID)
	return &dto.SubmissionDecisionResponse{SubmissionID: submissionID, Status: "rejected"}, nil
}

func (f *adminFake) Create(_ context.Context, req *dto.FeeRequest) (*dto.FeeRow, error) {
	if req.Name == "Platform commission" {
		return nil, apperrors.ErrConflict
	}
	return &dto.FeeRow{Name: req.Name, Type: req.Type, Value: req.Value, IsActive: true}, nil
}

func (f *adminFake) Update(_ context.Context, id int64, req *dto.FeeRequest) (*dto.FeeRow, error) {
	f.record("fee %d %s", id, req.Name)
	return &dto.FeeRow{ID: id, Name: req.Name}, nil
}

func (f *adminFake) SetActive(_ context.Context, id int64, active bool) (*dto.FeeRow, error) {
	f.record("fee %d active=%t", id, active)
	return &dto.FeeRow{ID: id, IsActive: active}, nil
}

func adminRouter(f *adminFake) *gin.Engine {
	c := NewAdminController(f, f, f, f, zerolog.Nop())
	r := gin.New()
	admin := r.Group("/admin", asUser(99))
	admin.GET("/dashboard", c.Dashboard)
	admin.GET("/submissions/:id", c.Submission)
	admin.POST("/submissions/:id/approve", c.ApproveSubmission)
	admin.POST("/submissions/:id/reject", c.RejectSubmission)
	admin.PATCH("/users/:id/verification", c.SetUserVerification)
	admin.PATCH("/profiles/:id/verification", c.SetProfileVerification)
	admin.PATCH("/reviews/:id/status", c.SetReviewStatus)
	admin.PATCH("/content/:id/status", c.SetContentStatus)
	admin.PATCH("/transactions/:id/status", c.SetTransactionStatus)
	admin.PATCH("/payouts/:id/status", c.SetPayoutStatus)
	admin.PATCH("/refunds/:id/status", c.SetRefundStatus)
	admin.POST("/fees", c.CreateFee)
	admin.PUT("/fees/:id", c.UpdateFee)
	admin.PATCH("/fees/:id/active", c.SetFeeActive)
	return r
}

func TestAdminDashboard(t *testing.T) {
	f := &adminFake{}
	r := adminRouter(f)

	w := doJSON(r, http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	f.dashboardOK = true
	w = doJSON(r, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AdminDashboardResponse
	decodeData(t, w, &resp)
	assert.Equal(t, []string{"refunds"}, resp.FailedResources)
}

func TestModerationActions(t *testing.T) {
	f := &adminFake{}
	r := adminRouter(f)

	for _, target := range []string{
		"/admin/users/4/verification",
		"/admin/reviews/5/status",
		"/admin/content/6/status",
		"/admin/transactions/7/status",
		"/admin/payouts/8/status",
		"/admin/refunds/9/status",
	} {
		w := doJSON(r, http.MethodPatch, target, dto.UpdateStatusRequest{Status: "approved"})
		assert.Equal(t, http.StatusOK, w.Code, target)
	}
	assert.Equal(t, []string{
		"user 4 approved",
		"review 5 approved",
		"content 6 approved",
		"transaction 7 approved",
		"payout 8 approved",
		"refund 9 approved",
	}, f.calls)
}

func TestModerationErrors(t *testing.T) {
	r := adminRouter(&adminFake{})

	tests := []struct {
		name     string
		target   string
		body     interface{}
		wantCode int
		wantErr  dto.ErrorCode
	}{
		{"unknown status", "/admin/users/4/verification", dto.UpdateStatusRequest{Status: "archived"}, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"missing status", "/admin/users/4/verification", map[string]string{}, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad id", "/admin/reviews/abc/status", dto.UpdateStatusRequest{Status: "approved"}, http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"missing row", "/admin/content/404/status", dto.UpdateStatusRequest{Status: "approved"}, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"illegal transition", "/admin/payouts/8/status", dto.UpdateStatusRequest{Status: "pending"}, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"verified flag required", "/admin/profiles/2/verification", map[string]string{}, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPatch, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, errorOf(t, w).Code)
		})
	}
}

func TestProfileVerification(t *testing.T) {
	f := &adminFake{}
	r := adminRouter(f)

	unverify := false
	w := doJSON(r, http.MethodPatch, "/admin/profiles/2/verification", dto.UpdateProfileVerificationRequest{Verified: &unverify})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"profile 2 false"}, f.calls)
}

func TestSubmissionDecisions(t *testing.T) {
	f := &adminFake{}
	r := adminRouter(f)

	w := doJSON(r, http.MethodGet, "/admin/submissions/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/admin/submissions/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/submissions/3/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var decision dto.SubmissionDecisionResponse
	decodeData(t, w, &decision)
	assert.Equal(t, "approved", decision.Status)

	w = doJSON(r, http.MethodPost, "/admin/submissions/3/reject", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.rejectNotes)

	w = doJSON(r, http.MethodPost, "/admin/submissions/3/reject", dto.RejectSubmissionRequest{Notes: "Accreditation missing"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Accreditation missing", f.rejectNotes)

	assert.Equal(t, []string{"approve 3 by 99", "reject 3 by 99", "reject 3 by 99"}, f.calls)
}

func TestApproveSubmission_Partial(t *testing.T) {
	r := adminRouter(&adminFake{partial: true})

	w := doJSON(r, http.MethodPost, "/admin/submissions/3/approve", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	detail := errorOf(t, w)
	assert.Equal(t, dto.ErrorCodeDatabaseError, detail.Code)
	assert.Equal(t, dto.ErrorSeverityCritical, detail.Severity)
	assert.Contains(t, w.Body.String(), `"failed":"institution_profile"`)
}

func TestFees(t *testing.T) {
	f := &adminFake{}
	r := adminRouter(f)

	w := doJSON(r, http.MethodPost, "/admin/fees", dto.FeeRequest{Name: "Booking fee", Type: "fixed", Value: 1.5, Currency: "USD"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var fee dto.FeeRow
	decodeData(t, w, &fee)
	assert.Equal(t, "Booking fee", fee.Name)

	w = doJSON(r, http.MethodPost, "/admin/fees", dto.FeeRequest{Name: "Platform commission", Type: "percentage", Value: 10})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/fees", dto.FeeRequest{Name: "Tiered", Type: "tiered", Value: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/admin/fees/2", dto.FeeRequest{Name: "Booking fee", Type: "fixed", Value: 2})
	assert.Equal(t, http.StatusOK, w.Code)

	off := false
	w = doJSON(r, http.MethodPatch, "/admin/fees/2/active", dto.SetActiveRequest{Active: &off})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPatch, "/admin/fees/2/active", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{"fee 2 Booking fee", "fee 2 active=false"}, f.calls)
}
