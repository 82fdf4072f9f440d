package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/middleware"
)

// AdminDashboard loads the back-office view
type AdminDashboard interface {
	Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

// Moderator applies single-row moderation actions
type Moderator interface {
	SetUserVerification(ctx context.Context, userID int64, status string) (*dto.UserResponse, error)
	SetProfileVerified(ctx context.Context, id int64, verified bool) (*dto.TutorProfileRow, error)
	SetReviewStatus(ctx context.Context, id int64, status string) (*dto.ReviewRow, error)
	SetContentStatus(ctx context.Context, id int64, status string) (*dto.ContentRow, error)
	SetTransactionStatus(ctx context.Context, id int64, status string) (*dto.TransactionRow, error)
	SetPayoutStatus(ctx context.Context, id int64, status string) (*dto.PayoutRow, error)
	SetRefundStatus(ctx context.Context, id int64, status string) (*dto.RefundRow, error)
}

// InstitutionApprover decides institution verification submissions
type InstitutionApprover interface {
	Submission(ctx context.Context, id int64) (*models.InstitutionSubmissionDetail, error)
	Approve(ctx context.Context, submissionID, reviewerID int64) (*dto.SubmissionDecisionResponse, error)
	Reject(ctx context.Context, submissionID, reviewerID int64, notes string) (*dto.SubmissionDecisionResponse, error)
}

// FeeManager edits platform fee rules
type FeeManager interface {
	Create(ctx context.Context, req *dto.FeeRequest) (*dto.FeeRow, error)
	Update(ctx context.Context, id int64, req *dto.FeeRequest) (*dto.FeeRow, error)
	SetActive(ctx context.Context, id int64, active bool) (*dto.FeeRow, error)
}

// AdminController serves the admin dashboard and its moderation actions
type AdminController struct {
	dashboard  AdminDashboard
	moderation Moderator
	approvals  InstitutionApprover
	fees       FeeManager
	logger     zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(dashboard AdminDashboard, moderation Moderator, approvals InstitutionApprover, fees FeeManager, logger zerolog.Logger) *AdminController {
	return &AdminController{
		dashboard:  dashboard,
		moderation: moderation,
		approvals:  approvals,
		fees:       fees,
		logger:     logger,
	}
}

// Dashboard returns every admin collection plus the derived stats
// @Summary Admin dashboard
// @Description Loads users, profiles, reviews, content, money, fees and institution submissions concurrently. Collections that failed to load are empty and named in failedResources.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 503 {object} dto.ErrorResponse "No collection could be loaded"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	resp, err := c.dashboard.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Submission returns one institution submission with its related sets
// @Summary Institution submission detail
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=models.InstitutionSubmissionDetail}
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /admin/submissions/{id} [get]
func (c *AdminController) Submission(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.approvals.Submission(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: detail})
}

// statusAction binds {status} and applies it to the row named by :id
func statusAction[T any](c *AdminController, action string, apply func(ctx context.Context, id int64, status string) (*T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := middleware.PathID(ctx, "id")
		if !ok {
			return
		}
		var req dto.UpdateStatusRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}

		row, err := apply(ctx.Request.Context(), id, req.Status)
		if err != nil {
			c.logger.Warn().Err(err).Str("action", action).Int64("id", id).Str("status", req.Status).Msg("Moderation action failed")
			middleware.HandleAPIError(ctx, err)
			return
		}

		adminID, _ := middleware.UserID(ctx)
		c.logger.Info().Str("action", action).Int64("id", id).Str("status", req.Status).Int64("adminID", adminID).Msg("Moderation action applied")
		ctx.JSON(http.StatusOK, dto.APIResponse{Data: row})
	}
}

// SetUserVerification godoc
// @Summary Set a user's verification status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateStatusRequest true "pending, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/verification [patch]
func (c *AdminController) SetUserVerification(ctx *gin.Context) {
	statusAction(c, "user_verification", c.moderation.SetUserVerification)(ctx)
}

// SetProfileVerification godoc
// @Summary Verify or unverify a tutor profile
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateProfileVerificationRequest true "Verified flag"
// @Success 200 {object} dto.APIResponse{data=dto.TutorProfileRow}
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /admin/profiles/{id}/verification [patch]
func (c *AdminController) SetProfileVerification(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateProfileVerificationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	row, err := c.moderation.SetProfileVerified(ctx.Request.Context(), id, *req.Verified)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: row})
}

// SetReviewStatus godoc
// @Summary Moderate a review
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param request body dto.UpdateStatusRequest true "pending, approved, rejected or flagged"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewRow}
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /admin/reviews/{id}/status [patch]
func (c *AdminController) SetReviewStatus(ctx *gin.Context) {
	statusAction(c, "review_status", c.moderation.SetReviewStatus)(ctx)
}

// SetContentStatus godoc
// @Summary Moderate uploaded content
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Param request body dto.UpdateStatusRequest true "pending, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=dto.ContentRow}
// @Router /admin/content/{id}/status [patch]
func (c *AdminController) SetContentStatus(ctx *gin.Context) {
	statusAction(c, "content_status", c.moderation.SetContentStatus)(ctx)
}

// SetTransactionStatus godoc
// @Summary Settle a pending transaction
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateStatusRequest true "completed, failed or cancelled"
// @Success 200 {object} dto.APIResponse{data=dto.TransactionRow}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed from the current status"
// @Router /admin/transactions/{id}/status [patch]
func (c *AdminController) SetTransactionStatus(ctx *gin.Context) {
	statusAction(c, "transaction_status", c.moderation.SetTransactionStatus)(ctx)
}

// SetPayoutStatus godoc
// @Summary Advance a payout
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payout ID"
// @Param request body dto.UpdateStatusRequest true "processing, completed or failed"
// @Success 200 {object} dto.APIResponse{data=dto.PayoutRow}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed from the current status"
// @Router /admin/payouts/{id}/status [patch]
func (c *AdminController) SetPayoutStatus(ctx *gin.Context) {
	statusAction(c, "payout_status", c.moderation.SetPayoutStatus)(ctx)
}

// SetRefundStatus godoc
// @Summary Advance a refund
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Refund ID"
// @Param request body dto.UpdateStatusRequest true "approved, processed or rejected"
// @Success 200 {object} dto.APIResponse{data=dto.RefundRow}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed from the current status"
// @Router /admin/refunds/{id}/status [patch]
func (c *AdminController) SetRefundStatus(ctx *gin.Context) {
	statusAction(c, "refund_status", c.moderation.SetRefundStatus)(ctx)
}

// ApproveSubmission godoc
// @Summary Approve an institution submission
// @Description Marks the submission approved, verifies the institution profile and approves the owning account.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionDecisionResponse}
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Decision failed or was partially applied"
// @Router /admin/submissions/{id}/approve [post]
func (c *AdminController) ApproveSubmission(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	reviewerID, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.approvals.Approve(ctx.Request.Context(), id, reviewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// RejectSubmission godoc
// @Summary Reject an institution submission
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.RejectSubmissionRequest false "Reviewer notes"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionDecisionResponse}
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /admin/submissions/{id}/reject [post]
func (c *AdminController) RejectSubmission(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	reviewerID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.RejectSubmissionRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.approvals.Reject(ctx.Request.Context(), id, reviewerID, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// CreateFee godoc
// @Summary Create a platform fee
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FeeRequest true "Fee rule"
// @Success 201 {object} dto.APIResponse{data=dto.FeeRow}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Fee name already exists"
// @Router /admin/fees [post]
func (c *AdminController) CreateFee(ctx *gin.Context) {
	var req dto.FeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	row, err := c.fees.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: row})
}

// UpdateFee godoc
// @Summary Replace a platform fee
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Param request body dto.FeeRequest true "Fee rule"
// @Success 200 {object} dto.APIResponse{data=dto.FeeRow}
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /admin/fees/{id} [put]
func (c *AdminController) UpdateFee(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.FeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	row, err := c.fees.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: row})
}

// SetFeeActive godoc
// @Summary Switch a fee on or off
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Param request body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse{data=dto.FeeRow}
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /admin/fees/{id}/active [patch]
func (c *AdminController) SetFeeActive(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	row, err := c.fees.SetActive(ctx.Request.Context(), id, *req.Active)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: row})
}
