package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/analytics"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Resource names reported in failedResources and unavailableResources
const (
	ResourceUsers        = "users"
	ResourceProfiles     = "profiles"
	ResourceReviews      = "reviews"
	ResourceContent      = "content"
	ResourceTransactions = "transactions"
	ResourcePayouts      = "payouts"
	ResourceRefunds      = "refunds"
	ResourceFees         = "fees"
	ResourceSubmissions  = "institution_submissions"
)

// AdminDashboardStore loads the nine admin collections
type AdminDashboardStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListProfiles(ctx context.Context) ([]models.TutorProfile, error)
	ListReviews(ctx context.Context) ([]models.Review, error)
	ListContent(ctx context.Context) ([]models.Content, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListPayouts(ctx context.Context) ([]models.Payout, error)
	ListRefunds(ctx context.Context) ([]models.Refund, error)
	ListFees(ctx context.Context) ([]models.Fee, error)
	ListSubmissionDetails(ctx context.Context) ([]models.InstitutionSubmissionDetail, error)
}

// AdminDashboardService assembles the admin back office payload
type AdminDashboardService struct {
	store  AdminDashboardStore
	group  singleflight.Group
	logger zerolog.Logger
}

// NewAdminDashboardService creates a new AdminDashboardService
func NewAdminDashboardService(store AdminDashboardStore, logger zerolog.Logger) *AdminDashboardService {
	return &AdminDashboardService{store: store, logger: logger}
}

// loadOutcome collects which loaders failed while they run concurrently
type loadOutcome struct {
	mu          sync.Mutex
	attempted   int
	failed      []string
	unavailable []string
}

func (o *loadOutcome) record(resource string, err error, logger zerolog.Logger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempted++
	if err == nil {
		return
	}
	if errors.Is(err, apperrors.ErrResourceUnavailable) {
		logger.Debug().Str("resource", resource).Msg("Optional table is not available")
		o.unavailable = append(o.unavailable, resource)
		return
	}
	logger.Error().Err(err).Str("resource", resource).Msg("Failed to load dashboard resource")
	o.failed = append(o.failed, resource)
}

// load runs fn and stores its result in dst. A failure leaves dst empty and is
// recorded rather than returned, so one loader never cancels the others.
func load[T any](ctx context.Context, g *errgroup.Group, out *loadOutcome, logger zerolog.Logger, resource string, dst *[]T, fn func(context.Context) ([]T, error)) {
	g.Go(func() error {
		items, err := fn(ctx)
		out.record(resource, err, logger)
		if err != nil || items == nil {
			items = []T{}
		}
		*dst = items
		return nil
	})
}

// Dashboard loads every admin collection concurrently. Concurrent callers share
// one load. It fails only when every loader that could run has failed.
func (s *AdminDashboardService) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	v, err, shared := s.group.Do("admin-dashboard", func() (interface{}, error) {
		return s.loadDashboard(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug().Msg("Admin dashboard load was shared with a concurrent request")
	}
	return v.(*dto.AdminDashboardResponse), nil
}

func (s *AdminDashboardService) loadDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	var (
		in  analytics.AdminInput
		out loadOutcome
		g   errgroup.Group
	)

	load(ctx, &g, &out, s.logger, ResourceUsers, &in.Users, s.store.ListUsers)
	load(ctx, &g, &out, s.logger, ResourceProfiles, &in.Profiles, s.store.ListProfiles)
	load(ctx, &g, &out, s.logger, ResourceReviews, &in.Reviews, s.store.ListReviews)
	load(ctx, &g, &out, s.logger, ResourceContent, &in.Content, s.store.ListContent)
	load(ctx, &g, &out, s.logger, ResourceTransactions, &in.Transactions, s.store.ListTransactions)
	load(ctx, &g, &out, s.logger, ResourcePayouts, &in.Payouts, s.store.ListPayouts)
	load(ctx, &g, &out, s.logger, ResourceRefunds, &in.Refunds, s.store.ListRefunds)
	load(ctx, &g, &out, s.logger, ResourceFees, &in.Fees, s.store.ListFees)
	load(ctx, &g, &out, s.logger, ResourceSubmissions, &in.Submissions, s.store.ListSubmissionDetails)
	_ = g.Wait()

	if len(out.failed) > 0 && len(out.failed) == out.attempted-len(out.unavailable) {
		s.logger.Error().Strs("failedResources", out.failed).Msg("Every admin dashboard loader failed")
		return nil, apperrors.ErrDashboardUnavailable
	}

	sort.Strings(out.failed)
	sort.Strings(out.unavailable)
	failed := append([]string{}, out.failed...)
	unavailable := append([]string{}, out.unavailable...)

	return &dto.AdminDashboardResponse{
		Stats:                analytics.ComputeAdminStats(in),
		Users:                views.Users(in.Users),
		Profiles:             views.Profiles(in.Profiles),
		Reviews:              views.Reviews(in.Reviews),
		Content:              views.Content(in.Content),
		Transactions:         views.Transactions(in.Transactions),
		Payouts:              views.Payouts(in.Payouts),
		Refunds:              views.Refunds(in.Refunds),
		Fees:                 views.Fees(in.Fees),
		Submissions:          in.Submissions,
		FailedResources:      failed,
		UnavailableResources: unavailable,
	}, nil
}
