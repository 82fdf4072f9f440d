// Package analytics derives dashboard statistics from rows that are already loaded.
// Every function here is pure and safe on empty input.
package analytics

import (
	"math"

	"github.com/yigit/tutorhub/internal/app/models"
)

// Rate returns num/den, or 0 when den is 0
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percent returns num/den as a percentage rounded to two decimals, or 0 when den is 0
func Percent(num, den float64) float64 {
	return round2(Rate(num, den) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TotalRevenue sums completed payments. Refunds, payouts and fees are excluded.
func TotalRevenue(txs []models.Transaction) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Type == models.TransactionPayment && tx.Status == models.TransactionCompleted {
			total += tx.Amount
		}
	}
	return round2(total)
}

// AdminInput is the set of collections the admin dashboard has loaded
type AdminInput struct {
	Users        []models.User
	Profiles     []models.TutorProfile
	Reviews      []models.Review
	Content      []models.Content
	Transactions []models.Transaction
	Payouts      []models.Payout
	Refunds      []models.Refund
	Fees         []models.Fee
	Submissions  []models.InstitutionSubmissionDetail
}

// AdminStats are the headline numbers of the admin dashboard
type AdminStats struct {
	TotalUsers             int     `json:"totalUsers"`
	Students               int     `json:"students"`
	Tutors                 int     `json:"tutors"`
	Institutions           int     `json:"institutions"`
	Admins                 int     `json:"admins"`
	PendingVerifications   int     `json:"pendingVerifications"`
	VerifiedTutors         int     `json:"verifiedTutors"`
	PendingReviews         int     `json:"pendingReviews"`
	FlaggedReviews         int     `json:"flaggedReviews"`
	AverageRating          float64 `json:"averageRating"`
	PendingContent         int     `json:"pendingContent"`
	TotalRevenue           float64 `json:"totalRevenue"`
	TransactionSuccessRate float64 `json:"transactionSuccessRate"`
	PendingPayoutAmount    float64 `json:"pendingPayoutAmount"`
	PendingRefunds         int     `json:"pendingRefunds"`
	RefundRate             float64 `json:"refundRate"`
	ActiveFees             int     `json:"activeFees"`
	PendingSubmissions     int     `json:"pendingSubmissions"`
}

// ComputeAdminStats reduces the loaded admin collections into AdminStats
func ComputeAdminStats(in AdminInput) AdminStats {
	stats := AdminStats{TotalUsers: len(in.Users)}

	for _, u := range in.Users {
		switch u.Role {
		case models.RoleStudent:
			stats.Students++
			continue // students never wait for verification
		case models.RoleTutor:
			stats.Tutors++
		case models.RoleInstitution:
			stats.Institutions++
		case models.RoleAdmin:
			stats.Admins++
		}
		if u.VerificationStatus == models.VerificationPending {
			stats.PendingVerifications++
		}
	}

	for _, p := range in.Profiles {
		if p.Verified {
			stats.VerifiedTutors++
		}
	}

	var ratingSum float64
	var rated int
	for _, r := range in.Reviews {
		switch r.Status {
		case models.ReviewPending:
			stats.PendingReviews++
		case models.ReviewFlagged:
			stats.FlaggedReviews++
		case models.ReviewApproved:
			ratingSum += float64(r.Rating)
			rated++
		}
	}
	stats.AverageRating = round2(Rate(ratingSum, float64(rated)))

	for _, c := range in.Content {
		if c.Status == models.ContentPending {
			stats.PendingContent++
		}
	}

	stats.TotalRevenue = TotalRevenue(in.Transactions)

	var settled, succeeded int
	for _, tx := range in.Transactions {
		if tx.Status == models.TransactionPending {
			continue
		}
		settled++
		if tx.Status == models.TransactionCompleted {
			succeeded++
		}
	}
	stats.TransactionSuccessRate = Percent(float64(succeeded), float64(settled))

	var pendingPayout float64
	for _, p := range in.Payouts {
		if p.Status == models.PayoutPending || p.Status == models.PayoutProcessing {
			pendingPayout += p.Amount
		}
	}
	stats.PendingPayoutAmount = round2(pendingPayout)

	var refunded float64
	for _, r := range in.Refunds {
		switch r.Status {
		case models.RefundPending:
			stats.PendingRefunds++
		case models.RefundProcessed:
			refunded += r.Amount
		}
	}
	stats.RefundRate = Percent(refunded, stats.TotalRevenue)

	for _, f := range in.Fees {
		if f.IsActive {
			stats.ActiveFees++
		}
	}

	for _, s := range in.Submissions {
		if s.Status == models.SubmissionPending {
			stats.PendingSubmissions++
		}
	}

	return stats
}
