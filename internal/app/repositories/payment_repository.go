package repositories

import (
	"context"

	"github.com/yigit/tutorhub/internal/app/models"
)

// PaymentRepository handles the money tables: transactions, payouts and refunds.
// Payouts and refunds are optional tables.
type PaymentRepository struct {
	db DBTX
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListTransactions returns the ledger with payer names
func (r *PaymentRepository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	q := psql.Select(
		"t.id", "t.user_id", "t.amount", "t.currency", "t.type", "t.status", "t.created_at",
		"u.full_name AS user_name",
	).
		From("transactions t").
		LeftJoin("users u ON u.id = t.user_id").
		OrderBy("t.created_at DESC")
	return selectAll[models.Transaction](ctx, r.db, q)
}

// ListPayouts returns tutor payouts with tutor names
func (r *PaymentRepository) ListPayouts(ctx context.Context) ([]models.Payout, error) {
	if err := requireTable(ctx, r.db, "payouts"); err != nil {
		return nil, err
	}
	q := psql.Select(
		"p.id", "p.tutor_id", "p.amount", "p.currency", "p.status", "p.created_at",
		"u.full_name AS tutor_name",
	).
		From("payouts p").
		LeftJoin("users u ON u.id = p.tutor_id").
		OrderBy("p.created_at DESC")
	return selectAll[models.Payout](ctx, r.db, q)
}

// ListRefunds returns refund requests with requester names
func (r *PaymentRepository) ListRefunds(ctx context.Context) ([]models.Refund, error) {
	if err := requireTable(ctx, r.db, "refunds"); err != nil {
		return nil, err
	}
	q := psql.Select(
		"f.id", "f.transaction_id", "f.user_id", "f.amount", "f.currency", "f.reason", "f.status", "f.created_at",
		"u.full_name AS user_name",
	).
		From("refunds f").
		LeftJoin("users u ON u.id = f.user_id").
		OrderBy("f.created_at DESC")
	return selectAll[models.Refund](ctx, r.db, q)
}

// TransitionTransaction moves a transaction to status if its lifecycle allows it
func (r *PaymentRepository) TransitionTransaction(ctx context.Context, id int64, status models.TransactionStatus, from []models.TransactionStatus) (*models.Transaction, error) {
	return transition[models.Transaction](ctx, r.db, "transactions", id, 0, status, from)
}

// TransitionPayout moves a payout to status if its lifecycle allows it
func (r *PaymentRepository) TransitionPayout(ctx context.Context, id int64, status models.PayoutStatus, from []models.PayoutStatus) (*models.Payout, error) {
	return transition[models.Payout](ctx, r.db, "payouts", id, 0, status, from)
}

// TransitionRefund moves a refund to status if its lifecycle allows it
func (r *PaymentRepository) TransitionRefund(ctx context.Context, id int64, status models.RefundStatus, from []models.RefundStatus) (*models.Refund, error) {
	return transition[models.Refund](ctx, r.db, "refunds", id, 0, status, from)
}
