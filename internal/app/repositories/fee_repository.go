package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/tutorhub/internal/app/models"
)

var feeColumns = []string{"id", "name", "type", "value", "currency", "applies_to", "is_active", "created_at"}

// FeeRepository handles platform fee rules. The table is optional.
type FeeRepository struct {
	db DBTX
}

func NewFeeRepository(db DBTX) *FeeRepository {
	return &FeeRepository{db: db}
}

func (r *FeeRepository) List(ctx context.Context) ([]models.Fee, error) {
	if err := requireTable(ctx, r.db, "fees"); err != nil {
		return nil, err
	}
	return selectAll[models.Fee](ctx, r.db, psql.Select(feeColumns...).From("fees").OrderBy("name"))
}

// Create inserts a fee. A duplicate name is ErrResourceAlreadyExists.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) (*models.Fee, error) {
	q := psql.Insert("fees").
		Columns("name", "type", "value", "currency", "applies_to", "is_active").
		Values(fee.Name, string(fee.Type), fee.Value, fee.Currency, fee.AppliesTo, fee.IsActive).
		Suffix("RETURNING " + joinColumns(feeColumns))
	return selectOne[models.Fee](ctx, r.db, q)
}

// EnsureDefault inserts a fee unless one with the same name exists
func (r *FeeRepository) EnsureDefault(ctx context.Context, fee models.Fee) error {
	_, err := exec(ctx, r.db, psql.Insert("fees").
		Columns("name", "type", "value", "currency", "applies_to", "is_active").
		Values(fee.Name, string(fee.Type), fee.Value, fee.Currency, fee.AppliesTo, fee.IsActive).
		Suffix("ON CONFLICT (name) DO NOTHING"))
	if err != nil {
		return fmt.Errorf("error seeding fee %s: %w", fee.Name, err)
	}
	return nil
}

// Update replaces a fee's editable fields
func (r *FeeRepository) Update(ctx context.Context, fee *models.Fee, active *bool) (*models.Fee, error) {
	return updateReturning[models.Fee](ctx, r.db, "fees", fee.ID, 0, feeUpdateColumns(fee, active))
}

func feeUpdateColumns(fee *models.Fee, active *bool) map[string]interface{} {
	set := map[string]interface{}{
		"name":       fee.Name,
		"type":       string(fee.Type),
		"value":      fee.Value,
		"currency":   fee.Currency,
		"applies_to": fee.AppliesTo,
	}
	if active != nil {
		set["is_active"] = *active
	}
	return set
}

// SetActive toggles a fee
func (r *FeeRepository) SetActive(ctx context.Context, id int64, active bool) (*models.Fee, error) {
	return updateReturning[models.Fee](ctx, r.db, "fees", id, 0, map[string]interface{}{"is_active": active})
}
