package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campusbus/reservation-core/internal/model"
)

// OperatorRepo persists operator accounts in the `operators` table.
type OperatorRepo struct{ db *sql.DB }

// NewOperatorRepo returns a new OperatorRepo bound to the given database.
func NewOperatorRepo(db *sql.DB) *OperatorRepo { return &OperatorRepo{db: db} }

const operatorCols = `id, employee_id, display_name, password_hash, phone, status, last_login_at, created_at`

func scanOperator(row interface{ Scan(...any) error }) (model.Operator, error) {
	var o model.Operator
	var phone sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&o.ID, &o.EmployeeID, &o.DisplayName, &o.PasswordHash, &phone, &o.Status, &lastLogin, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	if phone.Valid {
		o.Phone = &phone.String
	}
	if lastLogin.Valid {
		o.LastLoginAt = &lastLogin.Time
	}
	return o, nil
}

// GetByEmployeeID looks up an operator by their unique employee ID.
func (r *OperatorRepo) GetByEmployeeID(ctx context.Context, employeeID string) (model.Operator, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+operatorCols+` FROM operators WHERE employee_id = ? LIMIT 1`, employeeID)
	o, err := scanOperator(row)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

// GetByID looks up an operator by primary key.
func (r *OperatorRepo) GetByID(ctx context.Context, id uint64) (model.Operator, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+operatorCols+` FROM operators WHERE id = ? LIMIT 1`, id)
	o, err := scanOperator(row)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

// TouchLastLogin records the current time as the operator's last login.
func (r *OperatorRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE operators SET last_login_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}
