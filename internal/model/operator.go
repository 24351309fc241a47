package model

import "time"

// OperatorStatus enumerates the lifecycle of an operator account.
type OperatorStatus string

const (
	OperatorActive    OperatorStatus = "ACTIVE"
	OperatorInactive  OperatorStatus = "INACTIVE"
	OperatorSuspended OperatorStatus = "SUSPENDED"
)

// Operator represents a bus driver/conductor account as stored in the
// `operators` table. Created administratively; passengers never self-register
// one.
//
// Fields:
//
//	ID           – operators.id
//	EmployeeID   – operators.employee_id (unique)
//	DisplayName  – operators.display_name
//	PasswordHash – operators.password_hash (bcrypt)
//	Phone        – operators.phone (nullable)
//	Status       – operators.status
//	LastLoginAt  – operators.last_login_at (nullable)
//	CreatedAt    – operators.created_at
type Operator struct {
	ID           uint64
	EmployeeID   string
	DisplayName  string
	PasswordHash string
	Phone        *string
	Status       OperatorStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}
