package model

import "time"

// Passenger represents a student rider as stored in the `passengers` table.
// A passenger is created on first successful federated login; profile
// completion later fills in room/phone.
//
// Fields:
//
//	ID           – passengers.id
//	Email        – passengers.email (unique, domain-restricted)
//	DisplayName  – passengers.display_name
//	Room         – passengers.room (nullable)
//	Phone        – passengers.phone (nullable)
//	ProfileDone  – passengers.profile_complete
//	PenaltyCount – passengers.penalty_count
//	BlockedUntil – passengers.blocked_until (nullable)
//	CreatedAt    – passengers.created_at
type Passenger struct {
	ID           uint64
	Email        string
	DisplayName  string
	Room         *string
	Phone        *string
	ProfileDone  bool
	PenaltyCount int
	BlockedUntil *time.Time
	CreatedAt    time.Time
}

// Blocked reports whether the passenger is currently serving a penalty
// block, per spec: penaltyCount >= 3 AND blockedUntil > now.
func (p Passenger) Blocked(now time.Time) bool {
	return p.PenaltyCount >= 3 && p.BlockedUntil != nil && p.BlockedUntil.After(now)
}
