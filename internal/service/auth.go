package service

import (
	"context"
	"strings"

	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/token"
)

// PassengerAuth implements the passenger side of TOK/IDS: federated login
// and profile completion, per spec.md §4.1/§6. Named distinctly from the
// BV/ALLOC services since it owns passenger identity, not a booking.
type PassengerAuth struct {
	Passengers         *repository.PassengerRepo
	Tokens             *token.Service
	AllowedEmailDomain string
}

// FederatedLoginResult is the outcome of POST /auth/federated.
type FederatedLoginResult struct {
	Passenger       model.Passenger
	Token           token.Signed
	IsNewUser       bool
	ProfileComplete bool
}

// Login implements /auth/federated: the core never authenticates a
// passenger itself, it only trusts the verified email claim the external
// identity provider attached to the request (spec.md §1's adapter
// boundary), creating the passenger record on first sight.
func (a *PassengerAuth) Login(ctx context.Context, email, displayName string) (FederatedLoginResult, error) {
	if !strings.HasSuffix(email, a.AllowedEmailDomain) {
		return FederatedLoginResult{}, ErrDomainNotAllowed
	}

	passenger, err := a.Passengers.GetByEmail(ctx, email)
	isNew := false
	if err == repository.ErrNotFound {
		passenger, err = a.Passengers.Create(ctx, email, displayName)
		isNew = true
	}
	if err != nil {
		return FederatedLoginResult{}, err
	}

	signed, err := a.Tokens.IssuePassengerSession(passenger.ID, passenger.Email)
	if err != nil {
		return FederatedLoginResult{}, err
	}
	return FederatedLoginResult{
		Passenger:       passenger,
		Token:           signed,
		IsNewUser:       isNew,
		ProfileComplete: passenger.ProfileDone,
	}, nil
}

// CompleteProfile implements PUT /auth/complete-profile.
func (a *PassengerAuth) CompleteProfile(ctx context.Context, passengerID uint64, room, phone string) error {
	if _, err := a.Passengers.GetByID(ctx, passengerID); err != nil {
		return mapNotFound(err)
	}
	return a.Passengers.CompleteProfile(ctx, passengerID, room, phone)
}
