// Package token implements TOK, the signed-token service of spec.md §4.1.
// It generalizes the teacher's internal/utils/jwt.go (HS256, jwt.MapClaims,
// explicit sub/exp/iat) with a "kind" discriminant claim so a single
// service can mint and verify passenger-session, operator-session, and
// boarding tokens without three parallel packages. Verification never
// touches IDS: it is a pure function of secret, claims, and clock.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the three token families of spec.md §4.1.
type Kind string

const (
	KindPassengerSession Kind = "passenger"
	KindOperatorSession  Kind = "operator"
	KindBoarding         Kind = "boarding"
)

// Lifetimes per spec.md §4.1. Boarding tokens instead carry an explicit
// expiresAt (trip.departureTime + 24h) supplied by the caller.
const (
	PassengerSessionTTL = 7 * 24 * time.Hour
	OperatorSessionTTL  = 24 * time.Hour
)

// Failure kinds per spec.md §4.1 — surfaced verbatim to BND.
var (
	ErrInvalidSignature = errors.New("INVALID_SIGNATURE")
	ErrExpired          = errors.New("EXPIRED")
	ErrWrongKind        = errors.New("WRONG_KIND")
	ErrMalformed        = errors.New("MALFORMED")
)

// Secrets holds the per-kind signing secrets; distinct secrets per kind are
// permitted by spec.md §4.1 and are how this implementation isolates a
// boarding-token leak from session-token forgery.
type Secrets struct {
	Passenger string
	Operator  string
	Boarding  string
}

func (s Secrets) forKind(k Kind) string {
	switch k {
	case KindPassengerSession:
		return s.Passenger
	case KindOperatorSession:
		return s.Operator
	case KindBoarding:
		return s.Boarding
	default:
		return ""
	}
}

// Service mints and verifies tokens of all three kinds.
type Service struct {
	secrets Secrets
}

// NewService constructs a Service bound to the given per-kind secrets.
func NewService(secrets Secrets) *Service { return &Service{secrets: secrets} }

// Signed is a minted token together with its expiry, mirroring the
// teacher's AccessToken return shape.
type Signed struct {
	Token string
	Exp   time.Time
}

// IssuePassengerSession mints a 7-day passenger session token carrying the
// verified email claim.
func (s *Service) IssuePassengerSession(passengerID uint64, email string) (Signed, error) {
	exp := time.Now().UTC().Add(PassengerSessionTTL)
	return s.sign(KindPassengerSession, toSub(passengerID), exp, jwt.MapClaims{"email": email})
}

// IssueOperatorSession mints a 24-hour operator session token carrying the
// employeeId and a fixed OPERATOR role claim.
func (s *Service) IssueOperatorSession(operatorID uint64, employeeID string) (Signed, error) {
	exp := time.Now().UTC().Add(OperatorSessionTTL)
	return s.sign(KindOperatorSession, toSub(operatorID), exp, jwt.MapClaims{
		"employeeId": employeeID,
		"role":       "OPERATOR",
	})
}

// IssueBoardingToken mints a boarding token for a booking, valid until
// 24h after the trip's departure time per spec.md §4.1.
func (s *Service) IssueBoardingToken(bookingID, tripID, passengerID uint64, tripDeparture time.Time) (Signed, error) {
	exp := tripDeparture.Add(24 * time.Hour)
	return s.sign(KindBoarding, toSub(bookingID), exp, jwt.MapClaims{
		"tripId":      tripID,
		"passengerId": passengerID,
	})
}

func (s *Service) sign(kind Kind, subject string, exp time.Time, extra jwt.MapClaims) (Signed, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"kind": string(kind),
		"iat":  time.Now().UTC().Unix(),
		"exp":  exp.Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.secrets.forKind(kind)))
	if err != nil {
		return Signed{}, err
	}
	return Signed{Token: signed, Exp: exp}, nil
}

// Claims is the verified, decoded payload of a token.
type Claims struct {
	Kind   Kind
	Subject string
	Extra  jwt.MapClaims
}

// Verify checks signature, expiry, and kind, returning the decoded claims
// on success. The signature is checked with the secret of the token's own
// "kind" claim, so a validly signed token of another kind fails with
// ErrWrongKind rather than ErrInvalidSignature. It never consults IDS.
func (s *Service) Verify(raw string, want Kind) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		mc, _ := t.Claims.(jwt.MapClaims)
		kindRaw, _ := mc["kind"].(string)
		secret := s.secrets.forKind(Kind(kindRaw))
		if secret == "" {
			return nil, ErrInvalidSignature
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Claims{}, ErrMalformed
		}
		return Claims{}, ErrInvalidSignature
	}
	if !tok.Valid {
		return Claims{}, ErrInvalidSignature
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}
	kindRaw, _ := claims["kind"].(string)
	if Kind(kindRaw) != want {
		return Claims{}, ErrWrongKind
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Claims{}, ErrMalformed
	}
	return Claims{Kind: want, Subject: sub, Extra: claims}, nil
}

func toSub(id uint64) string {
	return strconv.FormatUint(id, 10)
}
