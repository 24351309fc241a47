package token

import (
	"errors"
	"testing"
	"time"
)

func testSecrets() Secrets {
	return Secrets{Passenger: "passenger-secret", Operator: "operator-secret", Boarding: "boarding-secret"}
}

func TestIssueAndVerifyPassengerSession(t *testing.T) {
	svc := NewService(testSecrets())
	signed, err := svc.IssuePassengerSession(42, "alice@university.edu")
	if err != nil {
		t.Fatalf("IssuePassengerSession: %v", err)
	}
	claims, err := svc.Verify(signed.Token, KindPassengerSession)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("Subject = %q, want 42", claims.Subject)
	}
	if claims.Extra["email"] != "alice@university.edu" {
		t.Fatalf("email claim = %v", claims.Extra["email"])
	}
}

func TestIssueAndVerifyOperatorSession(t *testing.T) {
	svc := NewService(testSecrets())
	signed, err := svc.IssueOperatorSession(7, "EMP-007")
	if err != nil {
		t.Fatalf("IssueOperatorSession: %v", err)
	}
	claims, err := svc.Verify(signed.Token, KindOperatorSession)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Extra["role"] != "OPERATOR" {
		t.Fatalf("role claim = %v", claims.Extra["role"])
	}
	if claims.Extra["employeeId"] != "EMP-007" {
		t.Fatalf("employeeId claim = %v", claims.Extra["employeeId"])
	}
}

func TestIssueAndVerifyBoardingToken(t *testing.T) {
	svc := NewService(testSecrets())
	departure := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	signed, err := svc.IssueBoardingToken(101, 5, 42, departure)
	if err != nil {
		t.Fatalf("IssueBoardingToken: %v", err)
	}
	wantExp := departure.Add(24 * time.Hour)
	if !signed.Exp.Equal(wantExp) {
		t.Fatalf("Exp = %v, want %v", signed.Exp, wantExp)
	}
	claims, err := svc.Verify(signed.Token, KindBoarding)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "101" {
		t.Fatalf("Subject = %q, want 101", claims.Subject)
	}
	if int(claims.Extra["tripId"].(float64)) != 5 {
		t.Fatalf("tripId claim = %v", claims.Extra["tripId"])
	}
}

func TestVerifyWrongKind(t *testing.T) {
	svc := NewService(testSecrets())
	signed, err := svc.IssuePassengerSession(1, "a@b.edu")
	if err != nil {
		t.Fatalf("IssuePassengerSession: %v", err)
	}
	if _, err := svc.Verify(signed.Token, KindOperatorSession); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("Verify wrong kind = %v, want ErrWrongKind", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService(testSecrets())
	past := time.Now().UTC().Add(-time.Hour)
	signed, err := svc.sign(KindBoarding, "9", past, nil)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(signed.Token, KindBoarding); !errors.Is(err, ErrExpired) {
		t.Fatalf("Verify expired = %v, want ErrExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService(testSecrets())
	signed, err := issuer.IssuePassengerSession(1, "a@b.edu")
	if err != nil {
		t.Fatalf("IssuePassengerSession: %v", err)
	}
	other := NewService(Secrets{Passenger: "different-secret", Operator: "operator-secret", Boarding: "boarding-secret"})
	if _, err := other.Verify(signed.Token, KindPassengerSession); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify with wrong secret = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewService(testSecrets())
	if _, err := svc.Verify("not-a-jwt", KindPassengerSession); err == nil {
		t.Fatal("Verify malformed token: want error, got nil")
	}
}
