package auth

import (
	"testing"
	"time"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")

	token, err := issuer.IssueProgressToken("alice", time.Minute)
	if err != nil {
		t.Fatalf("IssueProgressToken failed: %v", err)
	}

	claims, err := issuer.ValidateProgressToken(token)
	if err != nil {
		t.Fatalf("ValidateProgressToken failed: %v", err)
	}
	if claims.UserName != "alice" {
		t.Errorf("UserName = %q, want alice", claims.UserName)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", claims.Subject)
	}
	if claims.Issuer != "pibridge" {
		t.Errorf("Issuer = %q, want pibridge", claims.Issuer)
	}
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")

	token, err := issuer.IssueProgressToken("alice", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := issuer.ValidateProgressToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTIssuer("secret-a").IssueProgressToken("alice", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTIssuer("secret-b").ValidateProgressToken(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestJWTIssuer_RejectsGarbage(t *testing.T) {
	if _, err := NewJWTIssuer("secret").ValidateProgressToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
