package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-signing-secret"

func testTokenService() *TokenService {
	return NewTokenService(testSecret, 15*time.Minute, 30*24*time.Hour)
}

func testUser() *User {
	return &User{ID: "usr-12345678", Username: "alice", IsAdmin: false}
}

func TestIssueAccess_VerifyRoundTrip(t *testing.T) {
	svc := testTokenService()
	user := testUser()

	token, err := svc.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := svc.Verify(token, TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != user.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Kind != TokenKindAccess {
		t.Errorf("Kind = %q, want access", claims.Kind)
	}
}

func TestIssueRefresh_VerifyRoundTrip(t *testing.T) {
	svc := testTokenService()

	token, err := svc.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	claims, err := svc.Verify(token, TokenKindRefresh)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Kind != TokenKindRefresh {
		t.Errorf("Kind = %q, want refresh", claims.Kind)
	}
}

func TestVerify_Expired(t *testing.T) {
	// Negative TTL puts the expiry in the past at issue time.
	svc := NewTokenService(testSecret, 15*time.Minute, 30*24*time.Hour)
	svc.accessTTL = -time.Minute

	token, err := svc.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	_, err = svc.Verify(token, TokenKindAccess)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongKind(t *testing.T) {
	svc := testTokenService()

	refresh, err := svc.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	// Presenting a refresh token where an access token is required
	_, err = svc.Verify(refresh, TokenKindAccess)
	if !errors.Is(err, ErrWrongTokenKind) {
		t.Errorf("error = %v, want ErrWrongTokenKind", err)
	}

	access, err := svc.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	_, err = svc.Verify(access, TokenKindRefresh)
	if !errors.Is(err, ErrWrongTokenKind) {
		t.Errorf("error = %v, want ErrWrongTokenKind", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	svc := testTokenService()

	token, err := svc.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered, TokenKindAccess)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := testTokenService()
	other := NewTokenService("different-secret", 15*time.Minute, 30*24*time.Hour)

	token, err := svc.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	_, err = other.Verify(token, TokenKindAccess)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	svc := testTokenService()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(token, TokenKindAccess)
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestRefresh(t *testing.T) {
	svc := testTokenService()
	user := &User{ID: "usr-admin", IsAdmin: true}

	refresh, err := svc.IssueRefresh(user)
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	access, err := svc.Refresh(refresh)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	claims, err := svc.Verify(access, TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if !claims.IsAdmin {
		t.Error("admin flag should carry through refresh")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc := testTokenService()

	access, err := svc.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	_, err = svc.Refresh(access)
	if !errors.Is(err, ErrWrongTokenKind) {
		t.Errorf("error = %v, want ErrWrongTokenKind", err)
	}
}

func TestToken_DoesNotLeakSecret(t *testing.T) {
	svc := testTokenService()

	token, err := svc.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if strings.Contains(token, testSecret) {
		t.Error("token must not contain the signing secret")
	}
}
