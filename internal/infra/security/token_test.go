package security

import (
	"testing"
	"time"
)

func TestJWTIssueAndVerify(t *testing.T) {
	mgr := JWTManager{Secret: "test-secret", TTL: time.Hour}

	token, exp, err := mgr.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if remaining := time.Until(exp); remaining < 55*time.Minute || remaining > time.Hour {
		t.Errorf("expiry %v not within the configured TTL", remaining)
	}

	sub, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-42" {
		t.Errorf("Verify subject = %q, want %q", sub, "user-42")
	}
}

func TestJWTVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := JWTManager{Secret: "secret-a"}.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := (JWTManager{Secret: "secret-b"}).Verify(token); err != ErrTokenInvalid {
		t.Errorf("Verify with wrong secret err = %v, want ErrTokenInvalid", err)
	}
}

func TestJWTVerifyRejectsExpired(t *testing.T) {
	mgr := JWTManager{Secret: "test-secret", TTL: -time.Minute}
	token, _, err := mgr.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := mgr.Verify(token); err != ErrTokenExpired {
		t.Errorf("Verify of expired token err = %v, want ErrTokenExpired", err)
	}
}

func TestJWTVerifyRejectsGarbage(t *testing.T) {
	mgr := JWTManager{Secret: "test-secret"}
	if _, err := mgr.Verify("not.a.token"); err != ErrTokenInvalid {
		t.Errorf("Verify of garbage err = %v, want ErrTokenInvalid", err)
	}
}
