package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestIssueAndParseControlToken(t *testing.T) {
	token, exp, err := IssueControlToken("secret", "match_abc", time.Hour)
	if err != nil {
		t.Fatalf("IssueControlToken: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Errorf("expiry %v too soon", exp)
	}

	id, err := ParseControlToken("secret", token)
	if err != nil || id != "match_abc" {
		t.Errorf("ParseControlToken = (%q, %v)", id, err)
	}
	if err := VerifyControlToken("secret", token, "match_abc"); err != nil {
		t.Errorf("VerifyControlToken: %v", err)
	}
}

func TestControlTokenRejections(t *testing.T) {
	token, _, _ := IssueControlToken("secret", "match_abc", time.Hour)

	if _, err := ParseControlToken("other-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: got %v", err)
	}
	if err := VerifyControlToken("secret", token, "match_xyz"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong match: got %v", err)
	}
	if _, err := ParseControlToken("secret", "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: got %v", err)
	}

	expired, _, _ := IssueControlToken("secret", "match_abc", -time.Minute)
	if _, err := ParseControlToken("secret", expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: got %v", err)
	}
}

func TestControlTokenRequiresControlRole(t *testing.T) {
	claims := jwt.MapClaims{"match_id": "match_abc", "exp": time.Now().Add(time.Hour).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseControlToken("secret", signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token without role: got %v", err)
	}
}

func TestIssueControlTokenNeedsSecret(t *testing.T) {
	if _, _, err := IssueControlToken("", "m", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
