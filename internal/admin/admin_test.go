package admin

import (
	"errors"
	"testing"
)

func TestHashAndVerifyAdminToken(t *testing.T) {
	hash, err := HashAdminToken("s3cret")
	if err != nil {
		t.Fatalf("HashAdminToken: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("token stored in plain text")
	}
	if !VerifyAdminToken(hash, "s3cret") {
		t.Error("correct token rejected")
	}
	if VerifyAdminToken(hash, "guess") {
		t.Error("wrong token accepted")
	}
}

func TestIPAllowed(t *testing.T) {
	cases := []struct {
		allowed []string
		ip      string
		want    bool
	}{
		{nil, "10.0.0.1", true},
		{[]string{"10.0.0.1"}, "10.0.0.1", true},
		{[]string{"10.0.0.1"}, "10.0.0.2", false},
		{[]string{"192.168.1.0/24"}, "192.168.1.77", true},
		{[]string{"192.168.1.0/24"}, "192.168.2.1", false},
		{[]string{"192.168.1.0/24"}, "not-an-ip", false},
	}
	for _, c := range cases {
		if got := IPAllowed(c.allowed, c.ip); got != c.want {
			t.Errorf("IPAllowed(%v, %q) = %v, want %v", c.allowed, c.ip, got, c.want)
		}
	}
}

func TestValidateWithoutDatabase(t *testing.T) {
	if _, err := ValidateAdminPhoneAndToken(nil, "256700000000", "x"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("got %v, want ErrAccountNotFound", err)
	}
	if err := LogAdminAction(nil, "p", "ip", "/r", "a", nil, true); err != nil {
		t.Errorf("LogAdminAction without db: %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"256700000000", "256700000000", false},
		{"+256772123456", "256772123456", false},
		{"0772123456", "256772123456", false},
		{"772123456", "256772123456", false},
		{" 0752123456 ", "256752123456", false},
		{"0612123456", "", true},
		{"07721234", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizePhone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthenticateRejectsBadPhone(t *testing.T) {
	s := NewService(nil)
	if _, err := s.Authenticate("not-a-phone", "x", "127.0.0.1"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("got %v, want ErrAccountNotFound", err)
	}
	if _, err := s.Authenticate("0700000000", "x", "127.0.0.1"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("got %v, want ErrAccountNotFound", err)
	}
}
