package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.50", 12.5},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-5", -5},
	}
	for _, tt := range tests {
		if got := parseAmount(tt.in); got != tt.want {
			t.Fatalf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheckKeysErrorsByInputName(t *testing.T) {
	s := &Server{validate: newFormValidator()}

	errs := s.check(registerForm{Email: "bad", Password: "123"})
	for _, field := range []string{"firstName", "lastName", "email", "phoneNumber", "password"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing error for %s: %v", field, errs)
		}
	}
	if errs["password"] != "Password must be at least 6 characters" {
		t.Fatalf("password message = %q", errs["password"])
	}

	if errs := s.check(forgotPasswordForm{Email: "ada@example.com"}); errs != nil {
		t.Fatalf("valid form reported errors: %v", errs)
	}
}

func TestReadTransferFormTrims(t *testing.T) {
	form := url.Values{
		"accountNumber":            {" 1000000001 "},
		"destinationAccountNumber": {"2000000000"},
		"amount":                   {" 7.25"},
	}
	req := httptest.NewRequest(http.MethodPost, "/transfer", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got := readTransferForm(req)
	if got.AccountNumber != "1000000001" || got.Amount != 7.25 || got.AmountText != "7.25" {
		t.Fatalf("unexpected form: %+v", got)
	}
}

func TestFormatDate(t *testing.T) {
	tests := map[string]string{
		"2025-03-04T10:11:12":        "Mar 4, 2025",
		"2025-03-04T10:11:12.123456": "Mar 4, 2025",
		"2025-03-04T10:11:12Z":       "Mar 4, 2025",
		"2025-03-04":                 "Mar 4, 2025",
		"yesterday":                  "yesterday",
	}
	for in, want := range tests {
		if got := formatDate(in); got != want {
			t.Fatalf("formatDate(%q) = %q, want %q", in, got, want)
		}
	}
}
