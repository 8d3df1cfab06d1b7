package http

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestRequestBodyParser_JSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/transactions",
		strings.NewReader(`{"category":"Food","amount":12.5,"note":" lunch "}`))
	r.Header.Set("Content-Type", "application/json")

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !p.IsJSON() {
		t.Error("IsJSON() = false, want true")
	}
	if got := p.Get("category"); got != "Food" {
		t.Errorf("Get(category) = %q, want Food", got)
	}
	if got := p.Get("amount"); got != "12.5" {
		t.Errorf("Get(amount) = %q, want 12.5", got)
	}
	if got := p.Get("note"); got != "lunch" {
		t.Errorf("Get(note) = %q, want trimmed lunch", got)
	}
	if p.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/transactions",
		strings.NewReader("category=Food&amount=10"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.IsJSON() {
		t.Error("IsJSON() = true, want false")
	}
	if got := p.Get("category"); got != "Food" {
		t.Errorf("Get(category) = %q, want Food", got)
	}
	if !p.Has("amount") {
		t.Error("Has(amount) = false, want true")
	}
}

func TestRequestBodyParser_InvalidJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(`{"broken`))

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Fatal("Parse() error = nil, want parse failure")
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/logout", strings.NewReader(""))

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := p.Get("anything"); got != "" {
		t.Errorf("Get on empty body = %q, want empty", got)
	}
}

func TestParseMonthParams(t *testing.T) {
	ref := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
	}{
		{"defaults", "", 2025, 6},
		{"explicit", "year=2024&month=2", 2024, 2},
		{"month out of range", "month=13", 2025, 6},
		{"negative year", "year=-5", 2025, 6},
		{"year before epoch", "year=1969", 2025, 6},
		{"absurd year", "year=123456", 2025, 6},
		{"year bounds inclusive", "year=1970&month=1", 1970, 1},
		{"garbage ignored", "year=abc&month=xyz", 2025, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tc.query)
			got := ParseMonthParams(q, ref)
			if got.Year != tc.wantYear || got.Month != tc.wantMonth {
				t.Errorf("ParseMonthParams(%q) = %+v, want %d-%d", tc.query, got, tc.wantYear, tc.wantMonth)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"with\x00control\x01chars", "withcontrolchars"},
		{"tabs\tand\nnewlines kept", "tabs\tand\nnewlines kept"},
	}
	for _, tc := range cases {
		if got := sanitizeInput(tc.in); got != tc.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
