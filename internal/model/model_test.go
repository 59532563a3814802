package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSessionIsOpenAtBoundaries(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
	s := &Session{StartDate: start, EndDate: end}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"at start", start, true},
		{"inside", start.Add(24 * time.Hour), true},
		{"at end", end, true},
		{"after end", end.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := s.IsOpenAt(tc.at); got != tc.want {
			t.Errorf("%s: IsOpenAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDepositedGameAvailable(t *testing.T) {
	cases := []struct {
		game DepositedGame
		want bool
	}{
		{DepositedGame{}, false},
		{DepositedGame{ForSale: true}, true},
		{DepositedGame{ForSale: true, PickedUp: true}, false},
		{DepositedGame{ForSale: true, Sold: true}, false},
	}
	for i, tc := range cases {
		if got := tc.game.Available(); got != tc.want {
			t.Errorf("case %d: Available = %v, want %v", i, got, tc.want)
		}
	}
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	out, err := json.Marshal(Seller{ID: "s1", AmountOwed: decimal.RequireFromString("18.5")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"amountOwed":18.5`) {
		t.Fatalf("expected numeric amountOwed, got %s", out)
	}
}

func TestManagerHashNotSerialized(t *testing.T) {
	out, _ := json.Marshal(Manager{ID: "m1", PasswordHash: "secret-hash"})
	if strings.Contains(string(out), "secret-hash") {
		t.Fatalf("password hash leaked: %s", out)
	}
}
