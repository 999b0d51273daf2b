package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"casino-server/common/constant"
	"casino-server/internal/config"
	"casino-server/internal/rng"
	"casino-server/internal/state"
)

func TestParseBetAmount(t *testing.T) {
	valid := []struct{ in, want string }{
		{"10.50", "10.5"},
		{" 25 ", "25"},
		{"0.01", "0.01"},
		{"1000000", "1000000"},
	}
	for _, c := range valid {
		amt, err := parseBetAmount(c.in, "t-1")
		if err != nil {
			t.Fatalf("parseBetAmount(%q): %v", c.in, err)
		}
		if amt.String() != c.want {
			t.Fatalf("parseBetAmount(%q) = %s, want %s", c.in, amt.String(), c.want)
		}
	}
	invalid := []string{"", "abc", "0", "-5", "0.001", "1000000.01"}
	for _, in := range invalid {
		if _, err := parseBetAmount(in, "t-1"); err == nil {
			t.Fatalf("parseBetAmount(%q) should fail", in)
		}
	}
}

func TestParseBetAmountThreshold(t *testing.T) {
	config.SetCurrent(&config.Config{Thresholds: map[string]int64{"max_bet_amount": 100}})
	defer config.SetCurrent(&config.Config{})
	if _, err := parseBetAmount("100", "t-1"); err != nil {
		t.Fatalf("amount at configured limit rejected: %v", err)
	}
	if _, err := parseBetAmount("100.01", "t-1"); err == nil {
		t.Fatalf("amount above configured limit accepted")
	}
}

func TestGenerateBillNo(t *testing.T) {
	no, err := generateBillNo(1234567)
	if err != nil {
		t.Fatalf("generateBillNo: %v", err)
	}
	if !strings.HasPrefix(no, "CS") {
		t.Fatalf("bill no %q missing CS prefix", no)
	}
	// CS + 14 digit timestamp + 4 digit user suffix + 3 hex chars
	if len(no) != 23 {
		t.Fatalf("bill no %q has length %d, want 23", no, len(no))
	}
	if no[16:20] != "4567" {
		t.Fatalf("bill no %q user suffix = %q, want 4567", no, no[16:20])
	}
}

func TestCodeToState(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{constant.RoundActive, state.StateActive},
		{constant.RoundSettled, state.StateSettled},
		{constant.RoundVoided, state.StateVoided},
		{0, state.StateActive},
	}
	for _, c := range cases {
		if got := codeToState(int8(c.code)); got != c.want {
			t.Fatalf("codeToState(%d) = %s, want %s", c.code, got, c.want)
		}
	}
}

func TestIsNoRows(t *testing.T) {
	if !isNoRows(sql.ErrNoRows) {
		t.Fatalf("sentinel not recognized")
	}
	if !isNoRows(fmt.Errorf("query user: %w", sql.ErrNoRows)) {
		t.Fatalf("wrapped sentinel not recognized")
	}
	if isNoRows(errors.New("sql: no rows in result set")) {
		t.Fatalf("message lookalike misclassified")
	}
}

func TestIsEntropyErr(t *testing.T) {
	if !isEntropyErr(rng.ErrEntropyUnavailable) {
		t.Fatalf("sentinel not recognized")
	}
	if !isEntropyErr(fmt.Errorf("draw failed: %w", rng.ErrEntropyUnavailable)) {
		t.Fatalf("wrapped sentinel not recognized")
	}
	if isEntropyErr(fmt.Errorf("boom")) {
		t.Fatalf("unrelated error misclassified")
	}
}
