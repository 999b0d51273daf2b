package metrics

import (
	"strings"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{
			"/api/games/mines/round/550e8400-e29b-41d4-a716-446655440000/action",
			"/api/games/mines/round/:round_id/action",
		},
		{
			"/api/round/550e8400-e29b-41d4-a716-446655440000",
			"/api/round/:round_id",
		},
		{"/api/games", "/api/games"},
		{"/healthz", "/healthz"},
		{"/api/round/" + strings.Repeat("x", 40), "/api/round/:round_id"},
	}
	for _, c := range cases {
		if got := normalizePath(c.in); got != c.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
