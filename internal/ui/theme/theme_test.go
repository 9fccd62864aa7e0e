package theme_test

import (
	"strings"
	"testing"

	"agencycheck/internal/ui/theme"
)

func TestBarClampsAndFills(t *testing.T) {
	t.Parallel()
	if got := strings.Count(theme.Bar(50, 10), "█"); got != 5 {
		t.Fatalf("expected 5 filled cells, got %d", got)
	}
	if got := strings.Count(theme.Bar(250, 4), "█"); got != 4 {
		t.Fatalf("expected clamp to full bar, got %d", got)
	}
	if got := strings.Count(theme.Bar(-3, 4), "░"); got != 4 {
		t.Fatalf("expected clamp to empty bar, got %d", got)
	}
	if theme.Bar(10, 0) != "" {
		t.Fatalf("expected empty bar for zero width")
	}
}
