package components_test

import (
	"testing"

	"agencycheck/internal/ui/components"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input string
		name  string
		args  int
		ok    bool
	}{
		{input: "subject lena", name: "subject", args: 1, ok: true},
		{input: "Window last30days", name: "window", args: 1, ok: true},
		{input: "custom 2024-08-01 2025-07-31", name: "custom", args: 2, ok: true},
		{input: "custom 2024-08-01", name: "custom", args: 1},
		{input: "export xlsx", name: "export", args: 1, ok: true},
		{input: "export csv /tmp/out.csv", name: "export", args: 2, ok: true},
		{input: "export", name: "export"},
		{input: "formats", name: "formats", ok: true},
		{input: "launch rockets", name: "launch", args: 1},
	}
	for _, tc := range cases {
		cmd, msg, ok := components.ParseCommand(tc.input)
		if ok != tc.ok {
			t.Fatalf("%q: ok=%v msg=%q", tc.input, ok, msg)
		}
		if cmd.Name != tc.name || len(cmd.Args) != tc.args {
			t.Fatalf("%q: unexpected command %+v", tc.input, cmd)
		}
		if !ok && msg == "" {
			t.Fatalf("%q: expected a usage message", tc.input)
		}
	}
	if _, _, ok := components.ParseCommand("   "); ok {
		t.Fatalf("expected blank input to be rejected")
	}
}
