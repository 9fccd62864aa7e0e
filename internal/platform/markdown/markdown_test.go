package markdown_test

import (
	"strings"
	"testing"

	"agencycheck/internal/platform/markdown"
)

func TestFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderFrontmatter(map[string]any{"id": "e-1", "hours": 1.5}, "## Note\n\nbody\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	meta, body, err := markdown.SplitFrontmatter(rendered)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["id"] != "e-1" || meta["hours"] != 1.5 {
		t.Fatalf("unexpected meta: %v", meta)
	}
	if !strings.Contains(body, "body") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSplitFrontmatterHandlesCRLFAndMissingHeader(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.SplitFrontmatter("---\r\nid: x\r\n---\r\ntext\r\n")
	if err != nil {
		t.Fatalf("split crlf: %v", err)
	}
	if meta["id"] != "x" || body != "text\n" {
		t.Fatalf("unexpected split: %v %q", meta, body)
	}
	meta, body, err = markdown.SplitFrontmatter("plain")
	if err != nil || len(meta) != 0 || body != "plain" {
		t.Fatalf("unexpected plain split: %v %q %v", meta, body, err)
	}
	if _, _, err := markdown.SplitFrontmatter("---\nid: x\n"); err == nil {
		t.Fatalf("expected missing separator error")
	}
}

func TestManagedBlockLifecycle(t *testing.T) {
	t.Parallel()
	const start, end = "<!-- s -->", "<!-- e -->"
	body := markdown.ReplaceManagedBlock("intro\n", start, end, "first")
	if got, ok := markdown.ExtractManagedBlock(body, start, end); !ok || got != "first" {
		t.Fatalf("unexpected block: %q %v", got, ok)
	}
	body = markdown.ReplaceManagedBlock(body, start, end, "second")
	if strings.Count(body, start) != 1 {
		t.Fatalf("expected single block: %q", body)
	}
	if got, _ := markdown.ExtractManagedBlock(body, start, end); got != "second" {
		t.Fatalf("expected replaced block, got %q", got)
	}
	if stripped := markdown.StripManagedBlock(body, start, end); strings.Contains(stripped, "second") || !strings.Contains(stripped, "intro") {
		t.Fatalf("unexpected stripped body: %q", stripped)
	}
	if _, ok := markdown.ExtractManagedBlock("nothing", start, end); ok {
		t.Fatalf("expected no block")
	}
}
