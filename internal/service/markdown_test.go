package service

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasics(t *testing.T) {
	got, err := RenderMarkdown("# 标题\n\n正文段落")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}

	if !strings.Contains(got, "<h1") || !strings.Contains(got, "标题") {
		t.Fatalf("expected rendered heading, got %q", got)
	}
	if !strings.Contains(got, "<p>正文段落</p>") {
		t.Fatalf("expected rendered paragraph, got %q", got)
	}
}

func TestRenderMarkdownStripsScript(t *testing.T) {
	got, err := RenderMarkdown("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}

	if strings.Contains(got, "<script") {
		t.Fatalf("script tag survived sanitization: %q", got)
	}
}

func TestRenderMarkdownGFMTable(t *testing.T) {
	got, err := RenderMarkdown("| A | B |\n| - | - |\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}

	if !strings.Contains(got, "<table") {
		t.Fatalf("expected table markup, got %q", got)
	}
}
