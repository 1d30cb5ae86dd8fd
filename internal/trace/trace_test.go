package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("DETAIL"); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopePass, "parse", 0)
	Begin(tr, ScopeFile, "file:lib.rs", span.ID()).End("")
	span.Attr("files", "3").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (ok) {files=3}") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "lib.rs") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeRule, "rule:collapsible_if", "panic", 0)
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "rule" || ev["detail"] != "panic" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestContextPlumbing(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must be Nop")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Fatalf("LevelOff must yield a disabled tracer")
	}
}

func TestStartNestsUnderContextSpan(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	ctx, run := Start(ctx, ScopeDriver, "analyze")
	if Parent(ctx) != run.ID() || run.ID() == 0 {
		t.Fatalf("driver span must become the parent")
	}
	// file scope is filtered at phase level, its children attach to the driver span
	fileCtx, file := Start(ctx, ScopeFile, "file:lib.rs")
	if file.ID() != 0 || Parent(fileCtx) != run.ID() {
		t.Fatalf("filtered span must keep the parent, got %d", Parent(fileCtx))
	}
	_, parse := Start(fileCtx, ScopePass, "parse")
	parse.End("")
	run.End("")

	var parents []uint64
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			ParentID uint64 `json:"parent_id"`
		}
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid json %q: %v", line, err)
		}
		if ev.Name == "parse" && ev.Kind == "begin" {
			parents = append(parents, ev.ParentID)
		}
	}
	if len(parents) != 1 || parents[0] != run.ID() {
		t.Fatalf("parse parent = %v, want [%d]", parents, run.ID())
	}
}
