package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredPlain(t *testing.T) {
	if got := Colored(false); got != Version {
		t.Fatalf("Colored(false) = %q, want %q", got, Version)
	}
}

func TestColoredEnabledKeepsDigits(t *testing.T) {
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI sequences in %q", got)
	}
	if !strings.HasSuffix(got, "-dev") {
		t.Fatalf("suffix lost: %q", got)
	}
}

func TestBanner_OptionalFields(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version = "1.2.3"
	GitCommit = ""
	BuildDate = ""
	banner := Banner(false)
	if !strings.HasPrefix(banner, "hone 1.2.3\n") {
		t.Fatalf("banner = %q", banner)
	}
	if strings.Contains(banner, "commit:") || strings.Contains(banner, "built:") {
		t.Fatalf("empty fields must be omitted: %q", banner)
	}

	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	banner = Banner(false)
	for _, want := range []string{"commit: abc123def456\n", "built: 2024-01-15T10:30:00Z\n", "go: "} {
		if !strings.Contains(banner, want) {
			t.Errorf("banner misses %q: %q", want, banner)
		}
	}
}

func TestColoredOddVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "nightly"
	if got := Colored(true); got != "nightly" {
		t.Fatalf("Colored = %q", got)
	}
}
