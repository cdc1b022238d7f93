package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version, Commit = "v1.0.0", "none"
	if got := Summary(); got != "v1.0.0" {
		t.Errorf("Summary() = %q", got)
	}

	Version, Commit = "", "0123456789abcdef"
	if got := Summary(); got != "dev (0123456)" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestBanner(t *testing.T) {
	got := Banner()
	if !strings.HasPrefix(got, "gemini_chat ") {
		t.Errorf("Banner() = %q", got)
	}
	if !strings.Contains(got, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Banner() missing platform: %q", got)
	}
}
