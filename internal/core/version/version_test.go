package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "plannedobs/dev ") {
		t.Fatalf("UserAgent() = %q, want plannedobs/dev prefix", ua)
	}
	if !strings.Contains(ua, runtime.Version()) {
		t.Fatalf("UserAgent() = %q, missing go version", ua)
	}
}
