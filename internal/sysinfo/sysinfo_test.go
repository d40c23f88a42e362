package sysinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestCollect(t *testing.T) {
	h := Collect()
	if h.OS != runtime.GOOS || h.Arch != runtime.GOARCH {
		t.Errorf("unexpected platform %s/%s", h.OS, h.Arch)
	}
	if h.Cores < 1 {
		t.Errorf("expected at least one core, got %d", h.Cores)
	}
}

func TestHostString(t *testing.T) {
	h := Host{OS: "linux", Arch: "amd64", Cores: 8}
	s := h.String()
	if !strings.Contains(s, "unknown cpu") || !strings.Contains(s, "8 cores") {
		t.Errorf("unexpected description %q", s)
	}
	h.MemoryMB = 2048
	if !strings.HasSuffix(h.String(), "2048 MB") {
		t.Errorf("memory missing from %q", h.String())
	}
}
