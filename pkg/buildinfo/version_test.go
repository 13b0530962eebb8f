package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, version, commit, date string, bi *debug.BuildInfo) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() { Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldRead })
	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGet(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-02-03T04:05:06Z"},
		},
	}

	tests := []struct {
		name                  string
		version, commit, date string
		bi                    *debug.BuildInfo
		want                  Info
	}{
		{
			name:    "stamped wins",
			version: "v1.2.3", commit: "abc123", date: "2026-01-01",
			bi:   embedded,
			want: Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01"},
		},
		{
			name:    "embedded fills unstamped",
			version: "dev", commit: "none", date: "unknown",
			bi:   embedded,
			want: Info{Version: "v0.9.0", Commit: "deadbeef", Date: "2026-02-03T04:05:06Z"},
		},
		{
			name:    "devel module keeps dev",
			version: "dev", commit: "none", date: "unknown",
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:    "no build info",
			version: "dev", commit: "none", date: "unknown",
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.version, tt.commit, tt.date, tt.bi)
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	stub(t, "v1.2.3", "abc123", "2026-01-01", nil)

	if got := Template(); !strings.Contains(got, "version v1.2.3") {
		t.Errorf("Template() = %q, want version v1.2.3", got)
	}
	if got, want := String(), "version: v1.2.3\ncommit: abc123\nbuilt: 2026-01-01"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
