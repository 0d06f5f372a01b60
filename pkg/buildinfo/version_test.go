package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	unstamped := Info{Version: "dev", Commit: "none", Date: "unknown"}
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		info Info
		read func() (*debug.BuildInfo, bool)
		want Info
	}{
		{
			name: "no build info",
			info: unstamped,
			read: func() (*debug.BuildInfo, bool) { return nil, false },
			want: unstamped,
		},
		{
			name: "embedded fills unstamped",
			info: unstamped,
			read: func() (*debug.BuildInfo, bool) { return embedded, true },
			want: Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z"},
		},
		{
			name: "ldflags win",
			info: Info{Version: "v1.0.0", Commit: "fff", Date: "today"},
			read: func() (*debug.BuildInfo, bool) { return embedded, true },
			want: Info{Version: "v1.0.0", Commit: "fff", Date: "today"},
		},
		{
			name: "devel module version ignored",
			info: unstamped,
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
			},
			want: unstamped,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fromBuildInfo(tt.info, tt.read))
		})
	}
}

func TestTemplate(t *testing.T) {
	assert.Contains(t, Template(), "{{.Name}} version ")
	assert.Contains(t, String(), "commit: ")
}
