package qup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		ForkHost:   "github.com",
		Owner:      "qtile",
		Project:    "qtile",
		AURPackage: "qtile-git",
		Artifacts:  defaultArtifacts,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		sel  Selectors
		want string
	}{
		{
			name: "defaults to upstream default branch",
			sel:  Selectors{},
			want: "https://github.com/qtile/qtile",
		},
		{
			name: "branch on default fork",
			sel:  Selectors{Branch: "next"},
			want: "https://github.com/qtile/qtile#branch=next",
		},
		{
			name: "fork with commit",
			sel:  Selectors{Fork: "alice", Commit: "abc123"},
			want: "https://github.com/alice/qtile#commit=abc123",
		},
		{
			name: "fork with tag",
			sel:  Selectors{Fork: "alice", Tag: "v0.23.0"},
			want: "https://github.com/alice/qtile#tag=v0.23.0",
		},
		{
			name: "local path",
			sel:  Selectors{Path: "/home/alice/src/qtile"},
			want: "file:///home/alice/src/qtile",
		},
		{
			name: "local path with branch",
			sel:  Selectors{Path: "/home/alice/src/qtile", Branch: "wip"},
			want: "file:///home/alice/src/qtile#branch=wip",
		},
		{
			name: "commit wins over tag",
			sel:  Selectors{Commit: "abc123", Tag: "v0.23.0"},
			want: "https://github.com/qtile/qtile#commit=abc123",
		},
		{
			name: "tag wins over branch",
			sel:  Selectors{Tag: "v0.23.0", Branch: "next"},
			want: "https://github.com/qtile/qtile#tag=v0.23.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.sel.Resolve(testConfig()))
		})
	}
}

func TestResolveCustomHost(t *testing.T) {
	cfg := testConfig()
	cfg.ForkHost = "codeberg.org"
	got := Selectors{Fork: "bob", Branch: "fix"}.Resolve(cfg)
	require.Equal(t, "https://codeberg.org/bob/qtile#branch=fix", got)
}
