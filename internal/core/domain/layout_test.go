package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chip/internal/core/domain"
)

func testLayout() domain.Layout {
	return domain.Layout{
		Root:            filepath.FromSlash("/ws"),
		OutputDir:       domain.DefaultOutputDir,
		CacheFile:       domain.DefaultCacheFile,
		LogFile:         domain.DefaultLogFile,
		OutputExtension: domain.DefaultOutputExtension,
		Extensions:      domain.DefaultExtensions(),
	}
}

func TestLayoutPaths(t *testing.T) {
	l := testLayout()

	assert.Equal(t, filepath.FromSlash("/ws/chipper/dist/js"), l.OutputPath())
	assert.Equal(t, filepath.FromSlash("/ws/chipper/dist/js-cache-status.json"), l.CachePath())
	assert.Equal(t, filepath.FromSlash("/ws/chipper/dist/js-build-log.txt"), l.LogPath())
	assert.Equal(t, filepath.FromSlash("/ws/repo/js/a.ts"), l.Abs("repo/js/a.ts"))
}

func TestLayout_Rel(t *testing.T) {
	l := testLayout()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "absolute inside root", input: "/ws/repo/js/a.ts", want: "repo/js/a.ts"},
		{name: "relative to root", input: "repo/js/a.ts", want: "repo/js/a.ts"},
		{name: "uncleaned", input: "/ws/repo/./js/../js/a.ts", want: "repo/js/a.ts"},
		{name: "root itself", input: "/ws", want: "."},
		{name: "outside root", input: "/elsewhere/a.ts", wantErr: true},
		{name: "escaping relative", input: "../a.ts", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Rel(filepath.FromSlash(tt.input))
			if tt.wantErr {
				require.ErrorContains(t, err, domain.ErrPathOutsideRoot.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayout_TargetPath(t *testing.T) {
	l := testLayout()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "typescript is renamed", source: "/ws/repo/js/sim/Main.ts", want: "/ws/chipper/dist/js/repo/js/sim/Main.js"},
		{name: "javascript keeps its name", source: "/ws/repo/js/util.js", want: "/ws/chipper/dist/js/repo/js/util.js"},
		{name: "only the final extension is rewritten", source: "/ws/repo/js/a.ts.d/b.ts", want: "/ws/chipper/dist/js/repo/js/a.ts.d/b.js"},
		{name: "unknown extension is kept", source: "/ws/repo/images/logo.png", want: "/ws/chipper/dist/js/repo/images/logo.png"},
		{name: "relative source", source: "brand/phet/x.ts", want: "/ws/chipper/dist/js/brand/phet/x.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.TargetPath(filepath.FromSlash(tt.source))
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}

	t.Run("root is rejected", func(t *testing.T) {
		_, err := l.TargetPath(filepath.FromSlash("/ws"))
		require.ErrorContains(t, err, domain.ErrInvalidPath.Error())
	})

	t.Run("outside root is rejected", func(t *testing.T) {
		_, err := l.TargetPath(filepath.FromSlash("/tmp/a.ts"))
		require.ErrorContains(t, err, domain.ErrPathOutsideRoot.Error())
	})
}

func TestLayout_Siblings(t *testing.T) {
	l := testLayout()

	assert.Equal(t, []string{"repo/js/a.js"}, l.Siblings("repo/js/a.ts"))
	assert.Equal(t, []string{"repo/js/a.ts"}, l.Siblings("repo/js/a.js"))
	assert.Nil(t, l.Siblings("repo/js/a.png"))
}
