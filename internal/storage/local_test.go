package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSourceReadFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "phonon_data", "1-WSe2")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "band-mono-vasp.yaml"), []byte("phonon: []\n"), 0o644))

	src := NewLocalSource(root)
	ctx := context.Background()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "relative path", path: "phonon_data/1-WSe2/band-mono-vasp.yaml", want: "phonon: []\n"},
		{name: "dot prefix", path: "./phonon_data/1-WSe2/band-mono-vasp.yaml", want: "phonon: []\n"},
		{name: "missing file", path: "phonon_data/1-WSe2/band.yaml", wantErr: ErrNotFound},
		{name: "parent traversal", path: "../etc/passwd", wantErr: ErrOutsideRoot},
		{name: "absolute path", path: "/etc/passwd", wantErr: ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := src.ReadFile(ctx, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestLocalSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalSource(t.TempDir()).ReadFile(ctx, "band.yaml")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSourceReadsAbsolutePaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "band.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phonon: []\n"), 0o644))

	data, err := NewOpenSource().ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "phonon: []\n", string(data))

	_, err = NewLocalSource(t.TempDir()).ReadFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrOutsideRoot)
}
