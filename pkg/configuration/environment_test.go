package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_LoadsExistingFiles(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env.local"), []byte("BACKOFFICE_TEST_ENV_LOAD=ok\n"), 0o644))

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	_ = os.Unsetenv("BACKOFFICE_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("BACKOFFICE_TEST_ENV_LOAD"))
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	n, err := LoadEnv([]string{".env"})
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestImportOptions_Validate(t *testing.T) {
	cases := []struct {
		name    string
		opts    ImportOptions
		wantErr bool
	}{
		{
			name: "defaults are valid",
			opts: ImportOptions{Scorer: "local", MaxRows: 10000, DuplicateCutoff: 0.72, AmbiguousCutoff: 0.85},
		},
		{
			name:    "unknown scorer",
			opts:    ImportOptions{Scorer: "llm", MaxRows: 1, DuplicateCutoff: 0.5, AmbiguousCutoff: 0.6},
			wantErr: true,
		},
		{
			name:    "ambiguous cutoff below duplicate cutoff",
			opts:    ImportOptions{Scorer: "local", MaxRows: 1, DuplicateCutoff: 0.8, AmbiguousCutoff: 0.5},
			wantErr: true,
		},
		{
			name:    "non-positive max rows",
			opts:    ImportOptions{Scorer: "local", MaxRows: 0, DuplicateCutoff: 0.5, AmbiguousCutoff: 0.6},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
