package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	assert.Equal(t, defaultTheme, Load("").Theme)
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "shelf")
	require.NoError(t, os.MkdirAll(prefsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte("theme = \"Slate\"\n"), 0o644))

	assert.Equal(t, "Slate", Load("").Theme)
}

func TestLoad_CorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = "), 0o644))

	assert.Equal(t, Default(), Load(path))
}

func TestLoad_BlankThemeUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = \"  \"\n"), 0o644))

	assert.Equal(t, defaultTheme, Load(path).Theme)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	require.NoError(t, Save(path, Prefs{Theme: "Kanagawa"}))

	assert.Equal(t, "Kanagawa", Load(path).Theme)
}
