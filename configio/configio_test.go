package configio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/config"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenModeOmitted(t *testing.T) {
	path := writeYAML(t, "max_cols: 256\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.False(t, c.IsGoogleSheets())
	assert.Equal(t, uint32(256), c.MaxCols)
}

func TestLoadGoogleSheetsModeOverlaysFields(t *testing.T) {
	path := writeYAML(t, "compatibility_mode: google_sheets\nlocale: fr-FR\narg_separator: \";\"\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.GoogleSheets, c.CompatibilityMode)
	assert.Equal(t, "fr-FR", c.Locale)
	assert.Equal(t, ';', c.ArgSeparator)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
