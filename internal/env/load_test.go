package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `
# local overrides
WILDFOX_LOG_LEVEL=debug
export WILDFOX_ASSET_DIR = "my assets"
QUOTED='x'
MISMATCHED="y'
=nokey
novalue
`
	vars, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"WILDFOX_LOG_LEVEL": "debug",
		"WILDFOX_ASSET_DIR": "my assets",
		"QUOTED":            "x",
		"MISMATCHED":        `"y'`,
	}, vars)
}

func TestLoadKeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WILDFOX_TEST_A=file\nWILDFOX_TEST_B=file\n"), 0644))
	t.Setenv("WILDFOX_TEST_A", "shell")
	t.Setenv("WILDFOX_TEST_B", "")
	os.Unsetenv("WILDFOX_TEST_B")

	require.NoError(t, Load(path))
	assert.Equal(t, "shell", os.Getenv("WILDFOX_TEST_A"))
	assert.Equal(t, "file", os.Getenv("WILDFOX_TEST_B"))
}

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "absent.env")))
}
