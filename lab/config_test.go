package lab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labrun.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Plots())
	assert.False(t, cfg.EnableNativeRuntime)
	assert.False(t, cfg.EnableDockerRuntime)
	assert.Zero(t, cfg.Timeout())
}

func TestLoadConfigLayering(t *testing.T) {
	path := writeConfig(t, `
timeout_ms = 5000
memory_limit_mb = 256
plot_output = false
remote_endpoint = "http://localhost:9000"
api_key = "from-file"
`)
	t.Setenv("LABRUN_API_KEY", "from-env")
	t.Setenv("LABRUN_ENABLE_DOCKER_RUNTIME", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout-ms", 0, "")
	flags.Bool("native", false, "")
	flags.Bool("strict", false, "")
	require.NoError(t, flags.Parse([]string{"--timeout-ms=750", "--native"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.TimeoutMs)
	assert.Equal(t, 256, cfg.MemoryLimitMb)
	assert.False(t, cfg.Plots())
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.True(t, cfg.EnableDockerRuntime)
	assert.True(t, cfg.EnableNativeRuntime)
	// Unchanged flags must not clobber lower layers.
	assert.False(t, cfg.Strict)
}

func TestLoadConfigRejectsDockerWithoutEndpoint(t *testing.T) {
	path := writeConfig(t, "enable_docker_runtime = true\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)
}

func TestLoadConfigBadFile(t *testing.T) {
	path := writeConfig(t, "timeout_ms = = 3\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.Error(t, err)
}
