package lab

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// LABRUN_ENABLE_NATIVE_RUNTIME=true.
const EnvPrefix = "LABRUN_"

// Config is the caller supplied execution configuration. Zero values are
// the documented defaults: no timeout override, no memory limit, and only
// the local simulation backend.
type Config struct {
	TimeoutMs           int    `toml:"timeout_ms" koanf:"timeout_ms"`
	MemoryLimitMb       int    `toml:"memory_limit_mb" koanf:"memory_limit_mb"`
	PlotOutput          *bool  `toml:"plot_output" koanf:"plot_output"`
	EnableNativeRuntime bool   `toml:"enable_native_runtime" koanf:"enable_native_runtime"`
	EnableDockerRuntime bool   `toml:"enable_docker_runtime" koanf:"enable_docker_runtime"`
	APIKey              string `toml:"api_key" koanf:"api_key"`

	// RemoteEndpoint is the base URL of the Docker execution service.
	RemoteEndpoint string `toml:"remote_endpoint" koanf:"remote_endpoint"`
	// Strict turns swallowed evaluation failures into fatal errors.
	Strict bool `toml:"strict" koanf:"strict"`
	// Seed fixes the random generator. With Deterministic set and no Seed,
	// the seed is derived from the program text.
	Seed          uint64 `toml:"seed" koanf:"seed"`
	Deterministic bool   `toml:"deterministic" koanf:"deterministic"`
}

// Bool returns a pointer to b, for optional Config fields.
func Bool(b bool) *bool {
	return &b
}

// Plots reports whether plot commands should produce a dataset. Unset means yes.
func (c Config) Plots() bool {
	if c.PlotOutput == nil {
		return true
	}
	return *c.PlotOutput
}

// Timeout is the backend timeout, or zero for the backend's own default.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) Validate() error {
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must not be negative, got %d", c.TimeoutMs)
	}
	if c.MemoryLimitMb < 0 {
		return fmt.Errorf("memory_limit_mb must not be negative, got %d", c.MemoryLimitMb)
	}
	if c.EnableDockerRuntime && c.RemoteEndpoint == "" {
		return fmt.Errorf("enable_docker_runtime requires remote_endpoint")
	}
	return nil
}

// flagKeys maps CLI flag names onto config keys where the two differ.
var flagKeys = map[string]string{
	"native": "enable_native_runtime",
	"docker": "enable_docker_runtime",
}

// LoadConfig layers configuration, lowest to highest: defaults, the TOML
// file at path (if any), LABRUN_* environment variables, then flags that
// were explicitly set.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"timeout_ms":            0,
		"memory_limit_mb":       0,
		"plot_output":           true,
		"enable_native_runtime": false,
		"enable_docker_runtime": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		fileValues, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(fileValues, "."), nil); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string) (map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out := make(map[string]interface{})
	if _, err := toml.NewDecoder(f).Decode(&out); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return out, nil
}
