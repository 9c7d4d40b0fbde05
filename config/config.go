package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Setting names. These are also settable from the environment, upper-cased
// with a CAISSA_ prefix and dashes replaced with underscores
// (e.g. CAISSA_SEARCH_DEPTH=6).
const (
	KeySearchDepth      = "search-depth"
	KeyThreads          = "threads"
	KeyTableMemFraction = "table-mem-fraction"
	KeyMaxNodes         = "max-nodes"
	KeyLogLevel         = "log-level"
	KeyDebug            = "debug"
)

type Config struct {
	v *viper.Viper
}

func (c *Config) Load(args []string) error {
	c.v = viper.New()
	c.v.SetEnvPrefix("caissa")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	c.v.SetDefault(KeySearchDepth, 4)
	c.v.SetDefault(KeyThreads, max(1, runtime.NumCPU()-1))
	c.v.SetDefault(KeyTableMemFraction, 0.10)
	c.v.SetDefault(KeyMaxNodes, 0)
	c.v.SetDefault(KeyLogLevel, "info")
	c.v.SetDefault(KeyDebug, false)

	c.v.SetConfigName("caissa")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(".")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	// args are key=value pairs, overriding both file and environment.
	for _, arg := range args {
		k, val, found := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !found {
			return fmt.Errorf("bad argument %q; expected key=value", arg)
		}
		c.v.Set(k, val)
	}
	return nil
}

func (c *Config) SearchDepth() int {
	return c.v.GetInt(KeySearchDepth)
}

func (c *Config) Threads() int {
	return c.v.GetInt(KeyThreads)
}

func (c *Config) TableMemFraction() float64 {
	return c.v.GetFloat64(KeyTableMemFraction)
}

func (c *Config) MaxNodes() uint64 {
	return c.v.GetUint64(KeyMaxNodes)
}

func (c *Config) LogLevel() string {
	return c.v.GetString(KeyLogLevel)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// Set overrides a setting at runtime, from the shell's set command.
func (c *Config) Set(key string, value any) error {
	if !c.v.IsSet(key) {
		return fmt.Errorf("unknown setting %q", key)
	}
	c.v.Set(key, value)
	return nil
}

func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
