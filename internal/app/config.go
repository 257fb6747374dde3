package app

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"spiral-galaxy/internal/galaxy"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "GALAXY_"

// Config represents the command-line parameters for the application.
type Config struct {
	Width    int
	Height   int
	TPS      int
	Seed     int64
	HUDWidth int
	LogLevel string
	LogJSON  bool

	Params galaxy.Parameters
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    1280,
		Height:   800,
		TPS:      60,
		Seed:     42,
		HUDWidth: 260,
		LogLevel: "info",
		Params:   galaxy.DefaultParameters(),
	}
}

// LoadEnv reads optional dotenv files (".env" when none are named) and then
// applies GALAXY_* variables from the process environment. Variables already
// set in the environment win over dotenv entries. Call before Bind so flags
// take precedence.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	setInt("WIDTH", &c.Width)
	setInt("HEIGHT", &c.Height)
	setInt("TPS", &c.TPS)
	setInt("HUD_WIDTH", &c.HUDWidth)
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = n
		}
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sLOG_JSON: %w", EnvPrefix, err))
		} else {
			c.LogJSON = b
		}
	}
	for _, key := range galaxy.Keys() {
		if v, ok := get(strings.ToUpper(key)); ok {
			if err := c.Params.Set(key, v); err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, strings.ToUpper(key), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	c.BindWindow(fs)
	c.BindGalaxy(fs)
}

// BindWindow registers the window, logging and seed flags.
func (c *Config) BindWindow(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "window width in logical pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in logical pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for galaxy generation")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "settings panel width (0 hides it)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "emit JSON logs")
}

// BindGalaxy registers one flag per galaxy parameter, named after its key.
func (c *Config) BindGalaxy(fs *flag.FlagSet) {
	for _, key := range galaxy.Keys() {
		fs.Var(paramFlag{params: &c.Params, key: key}, key, "galaxy "+strings.ReplaceAll(key, "_", " "))
	}
}

// paramFlag exposes one galaxy parameter as a flag.Value.
type paramFlag struct {
	params *galaxy.Parameters
	key    string
}

func (f paramFlag) String() string {
	if f.params == nil {
		return ""
	}
	v, _ := f.params.Get(f.key)
	return v
}

func (f paramFlag) Set(v string) error { return f.params.Set(f.key, v) }
