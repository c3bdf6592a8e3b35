package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	gv "github.com/hashicorp/go-version"

	"tagcalc/internal/complete"
	"tagcalc/internal/token"
	"tagcalc/internal/trace"
	"tagcalc/internal/version"
)

// FileName is the name searched for by Find.
const FileName = "tagcalc.toml"

// Duration is a time.Duration written as a string ("3s", "1m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the decoded tagcalc.toml.
type Config struct {
	// Path is the file the config was loaded from; empty for Default().
	Path string `toml:"-"`

	// RequiredVersion is a version constraint (">= 0.2, < 1.0") the running
	// binary must satisfy.
	RequiredVersion string `toml:"required_version"`

	Autocomplete Autocomplete         `toml:"autocomplete"`
	Catalog      Catalog              `toml:"catalog"`
	Tags         []complete.Candidate `toml:"tag"`
	Trace        Trace                `toml:"trace"`
}

// Autocomplete configures suggestion lookups.
type Autocomplete struct {
	URL      string   `toml:"url"`
	Limit    int      `toml:"limit"`
	Timeout  Duration `toml:"timeout"`
	Stale    Duration `toml:"stale"`
	CacheDir string   `toml:"cache_dir"`
	// Builtin enables the sample catalog.
	Builtin bool `toml:"builtin"`
}

// Catalog points at the SQLite tag catalog.
type Catalog struct {
	Path string `toml:"path"`
}

// Trace mirrors the --trace* flags.
type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Autocomplete: Autocomplete{
			Limit:   complete.DefaultLimit,
			Timeout: Duration{complete.DefaultTimeout},
			Stale:   Duration{complete.DefaultStaleTime},
			Builtin: true,
		},
		Trace: Trace{
			Level: "off",
			Mode:  "ring",
		},
	}
}

// Dir returns the directory relative paths are resolved against.
func (c Config) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// Find searches startDir and its parents for tagcalc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the config above startDir, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.Path = path

	if err := cfg.validate(meta); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolvePaths()
	return cfg, nil
}

func (c *Config) validate(meta toml.MetaData) error {
	if c.RequiredVersion != "" {
		if err := checkVersion(c.RequiredVersion, version.Version); err != nil {
			return err
		}
	}

	ac := c.Autocomplete
	if meta.IsDefined("autocomplete", "url") {
		u, err := url.Parse(ac.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("[autocomplete].url must be an absolute URL, got %q", ac.URL)
		}
	}
	if ac.Limit <= 0 {
		return fmt.Errorf("[autocomplete].limit must be positive, got %d", ac.Limit)
	}
	if ac.Timeout.Duration <= 0 {
		return fmt.Errorf("[autocomplete].timeout must be positive, got %s", ac.Timeout)
	}
	if ac.Stale.Duration <= 0 {
		return fmt.Errorf("[autocomplete].stale must be positive, got %s", ac.Stale)
	}

	seen := make(map[string]int, len(c.Tags))
	for i, tag := range c.Tags {
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			return fmt.Errorf("[[tag]] #%d: missing name", i+1)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("[[tag]] #%d: duplicate name %q (first at #%d)", i+1, name, prev)
		}
		seen[name] = i + 1
		if tag.Kind != "" && tag.Kind != token.TagVariable.String() && tag.Kind != token.TagFunction.String() {
			return fmt.Errorf("[[tag]] %q: unknown kind %q (expected: variable|function)", name, tag.Kind)
		}
	}

	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	return nil
}

// checkVersion matches the release part of current against constraint, so
// development builds satisfy the constraints of the release they lead to.
func checkVersion(constraint, current string) error {
	cs, err := gv.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("required_version: %w", err)
	}
	cur, err := gv.NewVersion(current)
	if err != nil {
		return fmt.Errorf("tagcalc version %q: %w", current, err)
	}
	if !cs.Check(cur.Core()) {
		return fmt.Errorf("tagcalc %s does not satisfy required_version %q", cur, constraint)
	}
	return nil
}

func (c *Config) resolvePaths() {
	dir := c.Dir()
	resolve := func(p string) string {
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, filepath.FromSlash(p))
	}
	c.Autocomplete.CacheDir = resolve(c.Autocomplete.CacheDir)
	c.Catalog.Path = resolve(c.Catalog.Path)
	c.Trace.Output = resolve(c.Trace.Output)
}

// TraceConfig converts the [trace] section. Flags override it in the CLI.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
	}, nil
}
