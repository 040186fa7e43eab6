// Package config loads .duck.toml, the project-level configuration:
// a map of rule name to severity, the english-flavor toggle, the
// configurable TODO keyword, the max-arguments threshold, and a list
// of files to ignore during the project walk. Grounded on
// funvibe-funxy's internal/ext/config.go (FindConfig's walk-up-to-root
// discovery, LoadConfig/ParseConfig split, setDefaults after parse),
// rewired onto BurntSushi/toml since .duck.toml is TOML rather than
// YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/duck-lang/duck/internal/diagnostic"
)

// FileName is the configuration file's fixed name, discovered next to
// the project root.
const FileName = ".duck.toml"

// EnglishFlavor selects which spelling lints expect for
// British/American-variant identifiers and messages.
type EnglishFlavor string

const (
	British  EnglishFlavor = "british"
	American EnglishFlavor = "american"
)

// rawConfig mirrors the TOML file's shape exactly; Config (below) is
// the defaulted, validated form the rest of the toolchain consumes.
type rawConfig struct {
	Rules         map[string]string `toml:"rules"`
	EnglishFlavor string            `toml:"english_flavor"`
	TodoKeyword   string            `toml:"todo_keyword"`
	MaxArguments  int               `toml:"max_arguments"`
	FilesToIgnore []string          `toml:"files_to_ignore"`
}

// Config is the parsed, defaulted project configuration.
type Config struct {
	// Rules maps a lint's stable tag to its configured severity. A
	// rule absent from this map uses its own DefaultLevel.
	Rules map[string]diagnostic.Severity

	EnglishFlavor EnglishFlavor
	TodoKeyword   string
	MaxArguments  int

	// FilesToIgnore holds canonicalized absolute paths, resolved
	// relative to the directory the config file was found in.
	FilesToIgnore map[string]bool
}

// Default returns the configuration a project with no .duck.toml
// receives: empty rule overrides (every lint runs at its own default
// severity), American spelling, "TODO" as the todo keyword, and 7
// maximum arguments, matching the GameMaker-ecosystem norm the
// reference implementation ships as its own built-in default.
func Default() *Config {
	return &Config{
		Rules:         map[string]diagnostic.Severity{},
		EnglishFlavor: American,
		TodoKeyword:   "TODO",
		MaxArguments:  7,
		FilesToIgnore: map[string]bool{},
	}
}

// Find walks up from dir looking for .duck.toml, the way
// funxy.FindConfig walks up for funxy.yaml. Returns "" with a nil error
// if no config file exists anywhere above dir.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and parses path, returning a defaulted Config. If path is
// "" (no config file was found), Default() is returned unchanged.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fromRaw(&raw, filepath.Dir(path))
}

// Parse parses TOML content directly, for tests that don't want to
// touch the filesystem. baseDir resolves files_to_ignore the same way
// Load does.
func Parse(data []byte, baseDir string) (*Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return fromRaw(&raw, baseDir)
}

func fromRaw(raw *rawConfig, baseDir string) (*Config, error) {
	cfg := Default()

	for name, level := range raw.Rules {
		sev, err := parseSeverity(level)
		if err != nil {
			return nil, fmt.Errorf("rules.%s: %w", name, err)
		}
		cfg.Rules[name] = sev
	}

	switch EnglishFlavor(raw.EnglishFlavor) {
	case British:
		cfg.EnglishFlavor = British
	case American:
		cfg.EnglishFlavor = American
	case "":
		// keep default
	default:
		return nil, fmt.Errorf("english_flavor: must be %q or %q, got %q", British, American, raw.EnglishFlavor)
	}

	if raw.TodoKeyword != "" {
		cfg.TodoKeyword = raw.TodoKeyword
	}
	if raw.MaxArguments > 0 {
		cfg.MaxArguments = raw.MaxArguments
	}

	for _, f := range raw.FilesToIgnore {
		p := f
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("files_to_ignore %q: %w", f, err)
		}
		cfg.FilesToIgnore[filepath.Clean(abs)] = true
	}

	return cfg, nil
}

func parseSeverity(s string) (diagnostic.Severity, error) {
	switch s {
	case "allow":
		return diagnostic.Allow, nil
	case "warn":
		return diagnostic.Warn, nil
	case "deny":
		return diagnostic.Deny, nil
	default:
		return diagnostic.Allow, fmt.Errorf("severity must be one of allow|warn|deny, got %q", s)
	}
}

// SeverityFor resolves a lint's effective severity: the project's
// configured override if present, else fall back to defaultLevel.
func (c *Config) SeverityFor(tag string, defaultLevel diagnostic.Severity) diagnostic.Severity {
	if sev, ok := c.Rules[tag]; ok {
		return sev
	}
	return defaultLevel
}

// Ignores reports whether absPath (already canonicalized) is listed in
// files_to_ignore.
func (c *Config) Ignores(absPath string) bool {
	return c.FilesToIgnore[filepath.Clean(absPath)]
}

// Template is the starting content written by `duck new-config`.
func Template(flavor EnglishFlavor, todoKeyword string, maxArguments int) string {
	if flavor == "" {
		flavor = American
	}
	if todoKeyword == "" {
		todoKeyword = "TODO"
	}
	if maxArguments <= 0 {
		maxArguments = 7
	}
	return fmt.Sprintf(`# duck project configuration. See `+"`duck explain <lint>`"+` for
# what each rule checks.

english_flavor = %q
todo_keyword = %q
max_arguments = %d

files_to_ignore = []

[rules]
# and-keyword = "warn"
# missing-default-case = "deny"
`, flavor, todoKeyword, maxArguments)
}
