// Package project locates and loads textconf.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up in the working directory and its ancestors.
const ConfigFileName = "textconf.toml"

var (
	// ErrInvalidConfig is returned for files that are not valid TOML.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownKey is returned for keys textconf does not know.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned for well-typed values outside their range.
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigError pins a config failure to a file and, when known, a key and byte range.
type ConfigError struct {
	Path   string
	Key    string
	Line   int // 0 если позиция неизвестна
	Offset int
	Len    int
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc += ":" + strconv.Itoa(e.Line)
	}
	return loc + ": " + e.message()
}

// message is Error without the location prefix.
func (e *ConfigError) message() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	if e.Key != "" {
		fmt.Fprintf(&sb, " %q", e.Key)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Settings are the knobs shared by textconf.toml and command-line flags.
type Settings struct {
	MaxWidth  int    `toml:"max_width" msgpack:"max_width"`
	Prefix    string `toml:"prefix" msgpack:"prefix"`
	ClassName string `toml:"class_name" msgpack:"class_name"`
	Target    string `toml:"target" msgpack:"target"`
	Jobs      int    `toml:"jobs" msgpack:"-"`
	Separator string `toml:"separator" msgpack:"separator"`
	Indent    int    `toml:"indent" msgpack:"indent"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxWidth:  100,
		ClassName: "Config",
		Target:    "python",
		Separator: "---",
		Indent:    4,
	}
}

// Config is a loaded textconf.toml.
type Config struct {
	Path     string
	Root     string // каталог, содержащий файл
	Settings Settings
	defined  []string
}

// IsDefined reports whether key was set in the file.
func (c *Config) IsDefined(key string) bool {
	return c != nil && slices.Contains(c.defined, key)
}

// FindConfig walks up from startDir to locate textconf.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
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

// Discover finds and loads the nearest textconf.toml. ok is false when there is none.
func Discover(startDir string) (cfg *Config, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path comes from the command line or FindConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse is Load over in-memory data; path is used in errors only.
func Parse(path string, data []byte) (*Config, error) {
	settings := DefaultSettings()
	meta, err := toml.Decode(string(data), &settings)
	if err != nil {
		ce := &ConfigError{Path: path, Err: ErrInvalidConfig, Detail: err.Error()}
		var pe toml.ParseError
		if errors.As(err, &pe) {
			ce.Detail = pe.Message
			ce.Line = pe.Position.Line
			ce.Offset = pe.Position.Start
			ce.Len = pe.Position.Len
		}
		return nil, ce
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &ConfigError{Path: path, Key: undecoded[0].String(), Err: ErrUnknownKey}
	}

	cfg := &Config{Path: path, Root: filepath.Dir(path), Settings: settings}
	for _, key := range meta.Keys() {
		cfg.defined = append(cfg.defined, key.String())
	}
	if err := validate(path, meta, settings); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(path string, meta toml.MetaData, s Settings) error {
	bad := func(key, detail string) error {
		return &ConfigError{Path: path, Key: key, Err: ErrInvalidValue, Detail: detail}
	}
	if s.MaxWidth < 0 {
		return bad("max_width", "must be >= 0")
	}
	if s.Jobs < 0 {
		return bad("jobs", "must be >= 0")
	}
	if s.Indent < 1 || s.Indent > 16 {
		return bad("indent", "must be between 1 and 16")
	}
	if meta.IsDefined("class_name") && strings.TrimSpace(s.ClassName) == "" {
		return bad("class_name", "must not be empty")
	}
	if meta.IsDefined("target") && strings.TrimSpace(s.Target) == "" {
		return bad("target", "must not be empty")
	}
	if strings.TrimSpace(s.Separator) == "" || strings.ContainsAny(s.Separator, "\r\n") {
		return bad("separator", "must be a non-empty single line")
	}
	return nil
}
