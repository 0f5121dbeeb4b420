package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is linediff's configuration. Sources, lowest precedence first: built-in defaults, ~/.linediff/config.*, the nearest .linediff/config.* at or above the working
// directory, LINEDIFF_* environment variables (ex: LINEDIFF_MAX_TIME=2s), and flags.
type Config struct {
	// Format is unified, pretty, or side-by-side.
	Format string `mapstructure:"format" json:"format"`

	// Context is the number of unchanged lines shown around each group of changes.
	Context int `mapstructure:"context" json:"context"`

	IgnoreTrimWhitespace bool `mapstructure:"ignore_trim_whitespace" json:"ignore_trim_whitespace"`
	CharChanges          bool `mapstructure:"char_changes" json:"char_changes"`
	PostProcess          bool `mapstructure:"post_process" json:"post_process"`
	Pretty               bool `mapstructure:"pretty" json:"pretty"`

	// MaxTime bounds the line diff. 0 means unlimited.
	MaxTime time.Duration `mapstructure:"max_time" json:"max_time"`

	// Width is the side-by-side width in terminal cells. 0 means the terminal's width.
	Width int `mapstructure:"width" json:"width"`

	// Color is auto, always, or never.
	Color string `mapstructure:"color" json:"color"`
}

const (
	formatUnified    = "unified"
	formatPretty     = "pretty"
	formatSideBySide = "side-by-side"

	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"

	configDirName = ".linediff"
	envPrefix     = "LINEDIFF"
)

var configExts = []string{"json", "yaml", "yml", "toml"}

// defaults are also the flag defaults shown by --help.
var defaults = Config{
	Format:      formatUnified,
	Context:     3,
	CharChanges: true,
	PostProcess: true,
	Pretty:      true,
	MaxTime:     5 * time.Second,
	Color:       colorAuto,
}

// flagKeys maps config keys to the flags that set them.
var flagKeys = map[string]string{
	"format":                 "format",
	"context":                "context",
	"ignore_trim_whitespace": "ignore-trim-whitespace",
	"char_changes":           "char-changes",
	"post_process":           "post-process",
	"pretty":                 "pretty",
	"max_time":               "max-time",
	"width":                  "width",
	"color":                  "color",
}

func registerConfigFlags(f *pflag.FlagSet) {
	f.String("format", defaults.Format, "output format: unified, pretty, or side-by-side")
	f.IntP("context", "U", defaults.Context, "unchanged lines of context around changes")
	f.BoolP("ignore-trim-whitespace", "b", defaults.IgnoreTrimWhitespace, "treat lines differing only in leading/trailing whitespace as equal")
	f.Bool("char-changes", defaults.CharChanges, "highlight changed characters within lines")
	f.Bool("post-process", defaults.PostProcess, "merge character changes separated by short matches")
	f.Bool("pretty", defaults.Pretty, "shift changes to natural boundaries")
	f.Duration("max-time", defaults.MaxTime, "time budget for the line diff (0 for unlimited)")
	f.Int("width", defaults.Width, "side-by-side width (0 for the terminal width)")
	f.String("color", defaults.Color, "color output: auto, always, or never")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", defaults.Format)
	v.SetDefault("context", defaults.Context)
	v.SetDefault("ignore_trim_whitespace", defaults.IgnoreTrimWhitespace)
	v.SetDefault("char_changes", defaults.CharChanges)
	v.SetDefault("post_process", defaults.PostProcess)
	v.SetDefault("pretty", defaults.Pretty)
	v.SetDefault("max_time", defaults.MaxTime)
	v.SetDefault("width", defaults.Width)
	v.SetDefault("color", defaults.Color)
}

// loadConfig layers all configuration sources. flags may be nil.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	paths, err := configFiles()
	if err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	for _, path := range paths {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("load configuration: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("load configuration: bind --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, usageError{err}
	}
	return cfg, nil
}

// configFiles returns the existing global and project config files, lowest precedence first.
func configFiles() ([]string, error) {
	var paths []string

	if home, err := os.UserHomeDir(); err == nil {
		if p := configFileIn(filepath.Join(home, configDirName)); p != "" {
			paths = append(paths, p)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if p := nearestConfigFile(wd); p != "" && (len(paths) == 0 || paths[0] != p) {
		paths = append(paths, p)
	}
	return paths, nil
}

// nearestConfigFile looks for .linediff/config.* in dir and each of its parents.
func nearestConfigFile(dir string) string {
	for {
		if p := configFileIn(filepath.Join(dir, configDirName)); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func configFileIn(dir string) string {
	for _, ext := range configExts {
		p := filepath.Join(dir, "config."+ext)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

func validateConfig(cfg Config) error {
	switch cfg.Format {
	case formatUnified, formatPretty, formatSideBySide:
	default:
		return fmt.Errorf("invalid configuration: format must be one of %s, %s, %s (got %q)", formatUnified, formatPretty, formatSideBySide, cfg.Format)
	}
	switch cfg.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("invalid configuration: color must be one of %s, %s, %s (got %q)", colorAuto, colorAlways, colorNever, cfg.Color)
	}
	if cfg.Context < 0 {
		return fmt.Errorf("invalid configuration: context must be >= 0 (got %d)", cfg.Context)
	}
	if cfg.MaxTime < 0 {
		return fmt.Errorf("invalid configuration: max_time must be >= 0 (got %s)", cfg.MaxTime)
	}
	if cfg.Width < 0 {
		return fmt.Errorf("invalid configuration: width must be >= 0 (got %d)", cfg.Width)
	}
	return nil
}

func writeConfigJSON(w io.Writer, cfg Config) error {
	type plainConfig Config
	view := struct {
		plainConfig
		MaxTime string `json:"max_time"`
	}{plainConfig(cfg), cfg.MaxTime.String()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return nil
}
