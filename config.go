package main

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrConfig marks errors that must abort the run before any file is touched.
var ErrConfig = errors.New("configuration error")

// ModeKind tags the variant held by a RenameMode.
type ModeKind int

const (
	ModePattern ModeKind = iota // regex substitution
	ModeLowercase
	ModeUppercase
	ModeCapitalize
)

func (k ModeKind) String() string {
	switch k {
	case ModePattern:
		return "regex"
	case ModeLowercase:
		return "lowercase"
	case ModeUppercase:
		return "uppercase"
	case ModeCapitalize:
		return "capitalize"
	default:
		return "unknown"
	}
}

// RenameMode selects how filenames are transformed. Only ModePattern carries
// a payload (compiled pattern plus replacement template).
type RenameMode struct {
	Kind        ModeKind
	Pattern     *regexp.Regexp
	Replacement string
}

// PatternMode compiles pattern and returns a substitution mode. The
// replacement may reference capture groups as $1, ${1} or ${name}.
func PatternMode(pattern, replacement string) (RenameMode, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return RenameMode{}, errors.Wrapf(ErrConfig, "invalid pattern %q: %v", pattern, err)
	}
	return RenameMode{Kind: ModePattern, Pattern: re, Replacement: replacement}, nil
}

// CaseMode returns one of the payload-free case conversion modes.
func CaseMode(kind ModeKind) RenameMode {
	return RenameMode{Kind: kind}
}

// Config is the read-only run configuration shared by every file.
type Config struct {
	Mode  RenameMode
	Paths []string

	Verbose    bool
	DryRun     bool
	Force      bool
	AutoNumber bool

	// Traversal filters.
	Include    []string
	Exclude    []string
	SkipHidden bool
	GitIgnore  bool
	MaxDepth   int

	// Extras.
	Git        bool   // stage renames of tracked files
	ReportFile string // YAML report destination
	Clipboard  bool   // copy the rename log to the clipboard
}

// buildConfig merges the viper layers (defaults, config file, env, flags)
// into a Config for the given mode and input paths.
func buildConfig(v *viper.Viper, mode RenameMode, paths []string) (*Config, error) {
	cfg := &Config{
		Mode:       mode,
		Paths:      paths,
		Verbose:    v.GetBool("verbose"),
		DryRun:     v.GetBool("dry_run"),
		Force:      v.GetBool("force"),
		AutoNumber: v.GetBool("auto_number"),
		Include:    parsePatterns(v.GetString("include")),
		Exclude:    parsePatterns(v.GetString("exclude")),
		SkipHidden: v.GetBool("skip_hidden"),
		GitIgnore:  v.GetBool("gitignore"),
		MaxDepth:   v.GetInt("max_depth"),
		Git:        v.GetBool("git"),
		ReportFile: v.GetString("report"),
		Clipboard:  v.GetBool("clipboard"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that the core is not prepared to handle.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return errors.Wrap(ErrConfig, "at least one path is required")
	}
	if c.Force && c.AutoNumber {
		return errors.Wrap(ErrConfig, "--force and --auto-number cannot be used together")
	}
	switch c.Mode.Kind {
	case ModePattern:
		if c.Mode.Pattern == nil {
			return errors.Wrap(ErrConfig, "regex mode requires a pattern")
		}
	case ModeLowercase, ModeUppercase, ModeCapitalize:
	default:
		return errors.Wrapf(ErrConfig, "unknown rename mode %d", int(c.Mode.Kind))
	}
	if c.MaxDepth < 0 {
		return errors.Wrap(ErrConfig, "--max-depth must not be negative")
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if _, err := matchesAnyPattern("", []string{p}); err != nil {
			return errors.Wrap(ErrConfig, err.Error())
		}
	}
	return nil
}

// parsePatterns splits a comma-separated string of glob patterns.
func parsePatterns(patterns string) []string {
	if strings.TrimSpace(patterns) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(patterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
