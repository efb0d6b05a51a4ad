package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/KasperOmsK/textpipe/charset"
	"github.com/KasperOmsK/textpipe/split"
)

// ErrInvalid is wrapped by every validation and parse error, so the command
// can tell configuration mistakes from input errors.
var ErrInvalid = errors.New("invalid configuration")

// Delimiter engines.
const (
	EngineRE2     = "re2"
	EngineRegexp2 = "regexp2"
	EngineLiteral = "literal"
)

// Config holds the settings shared by the textpipe commands. Command line
// flags override the values loaded from a file.
type Config struct {
	Charset         string `yaml:"charset" default:"UTF-8"`
	Policy          string `yaml:"policy" default:"replace"`
	ChunkSize       int    `yaml:"chunk_size" default:"8192"`
	Delimiter       string `yaml:"delimiter" default:"\\r?\\n"`
	Limit           int    `yaml:"limit"`
	Engine          string `yaml:"engine" default:"re2"`
	OutputSeparator string `yaml:"output_separator" default:"\n"`
	Normalize       string `yaml:"normalize"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

// Load reads a YAML config file, expands environment variables, and
// unmarshals it over the defaults. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file not found: %s", ErrInvalid, path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML in %s: %v", ErrInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := c.Codec(); err != nil {
		return err
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalid, c.ChunkSize)
	}
	if _, err := c.Pattern(); err != nil {
		return err
	}
	if _, _, err := c.NormForm(); err != nil {
		return err
	}
	return nil
}

// Codec resolves the charset and the error policy.
func (c *Config) Codec() (charset.Codec, error) {
	p, err := charset.ParsePolicy(c.Policy)
	if err != nil {
		return charset.Codec{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	codec, err := charset.NewCodec(c.Charset, p)
	if err != nil {
		return charset.Codec{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return codec, nil
}

// Pattern compiles the delimiter with the configured engine.
func (c *Config) Pattern() (split.Pattern, error) {
	var (
		pat split.Pattern
		err error
	)
	switch strings.ToLower(c.Engine) {
	case "", EngineRE2:
		pat, err = split.Compile(c.Delimiter)
	case EngineRegexp2:
		pat, err = split.CompileRegexp2(c.Delimiter, regexp2.None)
	case EngineLiteral:
		pat = split.Literal(c.Delimiter)
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrInvalid, c.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: delimiter %q: %v", ErrInvalid, c.Delimiter, err)
	}
	return pat, nil
}

// NormForm returns the configured Unicode normalization form. ok is false
// when no normalization is configured.
func (c *Config) NormForm() (f norm.Form, ok bool, err error) {
	switch strings.ToUpper(c.Normalize) {
	case "":
		return 0, false, nil
	case "NFC":
		return norm.NFC, true, nil
	case "NFD":
		return norm.NFD, true, nil
	case "NFKC":
		return norm.NFKC, true, nil
	case "NFKD":
		return norm.NFKD, true, nil
	}
	return 0, false, fmt.Errorf("%w: unknown normalization form %q", ErrInvalid, c.Normalize)
}
