package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/unicode/norm"

	"github.com/KasperOmsK/textpipe/charset"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "textpipe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Charset != "UTF-8" {
		t.Errorf("Charset = %q, want %q", cfg.Charset, "UTF-8")
	}
	if cfg.Policy != "replace" {
		t.Errorf("Policy = %q, want %q", cfg.Policy, "replace")
	}
	if cfg.ChunkSize != 8192 {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, 8192)
	}
	if cfg.Delimiter != `\r?\n` {
		t.Errorf("Delimiter = %q, want %q", cfg.Delimiter, `\r?\n`)
	}
	if cfg.Engine != EngineRE2 {
		t.Errorf("Engine = %q, want %q", cfg.Engine, EngineRE2)
	}
	if cfg.OutputSeparator != "\n" {
		t.Errorf("OutputSeparator = %q, want %q", cfg.OutputSeparator, "\n")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
charset: latin1
policy: report
delimiter: ","
limit: -1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Charset != "latin1" {
		t.Errorf("Charset = %q, want %q", cfg.Charset, "latin1")
	}
	if cfg.Delimiter != "," {
		t.Errorf("Delimiter = %q, want %q", cfg.Delimiter, ",")
	}
	if cfg.Limit != -1 {
		t.Errorf("Limit = %d, want %d", cfg.Limit, -1)
	}
	// Untouched fields keep their defaults.
	if cfg.ChunkSize != 8192 {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, 8192)
	}

	codec, err := cfg.Codec()
	if err != nil {
		t.Fatalf("Codec failed: %v", err)
	}
	if codec.Charset.Name() != "ISO-8859-1" || codec.Policy != charset.Report {
		t.Errorf("Codec = %v, want ISO-8859-1/report", codec)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEXTPIPE_TEST_CHARSET", "UTF-16LE")

	path := writeConfig(t, `
charset: ${TEXTPIPE_TEST_CHARSET}
chunk_size: ${TEXTPIPE_TEST_UNSET:-512}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Charset != "UTF-16LE" {
		t.Errorf("Charset = %q, want %q", cfg.Charset, "UTF-16LE")
	}
	if cfg.ChunkSize != 512 {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, 512)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "charset: [unterminated"},
		{"unknown charset", "charset: klingon"},
		{"unknown policy", "policy: ignore"},
		{"bad chunk size", "chunk_size: 0"},
		{"bad delimiter", "delimiter: \"(\""},
		{"unknown engine", "engine: pcre"},
		{"unknown normalization", "normalize: NFX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestPattern_Engines(t *testing.T) {
	tests := []struct {
		engine, delimiter string
	}{
		{EngineRE2, `\s+`},
		{EngineRegexp2, `(?<=a)b`},
		{EngineLiteral, "(("},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Engine, cfg.Delimiter = tt.engine, tt.delimiter
		if _, err := cfg.Pattern(); err != nil {
			t.Errorf("Pattern(%s, %q) = %v, want nil", tt.engine, tt.delimiter, err)
		}
	}
}

func TestNormForm(t *testing.T) {
	cfg := Default()
	if _, ok, err := cfg.NormForm(); ok || err != nil {
		t.Errorf("NormForm() = %v, %v, want no form", ok, err)
	}

	cfg.Normalize = "nfkc"
	f, ok, err := cfg.NormForm()
	if err != nil || !ok || f != norm.NFKC {
		t.Errorf("NormForm() = %v, %v, %v, want NFKC", f, ok, err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "real")
	t.Setenv("EMPTY_VAR", "")

	tests := []struct {
		in, want string
	}{
		{"value: ${TEST_VAR}", "value: real"},
		{"value: ${UNSET_VAR_12345}", "value: "},
		{"value: ${UNSET_VAR_12345:-fallback}", "value: fallback"},
		{"value: ${TEST_VAR:-fallback}", "value: real"},
		{"value: ${EMPTY_VAR:-fallback}", "value: fallback"},
		{"value: $TEST_VAR", "value: $TEST_VAR"},
	}

	for _, tt := range tests {
		if got := ExpandEnv(tt.in); got != tt.want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
