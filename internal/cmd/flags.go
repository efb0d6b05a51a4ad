// Package cmd provides the commands of the textpipe binary.
package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/KasperOmsK/textpipe/internal/config"
)

// Shared flags. Values given on the command line override the config file.
var (
	// ConfigFlag points at a textpipe.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file",
		EnvVars: []string{"TEXTPIPE_CONFIG"},
	}

	// CharsetFlag names the charset of the input, or of the output for encode.
	CharsetFlag = &cli.StringFlag{
		Name:  "charset",
		Usage: "Charset name or alias (default UTF-8)",
	}

	// ReportFlag makes malformed or unmappable input fail the command.
	ReportFlag = &cli.BoolFlag{
		Name:  "report",
		Usage: "Fail on malformed or unmappable input instead of substituting",
	}

	// ChunkSizeFlag sets the read size in bytes.
	ChunkSizeFlag = &cli.IntFlag{
		Name:  "chunk-size",
		Usage: "Bytes per read (default 8192)",
	}

	// FramesFlag replays inputs written by the record command.
	FramesFlag = &cli.BoolFlag{
		Name:  "frames",
		Usage: "Read inputs as recorded chunk frames",
	}

	// ParallelFlag processes inputs concurrently. Output order across inputs
	// is then unspecified.
	ParallelFlag = &cli.BoolFlag{
		Name:  "parallel",
		Usage: "Process inputs concurrently",
	}

	// NormalizeFlag applies a Unicode normalization form to decoded text.
	NormalizeFlag = &cli.StringFlag{
		Name:  "normalize",
		Usage: "Unicode normalization: NFC, NFD, NFKC, NFKD",
	}

	// VerboseFlag logs every value at debug level.
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every stream value to stderr",
	}
)

// InputFlags returns the flags shared by the commands that read text.
func InputFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		CharsetFlag,
		ReportFlag,
		ChunkSizeFlag,
		FramesFlag,
		ParallelFlag,
		NormalizeFlag,
		VerboseFlag,
	}
}

// SegmentFlags returns the flags for the commands that emit segments.
func SegmentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "skip-empty",
			Usage: "Drop empty segments",
		},
		&cli.BoolFlag{
			Name:  "trim",
			Usage: "Trim surrounding white space from each segment",
		},
	}
}

// loadConfig reads the config file, if any, and applies the flags set on
// the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("charset") {
		cfg.Charset = c.String("charset")
	}
	if c.IsSet("report") {
		cfg.Policy = "replace"
		if c.Bool("report") {
			cfg.Policy = "report"
		}
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("normalize") {
		cfg.Normalize = c.String("normalize")
	}
	if c.IsSet("delimiter") {
		cfg.Delimiter = c.String("delimiter")
	}
	if c.IsSet("limit") {
		cfg.Limit = c.Int("limit")
	}
	if c.IsSet("engine") {
		cfg.Engine = c.String("engine")
	}
	if c.IsSet("separator") {
		cfg.OutputSeparator = c.String("separator")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
