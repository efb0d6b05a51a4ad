package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Version is the textpipe release.
const Version = "0.1.0"

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "textpipe %s (commit: %s)\n", Version, commit)
			return err
		},
	}
}

// Commands returns every textpipe command.
func Commands(commit string) []*cli.Command {
	return []*cli.Command{
		DecodeCommand(),
		EncodeCommand(),
		SplitCommand(),
		LinesCommand(),
		RecordCommand(),
		VersionCommand(commit),
	}
}
