package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/KasperOmsK/textpipe"
	"github.com/KasperOmsK/textpipe/internal/frames"
)

// RecordCommand returns the record command. It stores its input as chunk
// frames so that a later --frames run sees the same chunk boundaries.
func RecordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "Record input bytes as chunk frames",
		ArgsUsage: "[FILE...]",
		Flags: []cli.Flag{
			ConfigFlag,
			ChunkSizeFlag,
			VerboseFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write frames to this file instead of stdout",
			},
		},
		Action: recordAction,
	}
}

func recordAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.close()

	var out io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return exitError(err)
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	fw := frames.NewWriter(bw)
	chunks := each(s, func(in input) textpipe.Pipe[[]byte] {
		return textpipe.WithContext(c.Context, in.chunks(s.cfg.ChunkSize, false))
	})

	n := 0
	for data, err := range chunks.All() {
		if err != nil {
			_ = bw.Flush()
			return exitError(err)
		}
		if err := fw.WriteChunk(data); err != nil {
			return exitError(err)
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return exitError(err)
	}
	s.logger.Info("recording complete", zap.Int("frames", n))
	return nil
}
