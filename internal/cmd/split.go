package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/KasperOmsK/textpipe"
)

// SplitCommand returns the split command. Segments are written one per
// output separator.
func SplitCommand() *cli.Command {
	flags := append(InputFlags(), SegmentFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "delimiter",
			Aliases: []string{"d"},
			Usage:   "Delimiter pattern (default \\r?\\n)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of segments; 0 drops trailing empty segments, negative keeps them",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Delimiter engine: re2, regexp2, literal",
		},
		&cli.StringFlag{
			Name:  "separator",
			Usage: "Written after each segment (default newline)",
		},
		&cli.BoolFlag{
			Name:  "count",
			Usage: "Collapse runs of equal segments into a count and the segment",
		},
	)

	return &cli.Command{
		Name:      "split",
		Usage:     "Split decoded text on a delimiter pattern",
		ArgsUsage: "[FILE...]",
		Flags:     flags,
		Action:    splitAction,
	}
}

type segmentCount struct {
	text string
	n    int
}

func splitAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.close()

	pat, err := s.cfg.Pattern()
	if err != nil {
		return exitError(err)
	}

	segments := each(s, func(in input) textpipe.Pipe[string] {
		return textpipe.SplitPattern(s.text(c, in, s.codec), pat, s.cfg.Limit)
	})
	segments = shape(c, segments, func(seg string) string { return seg },
		func(seg, text string) string { return text })

	if c.Bool("count") {
		counts := textpipe.GroupByAggregate(segments,
			func(seg string) string { return seg },
			func(first string) segmentCount { return segmentCount{text: first} },
			func(acc *segmentCount, _ string) { acc.n++ })
		segments = textpipe.Map(counts, func(sc segmentCount) string {
			return fmt.Sprintf("%d\t%s", sc.n, sc.text)
		})
	}

	segments = textpipe.Logged(segments, s.logger, "split")
	return exitError(writeStrings(c.App.Writer, segments, s.cfg.OutputSeparator))
}

// LinesCommand returns the lines command. It writes each line of the
// decoded input with its number.
func LinesCommand() *cli.Command {
	return &cli.Command{
		Name:      "lines",
		Usage:     "Number the lines of decoded text",
		ArgsUsage: "[FILE...]",
		Flags:     append(InputFlags(), SegmentFlags()...),
		Action:    linesAction,
	}
}

func linesAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.close()

	lines := each(s, func(in input) textpipe.Pipe[textpipe.Line] {
		return textpipe.ByLine(s.text(c, in, s.codec))
	})
	lines = shape(c, lines, func(l textpipe.Line) string { return l.Text },
		func(l textpipe.Line, text string) textpipe.Line { l.Text = text; return l })

	out := textpipe.Map(lines, func(l textpipe.Line) string {
		return fmt.Sprintf("%d\t%s", l.Number, l.Text)
	})
	out = textpipe.Logged(out, s.logger, "lines")
	return exitError(writeStrings(c.App.Writer, out, "\n"))
}

// shape applies --trim and --skip-empty to the text of each value.
func shape[T any](c *cli.Context, p textpipe.Pipe[T], text func(T) string, with func(T, string) T) textpipe.Pipe[T] {
	if c.Bool("trim") {
		p = textpipe.Map(p, func(v T) T { return with(v, strings.TrimSpace(text(v))) })
	}
	if c.Bool("skip-empty") {
		p = textpipe.Filter(p, func(v T) bool { return text(v) != "" })
	}
	return p
}
