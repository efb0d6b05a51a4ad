package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/KasperOmsK/textpipe"
	"github.com/KasperOmsK/textpipe/charset"
)

// DecodeCommand returns the decode command. It writes its inputs as UTF-8.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode input bytes to UTF-8 text",
		ArgsUsage: "[FILE...]",
		Flags:     InputFlags(),
		Action:    decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.close()

	text := each(s, func(in input) textpipe.Pipe[string] {
		return s.text(c, in, s.codec)
	})
	return exitError(writeStrings(c.App.Writer, text, ""))
}

// EncodeCommand returns the encode command. It reads UTF-8 text and writes
// it in the charset given by --charset.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode UTF-8 text to another charset",
		ArgsUsage: "[FILE...]",
		Flags:     InputFlags(),
		Action:    encodeAction,
	}
}

func encodeAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.close()

	source := charset.MustLookup("UTF-8").WithPolicy(s.codec.Policy)
	out := each(s, func(in input) textpipe.Pipe[[]byte] {
		return textpipe.EncodeWith(s.text(c, in, source), s.codec)
	})
	return exitError(writeBytes(c.App.Writer, out))
}
