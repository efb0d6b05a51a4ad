package cmd

import (
	"bufio"
	"io"
	"iter"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/KasperOmsK/textpipe"
	"github.com/KasperOmsK/textpipe/internal/frames"
)

// outputBatch is the number of values written between flushes.
const outputBatch = 256

// input is one command argument, opened when its pipe is first ranged over.
type input struct {
	name string
	open func() (io.ReadCloser, error)
}

// inputs returns the command's file arguments. No arguments, or "-", read
// the app's stdin.
func inputs(c *cli.Context) []input {
	stdin := input{
		name: "-",
		open: func() (io.ReadCloser, error) { return io.NopCloser(c.App.Reader), nil },
	}
	if c.NArg() == 0 {
		return []input{stdin}
	}

	ins := make([]input, 0, c.NArg())
	for _, name := range c.Args().Slice() {
		if name == "-" {
			ins = append(ins, stdin)
			continue
		}
		path := name
		ins = append(ins, input{
			name: path,
			open: func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}
	return ins
}

// chunks returns the bytes of in. Recorded inputs keep their chunk
// boundaries; plain inputs are read size bytes at a time.
func (in input) chunks(size int, framed bool) textpipe.Pipe[[]byte] {
	return textpipe.FromResults(func(yield func([]byte, error) bool) {
		rc, err := in.open()
		if err != nil {
			yield(nil, err)
			return
		}
		defer rc.Close()

		var seq iter.Seq2[[]byte, error]
		if framed {
			seq = frames.Chunks(rc)
		} else {
			seq = textpipe.FromReader(rc, size).All()
		}
		for data, err := range seq {
			if !yield(data, err) || err != nil {
				return
			}
		}
	})
}

// combine joins the per-input pipes, in argument order or concurrently.
func combine[T any](pipes []textpipe.Pipe[T], parallel bool) textpipe.Pipe[T] {
	if parallel {
		return textpipe.Merge(pipes...)
	}
	return textpipe.Concat(pipes...)
}

// writeStrings writes every value of p followed by sep. Values produced
// before an error are written before it is returned.
func writeStrings(w io.Writer, p textpipe.Pipe[string], sep string) error {
	bw := bufio.NewWriter(w)
	for batch, err := range textpipe.Chunk(p, outputBatch).All() {
		if err != nil {
			_ = bw.Flush()
			return err
		}
		for _, s := range batch {
			if _, err := bw.WriteString(s); err != nil {
				return err
			}
			if _, err := bw.WriteString(sep); err != nil {
				return err
			}
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeBytes writes every chunk of p.
func writeBytes(w io.Writer, p textpipe.Pipe[[]byte]) error {
	bw := bufio.NewWriter(w)
	for data, err := range p.All() {
		if err != nil {
			_ = bw.Flush()
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
	}
	return bw.Flush()
}
