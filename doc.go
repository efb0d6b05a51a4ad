/*
Package textpipe provides streaming, chunk-boundary independent text
operators on top of composable iter.Seq2 pipelines.

This package is built around the concept of Pipes, a Pipe[T] represents
a lazily-evaluated stream of values of type T that may end with an error.
Values are only produced when the Pipe is iterated, making all pipelines
demand-driven. Each iteration is its own subscription with its own state.

The text operators are stateful: Decode holds back the bytes of a character
split across two chunks, and Split holds back text that may still turn into
a delimiter match. Their output is the same for every way the input is cut
into chunks.

The first error ends a Pipe. It reaches the consumer as a *PipelineError
naming the failing stage; errors.As finds the cause, for example a
*charset.MalformedSequenceError.

Example of a simple pipeline:

	f, _ := os.Open("access.log")
	defer f.Close()

	// Read raw chunks; boundaries may fall anywhere, even inside a character.
	chunks := textpipe.FromReader(f, textpipe.DefaultChunkSize)

	// Decode UTF-8, failing on malformed input instead of replacing it.
	codec, _ := charset.NewCodec("UTF-8", charset.Report)
	text := textpipe.DecodeWith(chunks, codec)

	// Cut into lines and keep the interesting ones.
	lines := textpipe.Split(text, `\r?\n`)
	errs := textpipe.Filter(lines, func(l string) bool {
		return strings.Contains(l, " 500 ")
	})

	for line, err := range errs.All() {
		if err != nil {
			var me *charset.MalformedSequenceError
			if errors.As(err, &me) {
				log.Printf("bad input at byte %d", me.Offset)
			}
			return err
		}
		fmt.Println(line)
	}

Stopping the iteration early stops every stage, down to the reader.
*/
package textpipe
