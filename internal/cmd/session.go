package cmd

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/KasperOmsK/textpipe"
	"github.com/KasperOmsK/textpipe/charset"
	"github.com/KasperOmsK/textpipe/internal/config"
	"github.com/KasperOmsK/textpipe/internal/log"
)

// session is the resolved state of one command invocation.
type session struct {
	cfg       *config.Config
	codec     charset.Codec
	form      norm.Form
	normalize bool
	framed    bool
	parallel  bool
	ins       []input
	logger    *zap.Logger
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}
	form, normalize, err := cfg.NormForm()
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:       cfg,
		codec:     codec,
		form:      form,
		normalize: normalize,
		framed:    c.Bool("frames"),
		parallel:  c.Bool("parallel"),
		ins:       inputs(c),
		logger:    log.New(c.App.ErrWriter, c.Bool("verbose")).With(zap.String("command", c.Command.Name)),
	}, nil
}

// text decodes in with the session codec. Cancelling the command context
// stops the read.
func (s *session) text(c *cli.Context, in input, codec charset.Codec) textpipe.Pipe[string] {
	raw := textpipe.WithContext(c.Context, in.chunks(s.cfg.ChunkSize, s.framed))
	text := textpipe.DecodeWith(raw, codec)
	if s.normalize {
		text = textpipe.Normalize(text, s.form)
	}
	return textpipe.Logged(text, s.logger.With(zap.String("input", in.name)), "decode")
}

// each builds one pipe per input and combines them.
func each[T any](s *session, build func(input) textpipe.Pipe[T]) textpipe.Pipe[T] {
	pipes := make([]textpipe.Pipe[T], 0, len(s.ins))
	for _, in := range s.ins {
		pipes = append(pipes, build(in))
	}
	return combine(pipes, s.parallel)
}

func (s *session) close() {
	_ = s.logger.Sync()
}
