package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/KasperOmsK/textpipe/charset"
	"github.com/KasperOmsK/textpipe/internal/config"
)

// Exit codes.
const (
	ExitGeneral   = 1
	ExitBadInput  = 2
	ExitBadConfig = 3
)

// exitError maps err to a cli.Exit error carrying its exit code.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, config.ErrInvalid):
		return cli.Exit(err.Error(), ExitBadConfig)
	case charset.IsMalformed(err), charset.IsUnmappable(err):
		return cli.Exit(err.Error(), ExitBadInput)
	}
	return cli.Exit(err.Error(), ExitGeneral)
}
