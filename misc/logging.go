package misc

import "github.com/BrugadaSyndrome/bslogger"

// NewLogger names a component logger. Verbose loggers include debug output.
func NewLogger(name string, verbose bool) bslogger.Logger {
	if verbose {
		return bslogger.NewLogger(name, bslogger.All, nil)
	}
	return bslogger.NewLogger(name, bslogger.Normal, nil)
}
