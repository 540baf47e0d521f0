package misc

import (
	"errors"
	"fmt"

	"github.com/BrugadaSyndrome/bslogger"
)

const (
	Fatal Severity = iota
	Error
	Warning
	Info
	Debug
)

type Severity int

func (s Severity) String() string {
	return []string{
		"Fatal", "Error", "Warning", "Info", "Debug",
	}[s]
}

// ErrConfiguration is matched by every ConfigError.
var ErrConfiguration = errors.New("configuration error")

// ConfigError reports a parameter that cannot be used as given.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Reason    string
}

func NewConfigError(parameter string, value interface{}, reason string) *ConfigError {
	return &ConfigError{Parameter: parameter, Value: value, Reason: reason}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v %s", ErrConfiguration, e.Parameter, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func CheckError(err error, logger bslogger.Logger, severity Severity) {
	if err != nil {
		switch severity {
		case Fatal:
			logger.Fatal(err.Error())
		case Error:
			logger.Error(err.Error())
		case Warning:
			logger.Warning(err.Error())
		case Info:
			logger.Info(err.Error())
		case Debug:
			logger.Debug(err.Error())
		default:
			logger.Fatal(err.Error())
		}
	}
}
