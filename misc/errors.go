package misc

import (
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

// CheckError logs err at the given severity and reports whether there was one.
// Fatal exits the process.
func CheckError(err error, logger bslogger.Logger, severity Severity) bool {
	if err == nil {
		return false
	}
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
	return true
}

// CheckErrorf is CheckError with a context prefix in front of the error text.
func CheckErrorf(err error, logger bslogger.Logger, severity Severity, format string, values ...interface{}) bool {
	if err == nil {
		return false
	}
	return CheckError(fmt.Errorf("%s: %w", fmt.Sprintf(format, values...), err), logger, severity)
}
