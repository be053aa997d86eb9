// Package logflags configures per-layer logging for the debugger core.
package logflags

import (
	"errors"
	"io/ioutil"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

var inferior = false
var backtrace = false

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// Inferior returns true if process-control operations should be logged.
func Inferior() bool {
	return inferior
}

// InferiorLogger returns a configured logger for the inferior package's
// process control: launches, breakpoint installs, kills.
func InferiorLogger() *logrus.Entry {
	return makeLogger(inferior, logrus.Fields{"layer": "inferior"})
}

// Backtrace returns true if the stack walker should log its recoverable
// errors.
func Backtrace() bool {
	return backtrace
}

// BacktraceLogger returns a logger for the stack walker.
func BacktraceLogger() *logrus.Entry {
	return makeLogger(backtrace, logrus.Fields{"layer": "backtrace"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets logging flags based on the contents of logstr.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(ioutil.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "inferior"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "inferior":
			inferior = true
		case "backtrace":
			backtrace = true
		}
	}
	return nil
}
