package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Exit codes follow the BSD sysexits conventions the way the rest of our
// deploy tooling expects them: 66 for missing input, 67 for rejected
// credentials, 78 for invalid configuration.
const (
	exOK      = 0
	exNoInput = 66
	exNoUser  = 67
	exConfig  = 78
)

// fatalError carries the exit code for errors that should terminate the
// whole invocation. Everything else bubbles up as a plain error and exits 1.
type fatalError struct {
	code int
	msg  string
}

func (e *fatalError) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &fatalError{code: exConfig, msg: fmt.Sprintf(format, args...)}
}

func inputErrorf(format string, args ...any) error {
	return &fatalError{code: exNoInput, msg: fmt.Sprintf(format, args...)}
}

func accessErrorf(format string, args ...any) error {
	return &fatalError{code: exNoUser, msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exOK
	}
	var fe *fatalError
	if errors.As(err, &fe) {
		return fe.code
	}
	return 1
}

// setupLogging sends normal status output to stdout and keeps fatal
// messages on stderr. Quiet mode suppresses everything non-fatal; exit
// codes are never suppressed.
func setupLogging(quiet bool) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
	if quiet {
		log.SetLevel(log.ErrorLevel)
	}
}

// die prints a fatal error on stderr, bypassing the quiet filter, and
// returns the exit status for main to use.
func die(err error) int {
	fmt.Fprintln(os.Stderr, err.Error())
	return exitCode(err)
}
