// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a minimal logging interface so components don't depend on a
// concrete logging implementation.
type Logger interface {
	Debug(msg string, keyValuePairs ...any)
	Info(msg string, keyValuePairs ...any)
	Warn(msg string, keyValuePairs ...any)
	Error(msg string, keyValuePairs ...any)
}

type logrusAdapter struct {
	logger *logrus.Logger
}

// New creates a Logger backed by logrus writing to stderr.
func New(debug bool) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return &logrusAdapter{logger: l}
}

// NewNop creates a Logger that discards everything. Intended for tests.
func NewNop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusAdapter{logger: l}
}

func (a *logrusAdapter) Debug(msg string, keyValuePairs ...any) {
	a.logger.WithFields(keyValuePairsToFields(keyValuePairs)).Debug(msg)
}

func (a *logrusAdapter) Info(msg string, keyValuePairs ...any) {
	a.logger.WithFields(keyValuePairsToFields(keyValuePairs)).Info(msg)
}

func (a *logrusAdapter) Warn(msg string, keyValuePairs ...any) {
	a.logger.WithFields(keyValuePairsToFields(keyValuePairs)).Warn(msg)
}

func (a *logrusAdapter) Error(msg string, keyValuePairs ...any) {
	a.logger.WithFields(keyValuePairsToFields(keyValuePairs)).Error(msg)
}

func keyValuePairsToFields(keyValuePairs []any) logrus.Fields {
	fields := make(logrus.Fields, len(keyValuePairs)/2)
	for i := 0; i < len(keyValuePairs)-1; i += 2 {
		key, ok := keyValuePairs[i].(string)
		if !ok {
			continue
		}
		fields[key] = keyValuePairs[i+1]
	}
	return fields
}
