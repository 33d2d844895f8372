/*
Copyright 2025 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logging

import (
	"context"
	"os"

	"github.com/go-logr/logr"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// atomicLevel is shared between InitSetupLogging and InitLogging so the log
// level can be adjusted after the controller-runtime delegation is fulfilled.
var atomicLevel = uberzap.NewAtomicLevelAt(zapcore.InfoLevel)

// InitSetupLogging installs a process-wide logger so that setup code can log before flags are parsed.
func InitSetupLogging() {
	logger := zap.New(zap.Level(atomicLevel), zap.RawZapOpts(uberzap.AddCaller()))
	ctrl.SetLogger(logger)
}

// InitLogging applies the parsed zap options. A verbosity greater than zero overrides the level carried in opts.
func InitLogging(opts *zap.Options, verbosity int) {
	if verbosity > 0 {
		atomicLevel.SetLevel(zapcore.Level(int8(-1 * verbosity)))
		return
	}
	if opts.Level != nil {
		switch lvl := opts.Level.(type) {
		case uberzap.AtomicLevel:
			atomicLevel.SetLevel(lvl.Level())
		case zapcore.Level:
			atomicLevel.SetLevel(lvl)
		}
	}
}

// NewTestLogger creates a new Zap logger using the dev mode.
func NewTestLogger() logr.Logger {
	return zap.New(
		zap.UseDevMode(true),
		zap.Level(uberzap.NewAtomicLevelAt(zapcore.Level(-1*TRACE))),
		zap.RawZapOpts(uberzap.AddCaller()),
	)
}

// NewTestLoggerIntoContext creates a new Zap logger using the dev mode and inserts it into the given context.
func NewTestLoggerIntoContext(ctx context.Context) context.Context {
	return log.IntoContext(ctx, NewTestLogger())
}

// Fatal calls logger.Error followed by os.Exit(1).
//
// This is a utility function and should not be used in library code!
func Fatal(logger logr.Logger, err error, msg string, keysAndValues ...any) {
	logger.Error(err, msg, keysAndValues...)
	os.Exit(1)
}
