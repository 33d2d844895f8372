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

package server

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/config/loader"
	"github.com/sstfsched/sstf/pkg/iosched/controller"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/selection"
	"github.com/sstfsched/sstf/pkg/iosched/trace"
)

const (
	DefaultMetricsPort  = 9090
	ZapLogLevelFlagName = "zap-log-level"
)

// Options contains configuration values necessary to run the simulator.
type Options struct {
	//
	// Scheduler. Flags override the configuration file when set explicitly.
	//
	DeviceName     string        // Device name used in logs and metrics.
	Delay          time.Duration // Anticipation window.
	Queue          string        // Registered direction queue implementation.
	Selector       string        // Registered dispatch selector.
	InitialSector  uint64        // Initial head position.
	InitialProcess int32         // Process treated as active before the first dispatch.
	//
	// Workload.
	//
	TraceFile          string        // Path to a YAML trace. If empty, a synthetic trace is generated.
	Processes          int           // Synthetic trace: number of sequential readers.
	RequestsPerProcess int           // Synthetic trace: requests per reader.
	MaxSector          uint64        // Synthetic trace: upper bound of the readers' start sectors.
	Stride             uint64        // Synthetic trace: sectors between consecutive requests of a reader.
	Interval           time.Duration // Synthetic trace: time between consecutive requests of a reader.
	Seed               int64         // Synthetic trace: random seed.
	DrainTimeout       time.Duration // Upper bound on the wait for the queue to drain after replay.
	PrintOrder         bool          // Print every dispatched request, not just the summary.
	//
	// Diagnostics.
	//
	LogVerbosity  int         // Number for the log level verbosity.
	ZapOptions    zap.Options // Zap logging options
	MetricsPort   int         // The metrics port. 0 disables the metrics server.
	EnablePprof   bool        // Enables pprof handlers on the metrics port.
	SecureServing bool        // Serves metrics over TLS with a self-signed certificate.
	//
	// Configuration.
	//
	ConfigFile string // The path to the scheduler configuration file.
	ConfigText string // The scheduler configuration specified as text, in lieu of a file.

	// internal
	fs *pflag.FlagSet // FlagSet used in AddFlags() and consulted in Complete()
}

// NewOptions returns a new Options struct initialized with the default values.
func NewOptions() *Options {
	return &Options{
		DeviceName:         controller.DefaultDeviceName,
		Delay:              controller.DefaultDelayDuration,
		Queue:              string(controller.DefaultQueueName),
		Selector:           string(controller.DefaultSelectorName),
		Processes:          4,
		RequestsPerProcess: 64,
		MaxSector:          1 << 24,
		Stride:             8,
		Interval:           time.Millisecond,
		Seed:               1,
		DrainTimeout:       30 * time.Second,
		LogVerbosity:       logging.DEFAULT,
		ZapOptions:         zap.Options{Development: true},
		MetricsPort:        DefaultMetricsPort,
		EnablePprof:        true,
	}
}

func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	opts.fs = fs

	fs.StringVar(&opts.DeviceName, "device-name", opts.DeviceName, "Device name used in logs and metrics.")
	fs.DurationVar(&opts.Delay, "delay", opts.Delay,
		"Anticipation window: how long a dispatch that switches to another process is held back.")
	fs.StringVar(&opts.Queue, "queue", opts.Queue, fmt.Sprintf("Direction queue implementation, one of %v.", queue.Names()))
	fs.StringVar(&opts.Selector, "selector", opts.Selector,
		fmt.Sprintf("Dispatch selector, one of %v.", selection.Names()))
	fs.Uint64Var(&opts.InitialSector, "initial-sector", opts.InitialSector, "Initial head position.")
	fs.Int32Var(&opts.InitialProcess, "initial-process", opts.InitialProcess,
		"Process treated as active before the first dispatch.")
	fs.StringVar(&opts.TraceFile, "trace-file", opts.TraceFile,
		"Path to a YAML request trace. If not set, a synthetic trace of sequential readers is generated.")
	fs.IntVar(&opts.Processes, "processes", opts.Processes, "Synthetic trace: number of sequential readers.")
	fs.IntVar(&opts.RequestsPerProcess, "requests-per-process", opts.RequestsPerProcess,
		"Synthetic trace: requests per reader.")
	fs.Uint64Var(&opts.MaxSector, "max-sector", opts.MaxSector, "Synthetic trace: upper bound of the readers' start sectors.")
	fs.Uint64Var(&opts.Stride, "stride", opts.Stride, "Synthetic trace: sectors between consecutive requests of a reader.")
	fs.DurationVar(&opts.Interval, "interval", opts.Interval, "Synthetic trace: time between consecutive requests of a reader.")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "Synthetic trace: random seed.")
	fs.DurationVar(&opts.DrainTimeout, "drain-timeout", opts.DrainTimeout,
		"Upper bound on the wait for all requests to be dispatched after the trace ends.")
	fs.BoolVar(&opts.PrintOrder, "print-order", opts.PrintOrder, "Print every dispatched request, not just the summary.")
	fs.IntVarP(&opts.LogVerbosity, "v", "v", opts.LogVerbosity, "Number for the log level verbosity.") // allow both --v and -v
	gofs := flag.NewFlagSet("zap", flag.ExitOnError)
	opts.ZapOptions.BindFlags(gofs) // zap expects a standard Go FlagSet and pflag.FlagSet is not compatible.
	fs.AddGoFlagSet(gofs)
	fs.IntVar(&opts.MetricsPort, "metrics-port", opts.MetricsPort, "The metrics port. Set to 0 to disable the metrics server.")
	fs.BoolVar(&opts.EnablePprof, "enable-pprof", opts.EnablePprof,
		"Enables pprof handlers on the metrics port. Defaults to true. Set to false to disable pprof handlers.")
	fs.BoolVar(&opts.SecureServing, "secure-serving", opts.SecureServing,
		"Serves the metrics endpoint over TLS with a self-signed certificate.")
	fs.StringVar(&opts.ConfigFile, "config-file", opts.ConfigFile, "The path to the scheduler configuration file.")
	fs.StringVar(&opts.ConfigText, "config-text", opts.ConfigText,
		"The scheduler configuration specified as text, in lieu of a file.")
}

// envToFlags maps environment variables to the flags they set.
var envToFlags = map[string]string{
	"SSTF_DELAY":        "delay",
	"SSTF_QUEUE":        "queue",
	"SSTF_METRICS_PORT": "metrics-port",
	"SSTF_TRACE_FILE":   "trace-file",
}

// BindEnv sets flags from their environment variables. Call it after AddFlags and before parsing, so that command
// line arguments still win.
func (opts *Options) BindEnv() error {
	for env, flg := range envToFlags {
		if v := os.Getenv(env); v != "" {
			// durations & ints work too; Set expects the *string* form
			if err := opts.fs.Set(flg, v); err != nil {
				return fmt.Errorf("invalid value %q for %s: %w", v, env, err)
			}
		}
	}
	return nil
}

func (opts *Options) Complete() error {
	// ensure zap log level is set - explicitly by user or from "-v"
	zapLogLevelFlag := opts.fs.Lookup(ZapLogLevelFlagName)
	if zapLogLevelFlag != nil && !zapLogLevelFlag.Changed { // not set explicitly
		lvl := -1 * (opts.LogVerbosity) // See https://pkg.go.dev/sigs.k8s.io/controller-runtime/pkg/log/zap#Options.Level
		opts.ZapOptions.Level = uberzap.NewAtomicLevelAt(zapcore.Level(int8(lvl)))
		zapLogLevelFlag.Changed = true
	}
	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read config file %q: %w", opts.ConfigFile, err)
		}
		opts.ConfigText = string(data)
	}
	return nil
}

func (opts *Options) Validate() error {
	if opts.ConfigFile != "" && opts.flagChanged("config-text") {
		return fmt.Errorf("both the %q and %q flags can not be set at the same time", "config-text", "config-file")
	}
	if opts.Delay <= 0 {
		return fmt.Errorf("flag %q must be positive, got %s", "delay", opts.Delay)
	}
	if opts.InitialProcess < 0 {
		return fmt.Errorf("flag %q cannot be negative, got %d", "initial-process", opts.InitialProcess)
	}
	if opts.MetricsPort < 0 || opts.MetricsPort > 65535 {
		return fmt.Errorf("invalid port number %d in %q", opts.MetricsPort, "metrics-port")
	}
	if opts.DrainTimeout <= 0 {
		return fmt.Errorf("flag %q must be positive, got %s", "drain-timeout", opts.DrainTimeout)
	}
	if opts.TraceFile == "" {
		if opts.Processes <= 0 || opts.RequestsPerProcess <= 0 {
			return errors.New("synthetic trace needs positive processes and requests-per-process")
		}
		if opts.MaxSector == 0 {
			return fmt.Errorf("flag %q must be positive", "max-sector")
		}
	}
	return nil
}

// SchedulerConfig builds the scheduler configuration: defaults, then the configuration file or text, then any
// scheduler flag set explicitly on the command line or through the environment.
func (opts *Options) SchedulerConfig(logger logr.Logger) (*controller.Config, error) {
	var cfgOpts []controller.ConfigOption
	if opts.ConfigText != "" {
		fileOpts, err := loader.LoadConfig([]byte(opts.ConfigText), logger)
		if err != nil {
			return nil, err
		}
		cfgOpts = append(cfgOpts, fileOpts...)
	}

	changed := opts.flagChanged
	if changed("device-name") {
		cfgOpts = append(cfgOpts, controller.WithDeviceName(opts.DeviceName))
	}
	if changed("delay") {
		cfgOpts = append(cfgOpts, controller.WithDelayDuration(opts.Delay))
	}
	if changed("queue") {
		cfgOpts = append(cfgOpts, controller.WithQueue(queue.RegisteredQueueName(opts.Queue)))
	}
	if changed("selector") {
		cfgOpts = append(cfgOpts, controller.WithSelector(selection.RegisteredSelectorName(opts.Selector)))
	}
	if changed("initial-sector") {
		cfgOpts = append(cfgOpts, controller.WithInitialSector(opts.InitialSector))
	}
	if changed("initial-process") {
		cfgOpts = append(cfgOpts, controller.WithInitialProcess(opts.InitialProcess))
	}
	return controller.NewConfig(cfgOpts...)
}

// flagChanged reports whether the named flag was set explicitly. Options not bound to a FlagSet count every field as
// set.
func (opts *Options) flagChanged(name string) bool {
	return opts.fs == nil || opts.fs.Changed(name)
}

// Trace loads the trace file, or generates a synthetic trace if none is configured.
func (opts *Options) Trace() (*trace.Trace, error) {
	if opts.TraceFile != "" {
		return trace.Load(opts.TraceFile)
	}
	return trace.Synthetic(trace.SyntheticOptions{
		Processes:          opts.Processes,
		RequestsPerProcess: opts.RequestsPerProcess,
		MaxSector:          opts.MaxSector,
		Stride:             opts.Stride,
		Interval:           opts.Interval,
		Seed:               opts.Seed,
	})
}
