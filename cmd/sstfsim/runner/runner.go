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

package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/controller"
	"github.com/sstfsched/sstf/pkg/iosched/devicequeue"
	"github.com/sstfsched/sstf/pkg/iosched/metrics"
	"github.com/sstfsched/sstf/pkg/iosched/server"
	"github.com/sstfsched/sstf/pkg/iosched/trace"
	"github.com/sstfsched/sstf/version"
)

var setupLog = ctrl.Log.WithName("setup")

// Runner replays a request trace through the scheduler and reports the resulting dispatch order.
type Runner struct {
	clock clock.WithDelayedExecution
	out   io.Writer
	fs    *pflag.FlagSet
	args  []string
}

func NewRunner() *Runner {
	return &Runner{
		clock: clock.RealClock{},
		out:   os.Stdout,
		fs:    pflag.CommandLine,
		args:  os.Args[1:],
	}
}

// WithArgs parses args with a private FlagSet instead of the process command line.
func (r *Runner) WithArgs(args ...string) *Runner {
	r.fs = pflag.NewFlagSet("sstfsim", pflag.ContinueOnError)
	r.args = args
	return r
}

func (r *Runner) WithOutput(out io.Writer) *Runner {
	r.out = out
	return r
}

func (r *Runner) Run(ctx context.Context) error {
	opts := server.NewOptions()
	opts.AddFlags(r.fs)
	// Load env vars as "soft" overrides
	if err := opts.BindEnv(); err != nil {
		setupLog.Error(err, "Failed to bind environment variables")
		return err
	}
	if err := r.fs.Parse(r.args); err != nil {
		setupLog.Error(err, "Failed to parse flags")
		return err
	}
	if err := opts.Complete(); err != nil {
		setupLog.Error(err, "Failed to complete options")
		return err
	}
	if err := opts.Validate(); err != nil {
		setupLog.Error(err, "Failed to validate flags")
		return err
	}
	logging.InitLogging(&opts.ZapOptions, 0)

	setupLog.Info("sstfsim build", "commit-sha", version.CommitSHA, "build-ref", version.BuildRef)

	// Print all flag values
	flags := make(map[string]any)
	r.fs.VisitAll(func(f *pflag.Flag) {
		flags[f.Name] = f.Value
	})
	setupLog.Info("Flags processed", "flags", flags)

	metrics.Register()
	metrics.RecordBuildInfo(version.CommitSHA, version.BuildRef)

	cfg, err := opts.SchedulerConfig(setupLog)
	if err != nil {
		setupLog.Error(err, "Failed to build scheduler configuration")
		return err
	}
	tr, err := opts.Trace()
	if err != nil {
		setupLog.Error(err, "Failed to load trace")
		return err
	}

	disk := devicequeue.NewDisk(cfg.InitialSector, r.clock)
	q, err := devicequeue.New(cfg, disk,
		controller.WithLogger(ctrl.Log.WithName("scheduler")),
		controller.WithTimerService(contracts.NewClockTimerService(r.clock)))
	if err != nil {
		setupLog.Error(err, "Failed to create device queue")
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error { return q.Run(runCtx) })
	if opts.MetricsPort > 0 {
		metricsServer, err := opts.NewMetricsServer(setupLog)
		if err != nil {
			setupLog.Error(err, "Failed to create metrics server")
			return err
		}
		g.Go(func() error { return metricsServer.Start(runCtx) })
	}
	g.Go(func() error {
		defer stop()
		return r.replay(log.IntoContext(runCtx, ctrl.Log.WithName("replay")), tr, q, opts)
	})

	if err := g.Wait(); err != nil {
		setupLog.Error(err, "Simulation failed")
		return err
	}
	return r.report(opts, cfg, tr, disk, q.Stats())
}

// replay submits the trace, waits for the queue to drain, and closes it.
func (r *Runner) replay(ctx context.Context, tr *trace.Trace, q *devicequeue.DeviceQueue, opts *server.Options) error {
	n, err := trace.Replay(ctx, tr, q, r.clock)
	if err != nil {
		return fmt.Errorf("replay stopped after %d of %d requests: %w", n, len(tr.Events), err)
	}

	drainCtx, cancel := context.WithTimeout(ctx, opts.DrainTimeout)
	defer cancel()
	if err := q.WaitIdle(drainCtx); err != nil {
		return err
	}
	return q.Close()
}
