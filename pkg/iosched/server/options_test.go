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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/controller"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/metrics"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

func parseOptions(t *testing.T, args ...string) (*Options, error) {
	t.Helper()
	fs := pflag.NewFlagSet(t.Name(), pflag.ContinueOnError)
	opts := NewOptions()
	opts.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	if err := opts.Complete(); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{name: "Defaults"},
		{name: "Trace file skips synthetic checks", args: []string{"--trace-file", "t.yaml", "--processes", "0"}},
		{name: "Zero delay", args: []string{"--delay", "0s"}, expectError: true},
		{name: "Negative initial process", args: []string{"--initial-process", "-2"}, expectError: true},
		{name: "Port out of range", args: []string{"--metrics-port", "70000"}, expectError: true},
		{name: "Metrics disabled", args: []string{"--metrics-port", "0"}},
		{name: "No synthetic processes", args: []string{"--processes", "0"}, expectError: true},
		{name: "No synthetic requests", args: []string{"--requests-per-process", "0"}, expectError: true},
		{name: "Zero max sector", args: []string{"--max-sector", "0"}, expectError: true},
		{name: "Zero drain timeout", args: []string{"--drain-timeout", "0s"}, expectError: true},
		{name: "Missing config file", args: []string{"--config-file", "/does/not/exist.yaml"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptions(t, tt.args...)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOptions_ConfigFileAndTextConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delay: 7ms\n"), 0o600))

	_, err := parseOptions(t, "--config-file", path, "--config-text", "delay: 3ms")
	assert.Error(t, err)

	opts, err := parseOptions(t, "--config-file", path)
	require.NoError(t, err)
	assert.Equal(t, "delay: 7ms\n", opts.ConfigText)
}

func TestOptions_SchedulerConfig(t *testing.T) {
	logger := logging.NewTestLogger()

	t.Run("FlagsOverrideConfigText", func(t *testing.T) {
		opts, err := parseOptions(t,
			"--config-text", "{delay: 7ms, queue: BTreeQueue, initialSector: 64, initialProcess: 3}",
			"--delay", "2ms", "--device-name", "nvme0")
		require.NoError(t, err)
		cfg, err := opts.SchedulerConfig(logger)
		require.NoError(t, err)
		want := &controller.Config{
			DeviceName:     "nvme0",
			DelayDuration:  2 * time.Millisecond,
			QueueName:      queue.BTreeQueueName,
			SelectorName:   controller.DefaultSelectorName,
			InitialSector:  64,
			InitialProcess: 3,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("SchedulerConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("UnsetFlagsKeepDefaults", func(t *testing.T) {
		opts, err := parseOptions(t)
		require.NoError(t, err)
		cfg, err := opts.SchedulerConfig(logger)
		require.NoError(t, err)
		assert.Equal(t, int32(os.Getpid()), cfg.InitialProcess)
		assert.Equal(t, controller.DefaultQueueName, cfg.QueueName)
	})

	t.Run("InvalidConfigText", func(t *testing.T) {
		opts, err := parseOptions(t, "--config-text", "queue: Nope")
		require.NoError(t, err)
		_, err = opts.SchedulerConfig(logger)
		assert.Error(t, err)
	})

	t.Run("UnknownQueueFlag", func(t *testing.T) {
		opts, err := parseOptions(t, "--queue", "Nope")
		require.NoError(t, err)
		cfg, err := opts.SchedulerConfig(logger)
		require.NoError(t, err, "names are resolved when the scheduler is created")
		_, err = controller.New(cfg, &sync.Mutex{}, contracts.DeviceDriverFunc(func(types.DiskRequest) {}))
		assert.ErrorIs(t, err, types.ErrAllocationFailure)
	})
}

func TestOptions_BindEnv(t *testing.T) {
	t.Setenv("SSTF_DELAY", "9ms")
	t.Setenv("SSTF_QUEUE", "BTreeQueue")

	fs := pflag.NewFlagSet(t.Name(), pflag.ContinueOnError)
	opts := NewOptions()
	opts.AddFlags(fs)
	require.NoError(t, opts.BindEnv())
	require.NoError(t, fs.Parse([]string{"--queue", "ListQueue"}))

	assert.Equal(t, 9*time.Millisecond, opts.Delay)
	assert.Equal(t, "ListQueue", opts.Queue, "command line arguments win over the environment")

	t.Setenv("SSTF_METRICS_PORT", "not-a-port")
	assert.Error(t, opts.BindEnv())
}

func TestOptions_Trace(t *testing.T) {
	opts, err := parseOptions(t, "--processes", "2", "--requests-per-process", "3")
	require.NoError(t, err)
	tr, err := opts.Trace()
	require.NoError(t, err)
	assert.Len(t, tr.Events, 6)

	opts, err = parseOptions(t, "--trace-file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	_, err = opts.Trace()
	assert.Error(t, err)
}

func TestNewMetricsHandler(t *testing.T) {
	metrics.Register()
	metrics.RecordDeferral("sda")

	handler := NewMetricsHandler(false)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sstf_anticipation_deferrals_total")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/heap", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "pprof must be off when disabled")

	rec = httptest.NewRecorder()
	NewMetricsHandler(true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/heap?debug=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptions_NewMetricsServer(t *testing.T) {
	opts, err := parseOptions(t, "--secure-serving", "--metrics-port", "0")
	require.NoError(t, err)
	assert.True(t, opts.SecureServing)

	srv, err := opts.NewMetricsServer(logging.NewTestLogger())
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
