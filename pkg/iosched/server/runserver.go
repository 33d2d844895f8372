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

// Package server holds the command-line options and HTTP endpoints of the simulator.
package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/sstfsched/sstf/internal/runnable"
	inttls "github.com/sstfsched/sstf/internal/tls"
	"github.com/sstfsched/sstf/pkg/common/observability/profiling"
)

// NewMetricsHandler serves the controller-runtime metrics registry on /metrics and, if enablePprof is set, the runtime
// profiles under /debug/pprof/.
func NewMetricsHandler(enablePprof bool) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	if enablePprof {
		profiling.SetupPprofHandlers(mux)
	}
	return mux
}

// NewMetricsServer returns a runnable serving `NewMetricsHandler` on the configured metrics port.
func (opts *Options) NewMetricsServer(logger logr.Logger) (manager.Runnable, error) {
	srv := &http.Server{
		Handler:           NewMetricsHandler(opts.EnablePprof),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if opts.SecureServing {
		cert, err := inttls.CreateSelfSignedTLSCertificate(logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create self signed certificate - %w", err)
		}
		srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	}
	return runnable.HTTPServer("metrics", srv, fmt.Sprintf(":%d", opts.MetricsPort)), nil
}
