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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sstfsched/sstf/pkg/iosched/trace"
)

func TestRunner_TraceFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := NewRunner().
		WithArgs("--trace-file", "testdata/two-readers.yaml", "--initial-sector", "1000", "--initial-process", "7",
			"--metrics-port", "0", "--print-order", "--delay", "2ms").
		WithOutput(&out).
		Run(ctx)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "two-readers (4 requests)")
	assert.Regexp(t, `dispatched:\s+4\n`, report)
	// 1000 -> 1200 -> 800 -> 1210 -> 1220
	assert.Regexp(t, `seek distance \(arrival order\):\s+1020\n`, report)
	for _, id := range []string{"r1200", "r800", "r1210", "r1220"} {
		assert.Contains(t, report, id)
	}
}

func TestRunner_Synthetic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := NewRunner().
		WithArgs("--processes", "3", "--requests-per-process", "5", "--interval", "200us", "--metrics-port", "0",
			"--queue", "BTreeQueue", "--delay", "1ms").
		WithOutput(&out).
		Run(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `dispatched:\s+15\n`, out.String())
	assert.Contains(t, out.String(), "queue=BTreeQueue")
}

func TestRunner_InvalidFlags(t *testing.T) {
	err := NewRunner().WithArgs("--delay", "0s").WithOutput(&bytes.Buffer{}).Run(context.Background())
	assert.Error(t, err)

	err = NewRunner().WithArgs("--no-such-flag").WithOutput(&bytes.Buffer{}).Run(context.Background())
	assert.Error(t, err)
}

func TestArrivalOrderSeek(t *testing.T) {
	tr := &trace.Trace{Events: []trace.Event{{Sector: 10}, {Sector: 4}, {Sector: 4}, {Sector: 20}}}
	assert.Equal(t, uint64(90+6+0+16), arrivalOrderSeek(tr, 100))
	assert.Zero(t, arrivalOrderSeek(&trace.Trace{}, 5))
}
