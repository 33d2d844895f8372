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

package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestDuration_YAML(t *testing.T) {
	t.Parallel()

	type holder struct {
		D Duration `json:"d"`
	}

	testCases := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "Milliseconds", input: "d: 5ms", want: 5 * time.Millisecond},
		{name: "Compound", input: "d: 1m30s", want: 90 * time.Second},
		{name: "Zero", input: "d: 0s", want: 0},
		{name: "Nanoseconds", input: "d: 1500", want: 1500 * time.Nanosecond},
		{name: "BadUnit", input: "d: 5 parsecs", wantErr: true},
		{name: "WrongType", input: "d: [1, 2]", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var h holder
			err := yaml.Unmarshal([]byte(tc.input), &h)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, h.D.Duration)
		})
	}

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		out, err := yaml.Marshal(holder{D: Duration{Duration: 250 * time.Millisecond}})
		require.NoError(t, err)
		assert.Equal(t, "d: 250ms\n", string(out))
	})
}
