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

package queue_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/ordering"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// BenchmarkInsertRemove measures a steady state where the queue holds `depth` requests and every insert is paired
// with a head removal.
func BenchmarkInsertRemove(b *testing.B) {
	for _, name := range queue.Names() {
		for _, depth := range []int{8, 128, 2048} {
			b.Run(string(name)+"/depth="+strconv.Itoa(depth), func(b *testing.B) {
				q, err := queue.NewQueueFromName(name, ordering.Ascending)
				if err != nil {
					b.Fatalf("NewQueueFromName(%q) failed: %v", name, err)
				}
				rng := rand.New(rand.NewSource(1))
				for i := 0; i < depth; i++ {
					_ = q.InsertSorted(types.NewRequest("warm", rng.Uint64()%1_000_000, 1))
				}
				reqs := make([]types.DiskRequest, 1024)
				for i := range reqs {
					reqs[i] = types.NewRequest("bench", rng.Uint64()%1_000_000, 1)
				}

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_ = q.InsertSorted(reqs[i%len(reqs)])
					if _, err := q.RemoveHead(); err != nil {
						b.Fatalf("RemoveHead failed: %v", err)
					}
				}
			})
		}
	}
}
