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
	"fmt"
	"text/tabwriter"

	"github.com/sstfsched/sstf/pkg/iosched/controller"
	"github.com/sstfsched/sstf/pkg/iosched/devicequeue"
	"github.com/sstfsched/sstf/pkg/iosched/server"
	"github.com/sstfsched/sstf/pkg/iosched/trace"
)

func (r *Runner) report(opts *server.Options, cfg *controller.Config, tr *trace.Trace, disk *devicequeue.Disk,
	st controller.Stats) error {
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)

	if opts.PrintOrder {
		fmt.Fprintln(w, "#\tID\tSECTOR\tPID\tSEEK")
		for i, rec := range disk.Records() {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", i+1, rec.Request.ID(), rec.Request.Sector(),
				rec.Request.ProcessID(), rec.Seek)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "trace:\t%s (%d requests)\n", tr.Name, len(tr.Events))
	fmt.Fprintf(w, "scheduler:\tqueue=%s selector=%s delay=%s\n", cfg.QueueName, cfg.SelectorName, cfg.DelayDuration)
	fmt.Fprintf(w, "dispatched:\t%d\n", st.Dispatched)
	fmt.Fprintf(w, "seek distance:\t%d\n", disk.TotalSeek())
	fmt.Fprintf(w, "seek distance (arrival order):\t%d\n", arrivalOrderSeek(tr, cfg.InitialSector))
	fmt.Fprintf(w, "anticipation:\tdeferred=%d cancelled=%d expired=%d\n", st.Deferred, st.Cancelled, st.TimerFired)
	return w.Flush()
}

// arrivalOrderSeek is the head movement a first-come first-served device would need for the same trace.
func arrivalOrderSeek(tr *trace.Trace, start uint64) uint64 {
	var total uint64
	head := start
	for _, ev := range tr.Events {
		if ev.Sector > head {
			total += ev.Sector - head
		} else {
			total += head - ev.Sector
		}
		head = ev.Sector
	}
	return total
}
