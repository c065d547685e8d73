// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package swiss

import (
	"fmt"

	"buf.build/go/hypermap/internal/stats"
)

// Metrics is a snapshot of how well a table is laid out.
type Metrics struct {
	// Probes is the number of groups visited to find each live key.
	Probes stats.Mean

	Len, Cap, Tombstones int
}

// Load returns the fraction of slots holding live entries.
func (m *Metrics) Load() float64 {
	if m.Cap == 0 {
		return 0
	}
	return float64(m.Len) / float64(m.Cap)
}

// Reset clears all recorded data.
func (m *Metrics) Reset() {
	*m = Metrics{}
}

// Report reports the recorded metrics to a benchmark.
func (m *Metrics) Report(b interface{ ReportMetric(float64, string) }) {
	b.ReportMetric(m.Probes.Get(), "probes/key")
	b.ReportMetric(m.Probes.Max(), "max-probes")
	b.ReportMetric(m.Load(), "load")
}

// String implements [fmt.Stringer].
func (m *Metrics) String() string {
	return fmt.Sprintf("len: %d, cap: %d, tombstones: %d, load: %.3f, probes: %v",
		m.Len, m.Cap, m.Tombstones, m.Load(), &m.Probes)
}

// Record adds this table's probe lengths and occupancy to m.
func (t *Table[K, V]) Record(m *Metrics) {
	m.Len += t.len
	m.Cap += t.hard
	m.Tombstones += t.Tombstones()

	for k := range t.All() {
		h := t.hash(t.seed, k)
		h2 := h.h2()
		p := newProber(t.ctrl, h)
		for {
			var i int
			var word ctrl
			p, i, word = p.next()

			found := false
			for j := range 8 {
				if word.byteAt(j) == h2 && t.eq(k, t.keys[i*8+j]) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		m.Probes.Record(float64(p.i))
	}
}
