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

// Package stats provides instrumentation counter primitives.
package stats

import "fmt"

// Mean tracks an average statistic, along with the largest sample seen.
//
// The zero value is ready to use. A Mean is owned by a single goroutine, like
// the tables it instruments.
type Mean struct {
	total, samples, max float64
}

// Record records a sample.
func (m *Mean) Record(sample float64) {
	if m.samples == 0 || sample > m.max {
		m.max = sample
	}
	m.total += sample
	m.samples++
}

// Get returns the mean value of this statistic.
func (m *Mean) Get() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / m.samples
}

// Max returns the largest recorded sample, or zero if there are none.
func (m *Mean) Max() float64 {
	return m.max
}

// Count returns the number of recorded samples.
func (m *Mean) Count() int {
	return int(m.samples)
}

// Merge adds all of the samples from that to m.
func (m *Mean) Merge(that *Mean) {
	if that.samples == 0 {
		return
	}
	if m.samples == 0 || that.max > m.max {
		m.max = that.max
	}
	m.total += that.total
	m.samples += that.samples
}

// Reset discards all samples.
func (m *Mean) Reset() {
	*m = Mean{}
}

// String implements [fmt.Stringer].
func (m *Mean) String() string {
	return fmt.Sprintf("mean %.3f, max %.0f over %d samples", m.Get(), m.max, m.Count())
}
