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
	"flag"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hashQuality = flag.Bool("hypermap.hashquality", false, "if true, run the hash quality report")

func TestFloatKeys(t *testing.T) {
	t.Parallel()

	seed := hash(0x243f6a8885a308d3)
	assert.Equal(t, hashFloat64(seed, 0), hashFloat64(seed, math.Copysign(0, -1)))
	assert.Equal(t, hashFloat64(seed, math.NaN()), hashFloat64(seed, math.Float64frombits(0x7ff00000000007a2)))
	assert.NotEqual(t, hashFloat64(seed, 1), hashFloat64(seed, 2))

	assert.True(t, equalFloat64(math.NaN(), math.NaN()))
	assert.True(t, equalFloat64(0, math.Copysign(0, -1)))
	assert.False(t, equalFloat64(1, math.NaN()))
}

func TestHashDeterminism(t *testing.T) {
	t.Parallel()

	a := NewSeeded[string, int](0, 42)
	b := NewSeeded[string, int](100, 42)
	c := NewSeeded[string, int](0, 43)

	for _, k := range []string{"", "x", "hello, world", "NA"} {
		assert.Equal(t, a.Hash(k), b.Hash(k), "%q", k)
		assert.NotEqual(t, a.Hash(k), c.Hash(k), "%q", k)
	}
}

func TestHashQuality(t *testing.T) {
	t.Parallel()
	if !*hashQuality {
		// Don't run the hash quality report unless it's specifically enabled.
		t.SkipNow()
	}

	totals := make([]float64, 64)
	seed := hash(0x243f6a8885a308d3) // Deterministic random value (digits of Pi).
	trials := 1000000

	for i := range int32(trials) {
		v := hashInt32(seed, i)
		for j := range 64 {
			if v&1 == 1 {
				totals[j]++
			} else {
				totals[j]--
			}
			v >>= 1
		}
	}

	for i := range totals {
		totals[i] /= float64(trials)
	}

	var avg float64
	for _, total := range totals {
		avg += total
	}
	avg /= float64(len(totals))

	var variance float64
	for _, total := range totals {
		diff := avg - total
		variance += diff * diff
	}
	variance /= float64(len(totals))
	stddev := math.Sqrt(variance)

	t.Logf("avg: %e, stddev: %e", avg, stddev)
	for i, f := range totals {
		t.Logf("totals[%d]: %g", i, f)
	}
}
