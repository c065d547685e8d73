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

package swiss_test

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"buf.build/go/hypermap/internal/swiss"
)

const (
	mapSize = 2048
	numKeys = 1024
)

var benchProbes = flag.Bool("hypermap.benchprobe", false, "if true, benchmark probe sequence length")

func BenchmarkTable(b *testing.B) {
	benchmark(b, int32s{}, mapSize)
	benchmark(b, lowBits{}, mapSize)
	benchmark(b, float64s{}, mapSize)
	benchmark(b, new(uuids), mapSize)
	benchmark(b, new(kilobytes), mapSize)
}

func benchmark[K swiss.Key](b *testing.B, c corpus[K], mapSize int) {
	b.Helper()

	r := rand.New(runtimeSource{})
	b.Run(strings.Trim(fmt.Sprintf("%Tx%d", c, mapSize), "*"), func(b *testing.B) {
		theirs := make(map[K]uint32)
		ours := swiss.New[K, uint32](mapSize)

		keys := make([]K, mapSize)
		for i := range keys {
			k := c.sample(r, false)
			keys[i] = k
			theirs[k] = uint32(i)
			*ours.Insert(k) = uint32(i)
		}

		metrics := new(swiss.Metrics)
		if *benchProbes {
			ours.Record(metrics)
		}

		lookup := func(b *testing.B, miss bool) {
			b.Helper()

			lookup := make([]K, numKeys)
			for i := range lookup {
				lookup[i] = c.sample(r, miss)
			}

			b.Run("swiss", func(b *testing.B) {
				for range b.N {
					for _, k := range lookup {
						ours.Lookup(k)
					}
				}
				if *benchProbes {
					metrics.Report(b)
				}
			})

			b.Run("gomap", func(b *testing.B) {
				for range b.N {
					for _, k := range lookup {
						_ = theirs[k]
					}
				}
			})
		}

		b.Run("hit", func(b *testing.B) { lookup(b, false) })
		b.Run("miss", func(b *testing.B) { lookup(b, true) })

		keys = slices.Repeat(keys, 10)
		r.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})

		b.Run("build", func(b *testing.B) {
			b.Run("swiss", func(b *testing.B) {
				for range b.N {
					m := swiss.New[K, uint32](0)
					for i, k := range keys {
						*m.Insert(k) = uint32(i)
					}
				}
			})

			b.Run("gomap", func(b *testing.B) {
				for range b.N {
					m := make(map[K]uint32)
					for i, k := range keys {
						m[k] = uint32(i)
					}
				}
			})
		})

		b.Run("churn", func(b *testing.B) {
			m := swiss.New[K, uint32](mapSize)
			for range b.N {
				for i, k := range keys[:mapSize] {
					*m.Insert(k) = uint32(i)
				}
				for _, k := range keys[:mapSize] {
					m.Delete(k)
				}
			}
		})
	})
}

// corpus is a corpus of values to draw from for hammering a table.
type corpus[K swiss.Key] interface {
	sample(r *rand.Rand, missing bool) K
}

type int32s struct{}

func (int32s) sample(r *rand.Rand, missing bool) int32 {
	n := r.Int32()
	if missing {
		n |= 1
	} else {
		n &^= 1
	}
	return n
}

type lowBits struct{}

func (lowBits) sample(r *rand.Rand, missing bool) int32 {
	return int32s{}.sample(r, missing) & 0xffff
}

type float64s struct{}

func (float64s) sample(r *rand.Rand, missing bool) float64 {
	n := float64(r.Int32N(1 << 20))
	if missing {
		n += 0.5
	}
	return n
}

type uuids []string

func (u *uuids) sample(r *rand.Rand, missing bool) string {
	if *u == nil {
		*u = make([]string, 20000)
		for i := range 10000 {
			uuid := uuid.New()

			uuid[0] |= 1
			(*u)[2*i] = uuid.String()
			uuid[0] &^= 1
			(*u)[2*i+1] = uuid.String()
		}
	}

	n := 2 * r.IntN(10000)
	if missing {
		n++
	}
	return (*u)[n]
}

type kilobytes []string

func (d *kilobytes) sample(r *rand.Rand, missing bool) string {
	if *d == nil {
		*d = make([]string, 2000)
		for i := range 2000 {
			buf := new(strings.Builder)
			for range 1024 {
				b := byte(r.Int())
				if i%2 == 0 {
					b |= 1
				} else {
					b &^= 1
				}
				buf.WriteByte(b)
			}
			(*d)[i] = buf.String()
		}
	}

	n := 2 * r.IntN(1000)
	if missing {
		n++
	}
	return (*d)[n]
}

type runtimeSource struct{}

func (runtimeSource) Uint64() uint64 { return rand.Uint64() }
