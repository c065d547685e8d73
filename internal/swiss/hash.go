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
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// Key is one of the allowed keys for [Table].
type Key interface {
	int32 | float64 | string
}

// hash is an fxhash state, which is a relatively high-quality hash that is
// completely branchless for integers. We use the variant used in the Rust
// compiler, which can be found here: <https://github.com/rust-lang/rustc-hash>.
type hash uint64

func (h hash) h1() uint64 { return uint64(h >> 7) }
func (h hash) h2() byte   { return ^(byte(h) & 0x7f) }

// u64 writes a single uint64 to this hash's state.
func (h hash) u64(n uint64) hash {
	const (
		rotate = 5
		key    = 0x517cc1b727220a95
	)

	// See https://docs.rs/fxhash.
	hi, lo := bits.Mul64(bits.RotateLeft64(uint64(h), rotate)^n, key)
	return hash(lo ^ hi)
}

// String implements [fmt.Stringer].
func (h hash) String() string {
	return fmt.Sprintf("%015x:%02x", h.h1(), h.h2())
}

// canonicalNaN is the bit pattern every NaN key is hashed as.
const canonicalNaN = 0x7ff8_0000_0000_0001

func hashInt32(h hash, k int32) hash {
	return h.u64(uint64(uint32(k)))
}

func hashFloat64(h hash, k float64) hash {
	switch {
	case k != k: //nolint:gocritic // NaN check.
		return h.u64(canonicalNaN)
	case k == 0:
		// Folds -0 into +0.
		return h.u64(0)
	default:
		return h.u64(math.Float64bits(k))
	}
}

func hashString(h hash, k string) hash {
	return h.u64(xxhash.Sum64String(k))
}

// equalFloat64 is == except that all NaNs are equal to each other, so that
// missing-value keys can be looked up.
func equalFloat64(a, b float64) bool {
	return a == b || (a != a && b != b) //nolint:gocritic // NaN check.
}

// hasherFor selects the hash and equality functions for K.
//
// eq is nil when == is the right comparison.
func hasherFor[K Key]() (h func(hash, K) hash, eq func(K, K) bool) {
	var z K
	switch any(z).(type) {
	case int32:
		h = any(hashInt32).(func(hash, K) hash) //nolint:errcheck
	case float64:
		h = any(hashFloat64).(func(hash, K) hash) //nolint:errcheck
		eq = any(equalFloat64).(func(K, K) bool)  //nolint:errcheck
	case string:
		h = any(hashString).(func(hash, K) hash) //nolint:errcheck
	}
	return h, eq
}
