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

package kinds

import (
	"math"
	"math/cmplx"
)

// Bool is a three-valued logical: [False], [True] or [NABool].
type Bool int32

const (
	False Bool = 0
	True  Bool = 1
)

// Missing-value sentinels, one per kind.
const (
	NAInt    int32  = math.MinInt32
	NABool   Bool   = math.MinInt32
	NAString string = "NA"

	naDoubleBits = 0x7ff0_0000_0000_07a2
)

var (
	// NADouble is the host's missing double: a NaN with a fixed payload. Any
	// NaN is treated as missing.
	NADouble = math.Float64frombits(naDoubleBits)

	// NAComplex has both parts set to [NADouble].
	NAComplex = complex(NADouble, NADouble)
)

// BoolOf converts a Go bool.
func BoolOf(b bool) Bool {
	if b {
		return True
	}
	return False
}

// NA returns the missing-value sentinel for V.
func NA[V Value]() V {
	var z V
	var na any
	switch any(z).(type) {
	case int32:
		na = NAInt
	case float64:
		na = NADouble
	case string:
		na = NAString
	case Bool:
		na = NABool
	case complex128:
		na = NAComplex
	}
	return na.(V) //nolint:errcheck
}

// IsNA returns whether v is V's missing-value sentinel.
func IsNA[V Value](v V) bool {
	switch v := any(v).(type) {
	case int32:
		return v == NAInt
	case float64:
		return math.IsNaN(v)
	case string:
		return v == NAString
	case Bool:
		return v == NABool
	case complex128:
		return cmplx.IsNaN(v)
	default:
		return false
	}
}

// Fill returns a slice of n copies of V's missing-value sentinel.
func Fill[V Value](n int) []V {
	out := make([]V, n)
	na := NA[V]()
	for i := range out {
		out[i] = na
	}
	return out
}
