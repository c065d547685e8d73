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

	"github.com/RoaringBitmap/roaring/v2"
)

// Vector is a column of elements of a single kind.
type Vector interface {
	// Kind returns the element kind.
	Kind() Kind

	// Len returns the number of elements.
	Len() int

	// IsNA returns whether the i-th element is missing.
	IsNA(i int) bool

	// Select returns a new vector holding the elements at the given rows,
	// in increasing row order.
	Select(rows *roaring.Bitmap) Vector
}

type (
	Ints      []int32
	Doubles   []float64
	Strings   []string
	Logicals  []Bool
	Complexes []complex128
)

var (
	_ Vector = Ints(nil)
	_ Vector = Doubles(nil)
	_ Vector = Strings(nil)
	_ Vector = Logicals(nil)
	_ Vector = Complexes(nil)
	_ Vector = Tagged{}
)

func (Ints) Kind() Kind      { return Integer }
func (Doubles) Kind() Kind   { return Double }
func (Strings) Kind() Kind   { return String }
func (Logicals) Kind() Kind  { return Logical }
func (Complexes) Kind() Kind { return Complex }

func (v Ints) Len() int      { return len(v) }
func (v Doubles) Len() int   { return len(v) }
func (v Strings) Len() int   { return len(v) }
func (v Logicals) Len() int  { return len(v) }
func (v Complexes) Len() int { return len(v) }

func (v Ints) IsNA(i int) bool      { return IsNA(v[i]) }
func (v Doubles) IsNA(i int) bool   { return IsNA(v[i]) }
func (v Strings) IsNA(i int) bool   { return IsNA(v[i]) }
func (v Logicals) IsNA(i int) bool  { return IsNA(v[i]) }
func (v Complexes) IsNA(i int) bool { return IsNA(v[i]) }

func (v Ints) Select(rows *roaring.Bitmap) Vector      { return selectRows(v, rows) }
func (v Doubles) Select(rows *roaring.Bitmap) Vector   { return selectRows(v, rows) }
func (v Strings) Select(rows *roaring.Bitmap) Vector   { return selectRows(v, rows) }
func (v Logicals) Select(rows *roaring.Bitmap) Vector  { return selectRows(v, rows) }
func (v Complexes) Select(rows *roaring.Bitmap) Vector { return selectRows(v, rows) }

func selectRows[S ~[]E, E any](s S, rows *roaring.Bitmap) S {
	out := make(S, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		out = append(out, s[it.Next()])
	}
	return out
}

// Tagged is a vector with a semantic tag, such as a vector of dates.
type Tagged struct {
	Vector
	Tag Tag
}

// Select implements [Vector], keeping the tag.
func (t Tagged) Select(rows *roaring.Bitmap) Vector {
	return Tagged{t.Vector.Select(rows), t.Tag}
}

// TagOf returns v's tag; untagged vectors are [Plain].
func TagOf(v Vector) Tag {
	if t, ok := v.(Tagged); ok {
		return t.Tag
	}
	return Tag{}
}

// Untag strips any tags from v.
func Untag(v Vector) Vector {
	for {
		t, ok := v.(Tagged)
		if !ok {
			return v
		}
		v = t.Vector
	}
}

// WithTag attaches tag to v, unless tag is plain.
func WithTag(v Vector, tag Tag) Vector {
	v = Untag(v)
	if tag.IsPlain() {
		return v
	}
	return Tagged{v, tag}
}

// Wrap converts a slice into the matching vector type.
func Wrap[V Value](s []V) Vector {
	switch s := any(s).(type) {
	case []int32:
		return Ints(s)
	case []float64:
		return Doubles(s)
	case []string:
		return Strings(s)
	case []Bool:
		return Logicals(s)
	case []complex128:
		return Complexes(s)
	default:
		panic("unreachable")
	}
}

// Unwrap extracts the slice from a vector of V, ignoring any tag. Returns
// false if v has the wrong kind.
func Unwrap[V Value](v Vector) ([]V, bool) {
	var s any
	switch v := Untag(v).(type) {
	case Ints:
		s = []int32(v)
	case Doubles:
		s = []float64(v)
	case Strings:
		s = []string(v)
	case Logicals:
		s = []Bool(v)
	case Complexes:
		s = []complex128(v)
	default:
		return nil, false
	}
	out, ok := s.([]V)
	return out, ok
}

// Fills returns a vector of n missing values of kind k, or nil if k is not a
// value kind.
func Fills(k Kind, n int) Vector {
	switch k {
	case Integer:
		return Ints(Fill[int32](n))
	case Double:
		return Doubles(Fill[float64](n))
	case String:
		return Strings(Fill[string](n))
	case Logical:
		return Logicals(Fill[Bool](n))
	case Complex:
		return Complexes(Fill[complex128](n))
	default:
		return nil
	}
}

// Coerce is like [Unwrap], but also converts between the numeric kinds the
// way the host does: logicals and integers widen to doubles, logicals become
// integers, and doubles truncate to integers. Missing values stay missing.
func Coerce[V Value](v Vector) ([]V, bool) {
	if s, ok := Unwrap[V](v); ok {
		return s, true
	}

	var z V
	var out any
	switch any(z).(type) {
	case float64:
		switch v := Untag(v).(type) {
		case Ints:
			out = convert(v, func(n int32) float64 { return float64(n) })
		case Logicals:
			out = convert(v, func(b Bool) float64 { return float64(b) })
		}
	case int32:
		switch v := Untag(v).(type) {
		case Doubles:
			out = convert(v, func(d float64) int32 {
				if d >= math.MaxInt32+1 || d <= math.MinInt32 {
					return NAInt
				}
				return int32(d)
			})
		case Logicals:
			out = convert(v, func(b Bool) int32 { return int32(b) })
		}
	}

	s, ok := out.([]V)
	return s, ok
}

func convert[S ~[]E, E, V Value](s S, f func(E) V) []V {
	out := make([]V, len(s))
	na := NA[V]()
	for i, e := range s {
		if IsNA(e) {
			out[i] = na
		} else {
			out[i] = f(e)
		}
	}
	return out
}
