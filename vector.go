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

package hypermap

import "buf.build/go/hypermap/internal/kinds"

// Kind is the element type of a vector. Its values are the host runtime's
// type codes.
type Kind = kinds.Kind

const (
	Logical = kinds.Logical
	Integer = kinds.Integer
	Double  = kinds.Double
	Complex = kinds.Complex
	String  = kinds.String
)

// Vector is a column of elements of a single kind.
type Vector = kinds.Vector

// Concrete vector types.
type (
	Ints      = kinds.Ints
	Doubles   = kinds.Doubles
	Strings   = kinds.Strings
	Logicals  = kinds.Logicals
	Complexes = kinds.Complexes
	Tagged    = kinds.Tagged
)

// Bool is a three-valued logical.
type Bool = kinds.Bool

const (
	False = kinds.False
	True  = kinds.True
)

// Missing-value sentinels.
const (
	NAInt    = kinds.NAInt
	NABool   = kinds.NABool
	NAString = kinds.NAString
)

var (
	NADouble  = kinds.NADouble
	NAComplex = kinds.NAComplex
)

// Tag is the semantic class of a vector; see [DateTag] and [DateTimeTag].
type Tag = kinds.Tag

// Class is the semantic class within a [Tag].
type Class = kinds.Class

const (
	Plain    = kinds.Plain
	Date     = kinds.Date
	DateTime = kinds.DateTime
)

// DateTag tags a vector of days since the epoch.
func DateTag() Tag { return kinds.DateTag() }

// DateTimeTag tags a vector of seconds since the epoch, displayed in zone tz.
func DateTimeTag(tz string) Tag { return kinds.DateTimeTag(tz) }

// WithTag attaches a tag to a vector.
func WithTag(v Vector, tag Tag) Vector { return kinds.WithTag(v, tag) }

// NAVector returns n missing values of kind k, or nil if k is not a value
// kind.
func NAVector(k Kind, n int) Vector { return kinds.Fills(k, n) }

// Frame is an ordered table of named columns.
type Frame = kinds.Frame

// Named is a vector of values labelled with their keys.
type Named struct {
	Names  []string
	Values Vector
}
