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

// Package kinds describes the closed set of element types a hypermap can
// store, their missing-value sentinels, and the vectors that carry them.
package kinds

import "fmt"

// Kind is the element type of a vector.
//
// The numeric values match the type codes used by the host runtime, so they
// can be handed across unchanged.
type Kind int

const (
	Invalid Kind = 0
	Logical Kind = 10
	Integer Kind = 13
	Double  Kind = 14
	Complex Kind = 15
	String  Kind = 16
)

// Key is any Go type that can be a map key.
type Key interface {
	int32 | float64 | string
}

// Value is any Go type that can be a map value.
type Value interface {
	int32 | float64 | string | Bool | complex128
}

// IsKey returns whether k is a valid key kind.
func (k Kind) IsKey() bool {
	switch k {
	case Integer, Double, String:
		return true
	default:
		return false
	}
}

// IsValue returns whether k is a valid value kind.
func (k Kind) IsValue() bool {
	switch k {
	case Logical, Integer, Double, Complex, String:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer]. The names are the host's class names
// for plain vectors of each kind.
func (k Kind) String() string {
	switch k {
	case Logical:
		return "logical"
	case Integer:
		return "integer"
	case Double:
		return "numeric"
	case Complex:
		return "complex"
	case String:
		return "character"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of [Kind.String]. It also accepts "double" for
// [Double] and "string" for [String].
func ParseKind(s string) (Kind, error) {
	switch s {
	case "logical", "bool", "boolean":
		return Logical, nil
	case "integer", "int":
		return Integer, nil
	case "numeric", "double":
		return Double, nil
	case "complex":
		return Complex, nil
	case "character", "string":
		return String, nil
	default:
		return Invalid, fmt.Errorf("unknown kind %q", s)
	}
}

// Of returns the kind corresponding to the Go type V.
func Of[V Value]() Kind {
	var z V
	switch any(z).(type) {
	case Bool:
		return Logical
	case int32:
		return Integer
	case float64:
		return Double
	case complex128:
		return Complex
	case string:
		return String
	default:
		return Invalid
	}
}
