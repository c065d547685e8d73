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

import (
	"fmt"
	"strings"
)

// How selects which keys a join keeps.
type How int

const (
	Inner How = iota // Keys present in both maps.
	Left             // Every key of the receiver.
	Right            // Every key of the argument.
	Full             // Every key of either map.
)

var howNames = [...]string{
	Inner: "inner",
	Left:  "left",
	Right: "right",
	Full:  "full",
}

// String implements [fmt.Stringer].
func (h How) String() string {
	if h < 0 || int(h) >= len(howNames) {
		return fmt.Sprintf("How(%d)", int(h))
	}
	return howNames[h]
}

// ParseHow parses the name of a join, as returned by [How.String].
func ParseHow(s string) (How, error) {
	for h, name := range howNames {
		if strings.EqualFold(s, name) {
			return How(h), nil
		}
	}
	return 0, fmt.Errorf("hypermap: unknown join %q", s)
}

// Join aligns this map with other by key. The result has columns Keys,
// Values.x, holding this map's values, and Values.y, holding other's. Values
// missing from either side are NA.
//
// If the maps' key classes differ, the join reports a warning wrapping
// [ErrClassMismatch] and returns a placeholder: every row of the kept side
// for left and right joins, and no rows for inner and full joins.
func (m *Map) Join(how How, other *Map) (Frame, error) {
	return m.impl.join(how, other.impl, m.env())
}

// InnerJoin returns rows for the keys present in both maps, in this map's
// iteration order.
func (m *Map) InnerJoin(other *Map) (Frame, error) { return m.Join(Inner, other) }

// LeftJoin returns a row for every key of this map.
func (m *Map) LeftJoin(other *Map) (Frame, error) { return m.Join(Left, other) }

// RightJoin returns a row for every key of other.
func (m *Map) RightJoin(other *Map) (Frame, error) { return m.Join(Right, other) }

// FullJoin returns a row for every key of either map, each key once. Keys of
// this map come first.
func (m *Map) FullJoin(other *Map) (Frame, error) { return m.Join(Full, other) }
