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

// Package hypermap is a typed hash map over vectors, with relational joins.
//
// A [Map] is built from a vector of keys and a vector of values. Keys may be
// integers, doubles or strings; values may additionally be logicals or
// complex numbers. The pair of kinds is fixed when the map is built, and
// every operation after that is a batch: vectors go in, vectors come out.
//
//	m, err := hypermap.New(hypermap.Strings{"x", "y"}, hypermap.Ints{1, 2})
//	found, err := m.Find(hypermap.Strings{"y", "z"}) // Ints{2, NA}
//
// Missing values are represented by each kind's NA sentinel, which is also
// what lookups of absent keys produce.
//
// Two maps whose keys have the same class can be joined with [Map.InnerJoin],
// [Map.LeftJoin], [Map.RightJoin] or [Map.FullJoin]. Their values may have
// different kinds. The result is a [Frame] with columns Keys, Values.x and
// Values.y.
//
// # Caching
//
// [Map.Keys] and [Map.Values] walk the table once and cache the result until
// the next mutation. Iteration order is the table's slot order, which is
// stable between mutations but otherwise unspecified.
//
// # Serialization
//
// [Map.WriteTo] writes a map's entries as flat raw bytes, in the host's native
// layout, and [Load] reads them back. The stream records neither kinds nor
// tags, so they must be supplied to Load.
//
// # Concurrency
//
// A Map is not safe for concurrent use. Long batch operations poll the
// context given with [WithContext] every 50,000 elements, and stop early with
// [ErrInterrupted] if it is done.
package hypermap
