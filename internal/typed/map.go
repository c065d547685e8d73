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

// Package typed implements a hash map over one fixed key and value type, with
// batch operations and lazily cached projections of its keys and values.
package typed

import (
	"fmt"

	"buf.build/go/hypermap/internal/debug"
	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/swiss"
)

// Config configures a new [Map].
type Config struct {
	Env

	// Seed, if Seeded, fixes the table's hash seed.
	Seed   uint64
	Seeded bool

	// Capacity is a minimum number of entries to reserve room for.
	Capacity int

	KeyTag, ValueTag kinds.Tag
}

// Map is a hash map from K to V.
//
// Its key and value projections are cached on demand. Any mutation clears
// both caches, so a valid cache always reflects the table's current slot
// order, and the two caches always agree with each other.
type Map[K kinds.Key, V kinds.Value] struct {
	table *swiss.Table[K, V]

	keys         []K
	values       []V
	keysCached   bool
	valuesCached bool

	keyTag, valueTag kinds.Tag
	env              Env
}

// New builds a map from positionally paired keys and values. Later
// duplicates overwrite earlier ones.
//
// If the lengths differ, a warning is reported and the shorter length is
// used. If the context is cancelled partway, New returns an error and no map.
func New[K kinds.Key, V kinds.Value](keys []K, values []V, c Config) (*Map[K, V], error) {
	n := c.pairs("new", len(keys), len(values))

	m := &Map[K, V]{
		keyTag:   c.KeyTag,
		valueTag: c.ValueTag,
		env:      c.Env,
	}
	if c.Seeded {
		m.table = swiss.NewSeeded[K, V](max(n, c.Capacity), c.Seed)
	} else {
		m.table = swiss.New[K, V](max(n, c.Capacity))
	}

	for i := range n {
		if err := m.env.Checkpoint(i); err != nil {
			return nil, err
		}
		*m.table.Insert(keys[i]) = values[i]
	}

	m.log("new", "%d pairs, len: %d", n, m.Len())
	return m, nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.table.Len()
}

// Empty returns whether there are no entries.
func (m *Map[K, V]) Empty() bool {
	return m.table.Len() == 0
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.invalidate()
	m.table.Clear()
}

// BucketCount returns the number of slots in the underlying table.
func (m *Map[K, V]) BucketCount() int {
	return m.table.Cap()
}

// Rehash rebuilds the table with at least n slots, or as few as the current
// entries need.
func (m *Map[K, V]) Rehash(n int) {
	m.invalidate()
	m.table.Rehash(n)
}

// Reserve makes room for n entries.
func (m *Map[K, V]) Reserve(n int) {
	before := m.table.Cap()
	m.table.Reserve(n)
	if m.table.Cap() != before {
		m.invalidate()
	}
}

// HashValue returns the hash this map computes for each key.
func (m *Map[K, V]) HashValue(keys []K) ([]uint64, error) {
	out := make([]uint64, len(keys))
	for i, k := range keys {
		if err := m.env.Checkpoint(i); err != nil {
			return nil, err
		}
		out[i] = m.table.Hash(k)
	}
	return out, nil
}

// Insert upserts positionally paired keys and values.
func (m *Map[K, V]) Insert(keys []K, values []V) error {
	n := m.env.pairs("insert", len(keys), len(values))
	m.invalidate()
	for i := range n {
		if err := m.env.Checkpoint(i); err != nil {
			return err
		}
		*m.table.Insert(keys[i]) = values[i]
	}
	return nil
}

// Erase removes keys. Absent keys are ignored.
func (m *Map[K, V]) Erase(keys []K) error {
	m.invalidate()
	for i, k := range keys {
		if err := m.env.Checkpoint(i); err != nil {
			return err
		}
		m.table.Delete(k)
	}
	return nil
}

// Find looks up each key, yielding NA for absent ones.
func (m *Map[K, V]) Find(keys []K) ([]V, error) {
	out := make([]V, len(keys))
	na := kinds.NA[V]()
	for i, k := range keys {
		if err := m.env.Checkpoint(i); err != nil {
			return nil, err
		}
		if p := m.table.Lookup(k); p != nil {
			out[i] = *p
		} else {
			out[i] = na
		}
	}
	return out, nil
}

// HasKey returns whether the first of keys is present. The rest are ignored.
func (m *Map[K, V]) HasKey(keys []K) bool {
	if len(keys) == 0 {
		return false
	}
	return m.table.Lookup(keys[0]) != nil
}

// HasKeys returns whether each key is present.
func (m *Map[K, V]) HasKeys(keys []K) ([]bool, error) {
	out := make([]bool, len(keys))
	for i, k := range keys {
		if err := m.env.Checkpoint(i); err != nil {
			return nil, err
		}
		out[i] = m.table.Lookup(k) != nil
	}
	return out, nil
}

// Keys returns every key in slot order, caching the result.
func (m *Map[K, V]) Keys() ([]K, error) {
	if err := m.CacheKeys(); err != nil {
		return nil, err
	}
	return clone(m.keys), nil
}

// Values returns every value in slot order, caching the result.
func (m *Map[K, V]) Values() ([]V, error) {
	if err := m.CacheValues(); err != nil {
		return nil, err
	}
	return clone(m.values), nil
}

// KeysN returns the first n keys in slot order. n is clamped to [0, Len()].
func (m *Map[K, V]) KeysN(n int) ([]K, error) {
	n = m.clamp(n)
	if m.keysCached {
		return clone(m.keys[:n]), nil
	}
	out := make([]K, 0, n)
	err := m.walk(n, func(k K, _ V) { out = append(out, k) })
	return out, err
}

// ValuesN returns the first n values in slot order. n is clamped to
// [0, Len()].
func (m *Map[K, V]) ValuesN(n int) ([]V, error) {
	n = m.clamp(n)
	if m.valuesCached {
		return clone(m.values[:n]), nil
	}
	out := make([]V, 0, n)
	err := m.walk(n, func(_ K, v V) { out = append(out, v) })
	return out, err
}

// CacheKeys populates the key cache, if it is not already valid.
func (m *Map[K, V]) CacheKeys() error {
	if m.keysCached {
		return nil
	}
	keys := make([]K, 0, m.Len())
	if err := m.walk(m.Len(), func(k K, _ V) { keys = append(keys, k) }); err != nil {
		return err
	}
	m.keys, m.keysCached = keys, true
	m.log("cache", "keys: %d", len(keys))
	return nil
}

// CacheValues populates the value cache, if it is not already valid.
func (m *Map[K, V]) CacheValues() error {
	if m.valuesCached {
		return nil
	}
	values := make([]V, 0, m.Len())
	if err := m.walk(m.Len(), func(_ K, v V) { values = append(values, v) }); err != nil {
		return err
	}
	m.values, m.valuesCached = values, true
	m.log("cache", "values: %d", len(values))
	return nil
}

// KeysCached returns whether the key cache is valid.
func (m *Map[K, V]) KeysCached() bool {
	return m.keysCached
}

// ValuesCached returns whether the value cache is valid.
func (m *Map[K, V]) ValuesCached() bool {
	return m.valuesCached
}

// Data returns every value alongside a display label for its key.
//
// When both caches are valid they are used as-is; otherwise the table is
// walked once and both caches are filled from that walk.
func (m *Map[K, V]) Data() (labels []string, values []V, err error) {
	if !m.keysCached || !m.valuesCached {
		keys := make([]K, 0, m.Len())
		values := make([]V, 0, m.Len())
		err := m.walk(m.Len(), func(k K, v V) {
			keys = append(keys, k)
			values = append(values, v)
		})
		if err != nil {
			return nil, nil, err
		}
		m.keys, m.keysCached = keys, true
		m.values, m.valuesCached = values, true
	}
	return kinds.Labels(m.keys, m.keyTag), clone(m.values), nil
}

// DataN is like [Map.Data], but only for the first n entries. It does not
// populate either cache.
func (m *Map[K, V]) DataN(n int) (labels []string, values []V, err error) {
	n = m.clamp(n)
	if m.keysCached && m.valuesCached {
		return kinds.Labels(m.keys[:n], m.keyTag), clone(m.values[:n]), nil
	}
	keys := make([]K, 0, n)
	values = make([]V, 0, n)
	err = m.walk(n, func(k K, v V) {
		keys = append(keys, k)
		values = append(values, v)
	})
	if err != nil {
		return nil, nil, err
	}
	return kinds.Labels(keys, m.keyTag), values, nil
}

// DataFrame returns the two-column {Keys, Values} frame, reusing whichever
// caches are valid.
func (m *Map[K, V]) DataFrame() (kinds.Frame, error) {
	keys, err := m.Keys()
	if err != nil {
		return kinds.Frame{}, err
	}
	values, err := m.Values()
	if err != nil {
		return kinds.Frame{}, err
	}
	return kinds.NewFrame(
		kinds.ColKeys, m.KeyVector(keys),
		kinds.ColValues, m.ValueVector(values),
	), nil
}

// KeyTag returns the semantic tag of the keys.
func (m *Map[K, V]) KeyTag() kinds.Tag {
	return m.keyTag
}

// ValueTag returns the semantic tag of the values.
func (m *Map[K, V]) ValueTag() kinds.Tag {
	return m.valueTag
}

// KeyClass returns the class name of the keys.
func (m *Map[K, V]) KeyClass() string {
	return m.keyTag.Name(kinds.Of[K]())
}

// ValueClass returns the class name of the values.
func (m *Map[K, V]) ValueClass() string {
	return m.valueTag.Name(kinds.Of[V]())
}

// KeyVector wraps keys as a vector carrying this map's key tag.
func (m *Map[K, V]) KeyVector(keys []K) kinds.Vector {
	return kinds.WithTag(kinds.Wrap(keys), m.keyTag)
}

// ValueVector wraps values as a vector carrying this map's value tag.
func (m *Map[K, V]) ValueVector(values []V) kinds.Vector {
	return kinds.WithTag(kinds.Wrap(values), m.valueTag)
}

// NA returns n missing values.
func (m *Map[K, V]) NA(n int) []V {
	return kinds.Fill[V](n)
}

// Env returns the environment this map reports to.
func (m *Map[K, V]) Env() Env {
	return m.env
}

// Dump returns a dump of the underlying table, for debugging.
func (m *Map[K, V]) Dump() string {
	return m.table.Dump()
}

// Record records probe metrics for the underlying table.
func (m *Map[K, V]) Record(metrics *swiss.Metrics) {
	m.table.Record(metrics)
}

// Format implements [fmt.Formatter].
func (m *Map[K, V]) Format(s fmt.State, verb rune) {
	m.table.Format(s, verb)
}

// invalidate clears both caches. It runs before any mutation starts, so an
// interrupted mutation never leaves a stale cache behind.
func (m *Map[K, V]) invalidate() {
	m.keys, m.values = nil, nil
	m.keysCached, m.valuesCached = false, false
}

// walk visits the first n entries in slot order.
func (m *Map[K, V]) walk(n int, yield func(K, V)) error {
	if n == 0 {
		return nil
	}
	var i int
	for k, v := range m.table.All() {
		if err := m.env.Checkpoint(i); err != nil {
			return err
		}
		yield(k, v)
		if i++; i == n {
			break
		}
	}
	return nil
}

func (m *Map[K, V]) clamp(n int) int {
	return min(max(n, 0), m.Len())
}

func (m *Map[K, V]) log(op, format string, args ...any) {
	debug.Log([]any{"%p %T", m, m}, op, format, args...)
}

func clone[S ~[]E, E any](s S) S {
	return append(make(S, 0, len(s)), s...)
}
