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

	"github.com/google/uuid"

	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/swiss"
	"buf.build/go/hypermap/internal/typed"
)

// Map is a hash map with keys and values of kinds chosen at construction.
//
// A Map's identity, as reported by [Map.ID], survives [Map.Renew], which
// replaces its contents and kinds in place.
type Map struct {
	id   uuid.UUID
	opts options
	impl instance
}

// New builds a map from positionally paired keys and values.
//
// Keys must be [Ints], [Doubles] or [Strings]; values may be any vector
// kind. Tags carried by the vectors become the map's key and value tags,
// unless overridden with [WithKeyTag] or [WithValueTag].
//
// If the vectors differ in length, a warning is reported and the shorter
// length is used. Later duplicate keys overwrite earlier ones. If the
// vectors' kinds are unsupported, New returns a [*TypeError].
func New(keys, values Vector, opts ...Option) (*Map, error) {
	m := &Map{id: uuid.New(), opts: newOptions(opts)}
	impl, err := m.build(keys, values)
	if err != nil {
		return nil, err
	}
	m.impl = impl
	return m, nil
}

// Renew replaces this map's contents with a newly built map, as if by [New],
// keeping its identity. On error, the map is unchanged.
func (m *Map) Renew(keys, values Vector) error {
	impl, err := m.build(keys, values)
	if err != nil {
		return err
	}
	m.impl = impl
	return nil
}

// Clone returns a deep copy of this map, with a new identity.
func (m *Map) Clone() (*Map, error) {
	clone := &Map{id: uuid.New(), opts: m.opts}
	impl, err := m.impl.clone(clone.config(m.KeyTag(), m.ValueTag()))
	if err != nil {
		return nil, err
	}
	clone.impl = impl
	return clone, nil
}

func (m *Map) build(keys, values Vector) (instance, error) {
	keyTag, valueTag := kinds.TagOf(keys), kinds.TagOf(values)
	if m.opts.keyTag != nil {
		keyTag = *m.opts.keyTag
	}
	if m.opts.valueTag != nil {
		valueTag = *m.opts.valueTag
	}
	return build(keys, values, m.config(keyTag, valueTag))
}

func (m *Map) config(keyTag, valueTag Tag) typed.Config {
	return typed.Config{
		Env:      m.env(),
		Seed:     m.opts.seed,
		Seeded:   m.opts.seeded,
		Capacity: m.opts.capacity,
		KeyTag:   keyTag,
		ValueTag: valueTag,
	}
}

func (m *Map) env() typed.Env {
	return typed.Env{
		Ctx: m.opts.ctx,
		Warn: func(op string, err error) {
			m.opts.warn(&Warning{Map: m.id, Op: op, Err: err})
		},
	}
}

// ID returns this map's identity.
func (m *Map) ID() uuid.UUID { return m.id }

// Len returns the number of entries.
func (m *Map) Len() int { return m.impl.Len() }

// Empty returns whether there are no entries.
func (m *Map) Empty() bool { return m.impl.Empty() }

// Clear removes every entry.
func (m *Map) Clear() { m.impl.Clear() }

// BucketCount returns the number of slots in the underlying table.
func (m *Map) BucketCount() int { return m.impl.BucketCount() }

// Rehash rebuilds the underlying table with at least n slots, or as few as
// the current entries need. It invalidates the caches.
func (m *Map) Rehash(n int) { m.impl.Rehash(n) }

// Reserve makes room for at least n entries.
func (m *Map) Reserve(n int) { m.impl.Reserve(n) }

// HashValue returns the hash this map computes for each key, whether or not
// it is present.
func (m *Map) HashValue(keys Vector) ([]uint64, error) { return m.impl.hashValue(keys) }

// Insert upserts positionally paired keys and values.
func (m *Map) Insert(keys, values Vector) error { return m.impl.insert(keys, values) }

// Erase removes keys. Absent keys are ignored.
func (m *Map) Erase(keys Vector) error { return m.impl.erase(keys) }

// Find returns the value for each key, or NA for absent ones.
func (m *Map) Find(keys Vector) (Vector, error) { return m.impl.find(keys) }

// HasKey returns whether the first element of keys is present. Other
// elements are ignored; see [Map.HasKeys].
func (m *Map) HasKey(keys Vector) (bool, error) { return m.impl.hasKey(keys) }

// HasKeys returns whether each key is present.
func (m *Map) HasKeys(keys Vector) ([]bool, error) { return m.impl.hasKeys(keys) }

// Keys returns every key, caching them.
func (m *Map) Keys() (Vector, error) { return m.impl.KeyColumn() }

// Values returns every value, caching them, in the same order as [Map.Keys].
func (m *Map) Values() (Vector, error) { return m.impl.Values() }

// KeysN returns the first n keys. n is clamped to [0, Len()].
func (m *Map) KeysN(n int) (Vector, error) { return m.impl.keysN(n) }

// ValuesN returns the first n values. n is clamped to [0, Len()].
func (m *Map) ValuesN(n int) (Vector, error) { return m.impl.valuesN(n) }

// CacheKeys populates the key cache.
func (m *Map) CacheKeys() error { return m.impl.CacheKeys() }

// CacheValues populates the value cache.
func (m *Map) CacheValues() error { return m.impl.CacheValues() }

// KeysCached returns whether the key cache is valid.
func (m *Map) KeysCached() bool { return m.impl.KeysCached() }

// ValuesCached returns whether the value cache is valid.
func (m *Map) ValuesCached() bool { return m.impl.ValuesCached() }

// Data returns every value, labelled with its key.
func (m *Map) Data() (Named, error) { return m.impl.data() }

// DataN returns the first n values, labelled with their keys.
func (m *Map) DataN(n int) (Named, error) { return m.impl.dataN(n) }

// DataFrame returns a frame with columns Keys and Values.
func (m *Map) DataFrame() (Frame, error) { return m.impl.DataFrame() }

// KeyKind returns the kind of the keys.
func (m *Map) KeyKind() Kind { return m.impl.KeyKind() }

// ValueKind returns the kind of the values.
func (m *Map) ValueKind() Kind { return m.impl.ValueKind() }

// KeyClass returns the class name of the keys, such as "character" or
// "Date". Only maps with equal key classes can be joined.
func (m *Map) KeyClass() string { return m.impl.KeyClass() }

// ValueClass returns the class name of the values.
func (m *Map) ValueClass() string { return m.impl.ValueClass() }

// KeyTag returns the tag of the keys.
func (m *Map) KeyTag() Tag { return m.impl.KeyTag() }

// ValueTag returns the tag of the values.
func (m *Map) ValueTag() Tag { return m.impl.ValueTag() }

// NAValues returns n missing values of this map's value kind.
func (m *Map) NAValues(n int) Vector { return m.impl.NA(n) }

// Metrics are probe statistics for a map's underlying table.
type Metrics = swiss.Metrics

// Metrics returns probe statistics for the underlying table.
func (m *Map) Metrics() *Metrics {
	metrics := new(Metrics)
	m.impl.Record(metrics)
	return metrics
}

// Dump returns a dump of the underlying table's control bytes, for
// debugging.
func (m *Map) Dump() string { return m.impl.Dump() }

// String implements [fmt.Stringer].
func (m *Map) String() string {
	return fmt.Sprintf("<hypermap %s → %s [%d]>", m.KeyClass(), m.ValueClass(), m.Len())
}
