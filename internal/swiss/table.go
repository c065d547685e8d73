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

// Package swiss provides a swisstable implementation over the closed set of
// key types a hypermap can hold.
package swiss

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
	"math/rand/v2"
	"strings"

	"buf.build/go/hypermap/internal/debug"
)

const maxEntries = math.MaxInt32 / 8

// Table is a swisstable.
//
// The zero value is an empty table with a random seed chosen on first insert.
// A Table is not safe for concurrent use.
type Table[K Key, V any] struct {
	// There is a soft and a hard cap. The soft cap is how many slots can be
	// used (by live entries or tombstones) before the table needs to be
	// rehashed, while hard is the actual number of slots.
	len, dead, soft, hard int

	seed   hash
	seeded bool

	hash  func(hash, K) hash
	equal func(K, K) bool

	ctrl   []ctrl // [hard/8]
	keys   []K    // [hard]
	values []V    // [hard]
}

// New returns a table with room for capacity entries and a random seed.
func New[K Key, V any](capacity int) *Table[K, V] {
	return NewSeeded[K, V](capacity, rand.Uint64())
}

// NewSeeded is like [New], but uses the given hash seed. Tables with the same
// seed hash keys identically.
func NewSeeded[K Key, V any](capacity int, seed uint64) *Table[K, V] {
	t := new(Table[K, V])
	t.seed, t.seeded = hash(seed), true
	if capacity > maxEntries {
		capacity = 0
	}
	t.Resize(capacity)
	return t
}

// Len returns this table's length.
func (t *Table[K, V]) Len() int {
	return t.len
}

// Cap returns the number of slots in the table, which is the table's bucket
// count.
func (t *Table[K, V]) Cap() int {
	return t.hard
}

// Tombstones returns the number of deleted slots that have not yet been
// reclaimed by a rehash.
func (t *Table[K, V]) Tombstones() int {
	return t.dead
}

// Hash returns the hash this table computes for k.
func (t *Table[K, V]) Hash(k K) uint64 {
	t.setup()
	return uint64(t.hash(t.seed, k))
}

// Lookup looks up the given key and returns a pointer to its value, or nil if
// no such key.
func (t *Table[K, V]) Lookup(k K) *V {
	if t.len == 0 {
		return nil
	}
	idx, occupied := t.search(t.hash(t.seed, k), k)
	if !occupied {
		return nil
	}
	return &t.values[idx]
}

// Insert returns a pointer to the slot for the given key, creating it if
// necessary. A newly created slot holds the zero value.
func (t *Table[K, V]) Insert(k K) *V {
	t.setup()

	h := t.hash(t.seed, k)
	idx, occupied := t.search(h, k)
	if occupied {
		return &t.values[idx]
	}

	if t.byteAt(idx) == empty && t.len+t.dead >= t.soft {
		t.grow()
		idx, _ = t.search(h, k)
	}

	if t.byteAt(idx) == deleted {
		t.dead--
	}
	t.setByte(idx, h.h2())
	t.keys[idx] = k
	t.len++
	return &t.values[idx]
}

// Delete removes k from the table. Returns whether it was present.
func (t *Table[K, V]) Delete(k K) bool {
	if t.len == 0 {
		return false
	}

	idx, occupied := t.search(t.hash(t.seed, k), k)
	if !occupied {
		return false
	}

	var zk K
	var zv V
	t.keys[idx] = zk
	t.values[idx] = zv
	t.len--

	// If this slot's group still has an empty slot, no probe sequence ever
	// continued past it, so the slot can become empty rather than a
	// tombstone.
	if t.ctrl[idx/8].first(broadcast(empty)) < 8 {
		t.setByte(idx, empty)
	} else {
		t.setByte(idx, deleted)
		t.dead++
	}

	t.log("delete", "%v at %d, len: %d, dead: %d", k, idx, t.len, t.dead)
	return true
}

// Clear removes all entries, keeping the current capacity.
func (t *Table[K, V]) Clear() {
	clear(t.ctrl)
	clear(t.keys)
	clear(t.values)
	t.len, t.dead = 0, 0
}

// Reserve makes room for at least n entries without further rehashing.
//
// n is a hint: values past the largest table that can be built are ignored.
func (t *Table[K, V]) Reserve(n int) {
	if n > t.soft && n <= maxEntries {
		t.Resize(n)
	}
}

// Rehash rebuilds the table with at least the given number of slots, or
// fewer if that is still enough for the current entries. Tombstones are
// dropped. A slot count past the largest table rebuilds at the current size.
func (t *Table[K, V]) Rehash(slots int) {
	if slots > maxEntries {
		slots = 0
	}
	t.Resize(max(slots*7/8, t.len))
}

// Resize rebuilds the table so that it holds n entries at its maximum load
// factor, never shrinking below its current length.
func (t *Table[K, V]) Resize(n int) {
	t.setup()
	n = max(n, t.len)
	if n > maxEntries {
		panic(fmt.Sprintf("hypermap/internal/swiss: cannot create table of length %d; max is %d", n, maxEntries))
	}

	soft, hard := loadFactor(n)
	oldCtrl, keys, values := t.ctrl, t.keys, t.values

	t.soft, t.hard = int(soft), int(hard)
	t.ctrl = make([]ctrl, t.hard/8)
	t.keys = make([]K, t.hard)
	t.values = make([]V, t.hard)
	t.dead = 0

	for i, word := range oldCtrl {
		for j := range 8 {
			if word.byteAt(j) < 0x80 {
				continue
			}
			n := i*8 + j
			k := keys[n]
			h := t.hash(t.seed, k)
			idx := t.vacant(h)
			t.setByte(idx, h.h2())
			t.keys[idx] = k
			t.values[idx] = values[n]
		}
	}

	t.log("resize", "len: %d, cap: %d/%d", t.len, t.soft, t.hard)
}

// All ranges over a table in slot order.
//
// The order depends on the seed and on the history of insertions, deletions
// and rehashes; it must not be relied upon across mutations.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t.len == 0 {
			return
		}

		left := t.len
		for i, word := range t.ctrl {
			if word.matches(broadcast(empty)) == highs {
				continue // Whole group is empty.
			}
			for j := range 8 {
				if word.byteAt(j) < 0x80 {
					continue
				}
				n := i*8 + j
				left--
				if !yield(t.keys[n], t.values[n]) || left == 0 {
					return
				}
			}
		}
	}
}

// setup chooses a seed and hasher for a zero table.
func (t *Table[K, V]) setup() {
	if t.hash == nil {
		t.hash, t.equal = hasherFor[K]()
	}
	if !t.seeded {
		t.seed, t.seeded = hash(rand.Uint64()), true
	}
	if t.hard == 0 {
		soft, hard := loadFactor(0)
		t.soft, t.hard = int(soft), int(hard)
		t.ctrl = make([]ctrl, t.hard/8)
		t.keys = make([]K, t.hard)
		t.values = make([]V, t.hard)
	}
}

// grow is called when an insertion would exceed the soft cap. If most of the
// used slots are tombstones, the table is rebuilt at the same size; otherwise
// it doubles.
func (t *Table[K, V]) grow() {
	if t.dead >= t.len {
		t.Resize(t.len + 1)
		return
	}
	t.Resize(2 * (t.len + 1))
}

// search searches for a key's bucket: either an occupied slot, or a free
// slot where it could be inserted at. Tombstones are preferred over empty
// slots for insertion.
//
// Returns the index of the bucket and whether it is already occupied.
func (t *Table[K, V]) search(h hash, k K) (idx int, occupied bool) {
	h2 := h.h2()
	needle := broadcast(h2)
	tomb := -1

	p := newProber(t.ctrl, h)
	for {
		// Guaranteed to terminate because the soft cap keeps an empty slot
		// in the table at all times.
		debug.Assert(p.i <= p.mask, "full table")

		var i int
		var word ctrl
		p, i, word = p.next()

		// First, check for any hits.
		mask := word.matches(needle)
		if mask != 0 {
			n := i * 8
			for j := range 8 {
				var eq bool
				mask, eq = mask.next()
				if eq && word.byteAt(j) == h2 && t.eq(k, t.keys[n]) {
					return n, true
				}
				n++
			}
		}

		if tomb < 0 {
			if j := word.first(broadcast(deleted)); j < 8 {
				tomb = i*8 + j
			}
		}

		// Otherwise, check for empties.
		if j := word.first(broadcast(empty)); j < 8 {
			if tomb >= 0 {
				return tomb, false
			}
			return i*8 + j, false
		}
	}
}

// vacant finds a free slot for a key known not to be in the table, which
// itself is known to have no tombstones.
func (t *Table[K, V]) vacant(h hash) int {
	p := newProber(t.ctrl, h)
	for {
		var i int
		var word ctrl
		p, i, word = p.next()
		if j := word.first(broadcast(empty)); j < 8 {
			return i*8 + j
		}
	}
}

func (t *Table[K, V]) eq(a, b K) bool {
	if t.equal != nil {
		return t.equal(a, b)
	}
	return a == b
}

func (t *Table[K, V]) byteAt(idx int) byte {
	return t.ctrl[idx/8].byteAt(idx % 8)
}

func (t *Table[K, V]) setByte(idx int, b byte) {
	t.ctrl[idx/8] = t.ctrl[idx/8].with(idx%8, b)
}

func (t *Table[K, V]) log(op, format string, args ...any) {
	debug.Log([]any{"%p", t}, op, format, args...)
}

// loadFactor calculates the capacity of a table with n elements, implementing
// a load factor of 7/8.
//
// The returned value is always a power of two divisible by 8.
func loadFactor(len int) (soft, hard uint32) {
	if len < 8 {
		len = 7
	}

	// Go generates better code for unsigned arithmetic here.
	e := uint(len)
	n := e * 8 / 7
	// Make sure that n is a power of two. Pick the next power of
	// two after n.
	if bits.OnesCount(n) != 1 {
		n = uint(1) << bits.Len(n)
	}
	return uint32(n / 8 * 7), uint32(n)
}

// Format implements [fmt.Formatter].
func (t *Table[K, V]) Format(s fmt.State, verb rune) {
	kv := "%v: " + fmt.FormatString(s, verb)
	first := true

	fmt.Fprint(s, "[")
	for k, v := range t.All() {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false
		fmt.Fprintf(s, kv, k, v)
	}
	fmt.Fprint(s, "]")
}

// Dump returns a dump of t's control bytes, for debugging.
func (t *Table[K, V]) Dump() string {
	var k K
	var v V

	buf := new(strings.Builder)
	fmt.Fprintf(buf, "%p: Table[%T, %T]\n", t, k, v)
	load := 0.0
	if t.hard > 0 {
		load = float64(t.len) / float64(t.hard)
	}
	fmt.Fprintf(buf, "len: %v, dead: %v, cap: %v/%v, load factor: %v\n", t.len, t.dead, t.soft, t.hard, load)
	fmt.Fprintf(buf, "seed: %016x\n", uint64(t.seed))

	fmt.Fprintf(buf, "ctrl:")
	for i := range t.hard {
		switch i % 16 {
		case 0:
			fmt.Fprintf(buf, "\n  %04d:", i)
		case 8:
			fmt.Fprint(buf, " ")
		}
		fmt.Fprintf(buf, " %02x", t.byteAt(i))
	}
	fmt.Fprintln(buf)

	return buf.String()
}
