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

// Package join aligns two maps by key.
//
// Every join produces a [kinds.Frame] with columns Keys, Values.x and
// Values.y. The engine never sees a concrete map type; it works through
// [Other], which any map satisfies, and [Side], which only maps with a
// particular key type satisfy.
package join

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"

	"buf.build/go/hypermap/internal/debug"
	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/swiss"
	"buf.build/go/hypermap/internal/typed"
)

// ErrClassMismatch is reported, as a warning, when two maps whose keys have
// different classes are joined.
var ErrClassMismatch = errors.New("key classes differ")

// Other is a join operand whose key type is not statically known.
type Other interface {
	Len() int
	KeyClass() string
	KeyKind() kinds.Kind
	ValueKind() kinds.Kind

	// KeyColumn and Values return every key and value, in the same order.
	KeyColumn() (kinds.Vector, error)
	Values() (kinds.Vector, error)

	// NA returns n missing values of this operand's value kind.
	NA(n int) kinds.Vector
}

// Side is a join operand with keys of type K.
type Side[K kinds.Key] interface {
	Other

	Keys() ([]K, error)
	Find(keys []K) (kinds.Vector, error)

	// KeyVector wraps keys as a vector carrying this operand's key tag.
	KeyVector(keys []K) kinds.Vector
}

// Left returns every row of a, with b's value for each key or NA.
func Left[K kinds.Key](a Side[K], b Other, env typed.Env) (kinds.Frame, error) {
	bs, ok := compatible(a, b, "left_outer_join", env)
	if !ok || a.Len() == 0 {
		return padded(a, b)
	}
	keys, err := a.Keys()
	if err != nil {
		return kinds.Frame{}, err
	}
	x, err := a.Values()
	if err != nil {
		return kinds.Frame{}, err
	}
	y, err := bs.Find(keys)
	if err != nil {
		return kinds.Frame{}, err
	}
	log("left", "%d rows", len(keys))
	return result(a.KeyVector(keys), x, y), nil
}

// Right returns every row of b, with a's value for each key or NA. It is
// [Left] with the operands swapped, so Values.x still holds a's values.
func Right[K kinds.Key](a Side[K], b Other, env typed.Env) (kinds.Frame, error) {
	bs, ok := compatible(a, b, "right_outer_join", env)
	if !ok {
		f, err := padded(b, a)
		return swap(f), err
	}
	f, err := Left(bs, a, typed.Env{Ctx: env.Ctx})
	return swap(f), err
}

// Inner returns the rows whose key is in both a and b.
func Inner[K kinds.Key](a Side[K], b Other, env typed.Env) (kinds.Frame, error) {
	bs, ok := compatible(a, b, "inner_join", env)
	if !ok || a.Len() == 0 || b.Len() == 0 {
		return empty(a, b), nil
	}
	keys, err := a.Keys()
	if err != nil {
		return kinds.Frame{}, err
	}
	x, err := a.Values()
	if err != nil {
		return kinds.Frame{}, err
	}
	y, err := bs.Find(keys)
	if err != nil {
		return kinds.Frame{}, err
	}

	// A present key whose value is itself NA is indistinguishable from an
	// absent one here, and is dropped.
	kept := roaring.New()
	for i := range keys {
		if err := env.Checkpoint(i); err != nil {
			return kinds.Frame{}, err
		}
		if !y.IsNA(i) {
			kept.Add(uint32(i))
		}
	}

	log("inner", "%d of %d rows", kept.GetCardinality(), len(keys))
	return result(a.KeyVector(keys).Select(kept), x.Select(kept), y.Select(kept)), nil
}

// Full returns a row for every key in a or b. Rows are ordered by first
// occurrence in a's keys followed by b's.
func Full[K kinds.Key](a Side[K], b Other, env typed.Env) (kinds.Frame, error) {
	bs, ok := compatible(a, b, "full_outer_join", env)
	switch {
	case !ok, a.Len() == 0 && b.Len() == 0:
		return empty(a, b), nil
	case b.Len() == 0:
		return Left(a, b, typed.Env{Ctx: env.Ctx})
	case a.Len() == 0:
		return Right(a, b, typed.Env{Ctx: env.Ctx})
	}

	ak, err := a.Keys()
	if err != nil {
		return kinds.Frame{}, err
	}
	bk, err := bs.Keys()
	if err != nil {
		return kinds.Frame{}, err
	}

	seen := swiss.New[K, struct{}](len(ak) + len(bk))
	keys := make([]K, 0, len(ak)+len(bk))
	for i, k := range append(ak, bk...) {
		if err := env.Checkpoint(i); err != nil {
			return kinds.Frame{}, err
		}
		if seen.Lookup(k) != nil {
			continue
		}
		seen.Insert(k)
		keys = append(keys, k)
	}

	x, err := a.Find(keys)
	if err != nil {
		return kinds.Frame{}, err
	}
	y, err := bs.Find(keys)
	if err != nil {
		return kinds.Frame{}, err
	}
	log("full", "%d rows from %d+%d keys", len(keys), len(ak), len(bk))
	return result(a.KeyVector(keys), x, y), nil
}

// compatible checks that a and b can be joined, warning if not. The returned
// side is b, typed by a's key type.
func compatible[K kinds.Key](a Side[K], b Other, op string, env typed.Env) (Side[K], bool) {
	if a.KeyClass() != b.KeyClass() {
		env.Warnf(op, ErrClassMismatch, "%s vs %s", a.KeyClass(), b.KeyClass())
		return nil, false
	}
	bs, ok := b.(Side[K])
	if !ok {
		env.Warnf(op, ErrClassMismatch, "%v vs %v keys", a.KeyKind(), b.KeyKind())
		return nil, false
	}
	return bs, true
}

// padded is the left join of rows against nothing: its own rows, with NA
// for other.
func padded(rows, other Other) (kinds.Frame, error) {
	keys, err := rows.KeyColumn()
	if err != nil {
		return kinds.Frame{}, err
	}
	x, err := rows.Values()
	if err != nil {
		return kinds.Frame{}, err
	}
	return result(keys, x, other.NA(keys.Len())), nil
}

// empty is a zero-row result with a's key and value kinds and b's value kind.
func empty[K kinds.Key](a Side[K], b Other) kinds.Frame {
	return result(a.KeyVector([]K{}), a.NA(0), b.NA(0))
}

func result(keys, x, y kinds.Vector) kinds.Frame {
	return kinds.NewFrame(
		kinds.ColKeys, keys,
		kinds.ColValuesX, x,
		kinds.ColValuesY, y,
	)
}

// swap exchanges the value columns of a join result.
func swap(f kinds.Frame) kinds.Frame {
	if len(f.Columns) == 3 {
		f.Columns[1], f.Columns[2] = f.Columns[2], f.Columns[1]
	}
	return f
}

func log(op, format string, args ...any) {
	debug.Log(nil, op, format, args...)
}
