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

	"github.com/tiendc/go-deepcopy"

	"buf.build/go/hypermap/internal/join"
	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/rawio"
	"buf.build/go/hypermap/internal/swiss"
	"buf.build/go/hypermap/internal/typed"
)

// instance is the concrete map held by a [Map]. It is implemented only by
// slot, once for each of the supported key and value kinds.
type instance interface {
	join.Other

	Empty() bool
	Clear()
	BucketCount() int
	Rehash(n int)
	Reserve(n int)
	CacheKeys() error
	CacheValues() error
	KeysCached() bool
	ValuesCached() bool
	ValueClass() string
	KeyTag() Tag
	ValueTag() Tag
	DataFrame() (Frame, error)
	Record(*swiss.Metrics)
	Env() typed.Env
	Dump() string

	hashValue(keys Vector) ([]uint64, error)
	insert(keys, values Vector) error
	erase(keys Vector) error
	find(keys Vector) (Vector, error)
	hasKey(keys Vector) (bool, error)
	hasKeys(keys Vector) ([]bool, error)
	keysN(n int) (Vector, error)
	valuesN(n int) (Vector, error)
	data() (Named, error)
	dataN(n int) (Named, error)
	join(how How, other join.Other, env typed.Env) (Frame, error)
	writeTo(w *rawio.Writer) error
	clone(c typed.Config) (instance, error)

	isInstance()
}

// slot is a typed map from K to V.
type slot[K kinds.Key, V kinds.Value] struct {
	join.Operand[K, V]
}

// constructor builds an instance from vectors whose kinds are already known
// to match.
type constructor func(keys, values Vector, c typed.Config) (instance, error)

// constructors is indexed by key kind, then value kind, in the order of
// keyIndex and valueIndex.
var constructors = [3][5]constructor{
	{
		construct[int32, Bool], construct[int32, int32], construct[int32, float64],
		construct[int32, complex128], construct[int32, string],
	},
	{
		construct[float64, Bool], construct[float64, int32], construct[float64, float64],
		construct[float64, complex128], construct[float64, string],
	},
	{
		construct[string, Bool], construct[string, int32], construct[string, float64],
		construct[string, complex128], construct[string, string],
	},
}

func keyIndex(k Kind) int {
	switch k {
	case Integer:
		return 0
	case Double:
		return 1
	case String:
		return 2
	default:
		return -1
	}
}

func valueIndex(k Kind) int {
	switch k {
	case Logical:
		return 0
	case Integer:
		return 1
	case Double:
		return 2
	case Complex:
		return 3
	case String:
		return 4
	default:
		return -1
	}
}

// build resolves the instance type for keys and values and constructs it.
func build(keys, values Vector, c typed.Config) (instance, error) {
	if keys == nil {
		return nil, &TypeError{Side: "key"}
	}
	if values == nil {
		return nil, &TypeError{Side: "value"}
	}
	if !keys.Kind().IsKey() {
		return nil, &TypeError{Side: "key", Kind: keys.Kind()}
	}
	if !values.Kind().IsValue() {
		return nil, &TypeError{Side: "value", Kind: values.Kind()}
	}
	return constructors[keyIndex(keys.Kind())][valueIndex(values.Kind())](keys, values, c)
}

func construct[K kinds.Key, V kinds.Value](keys, values Vector, c typed.Config) (instance, error) {
	k, ok := kinds.Unwrap[K](keys)
	if !ok {
		return nil, kindError("key", kinds.Of[K](), keys)
	}
	v, ok := kinds.Unwrap[V](values)
	if !ok {
		return nil, kindError("value", kinds.Of[V](), values)
	}
	m, err := typed.New(k, v, c)
	if err != nil {
		return nil, err
	}
	return &slot[K, V]{join.Of(m)}, nil
}

func (*slot[K, V]) isInstance() {}

func (s *slot[K, V]) hashValue(keys Vector) ([]uint64, error) {
	k, err := s.keys(keys)
	if err != nil {
		return nil, err
	}
	return s.Map.HashValue(k)
}

func (s *slot[K, V]) insert(keys, values Vector) error {
	k, err := s.keys(keys)
	if err != nil {
		return err
	}
	v, ok := kinds.Coerce[V](values)
	if !ok {
		return kindError("value", s.ValueKind(), values)
	}
	return s.Map.Insert(k, v)
}

func (s *slot[K, V]) erase(keys Vector) error {
	k, err := s.keys(keys)
	if err != nil {
		return err
	}
	return s.Map.Erase(k)
}

func (s *slot[K, V]) find(keys Vector) (Vector, error) {
	k, err := s.keys(keys)
	if err != nil {
		return nil, err
	}
	return s.Find(k)
}

func (s *slot[K, V]) hasKey(keys Vector) (bool, error) {
	k, err := s.keys(keys)
	if err != nil {
		return false, err
	}
	return s.Map.HasKey(k), nil
}

func (s *slot[K, V]) hasKeys(keys Vector) ([]bool, error) {
	k, err := s.keys(keys)
	if err != nil {
		return nil, err
	}
	return s.Map.HasKeys(k)
}

func (s *slot[K, V]) keysN(n int) (Vector, error) {
	k, err := s.Map.KeysN(n)
	if err != nil {
		return nil, err
	}
	return s.KeyVector(k), nil
}

func (s *slot[K, V]) valuesN(n int) (Vector, error) {
	v, err := s.Map.ValuesN(n)
	if err != nil {
		return nil, err
	}
	return s.ValueVector(v), nil
}

func (s *slot[K, V]) data() (Named, error) {
	names, v, err := s.Map.Data()
	if err != nil {
		return Named{}, err
	}
	return Named{names, s.ValueVector(v)}, nil
}

func (s *slot[K, V]) dataN(n int) (Named, error) {
	names, v, err := s.Map.DataN(n)
	if err != nil {
		return Named{}, err
	}
	return Named{names, s.ValueVector(v)}, nil
}

func (s *slot[K, V]) join(how How, other join.Other, env typed.Env) (Frame, error) {
	switch how {
	case Inner:
		return join.Inner(s.Operand, other, env)
	case Left:
		return join.Left(s.Operand, other, env)
	case Right:
		return join.Right(s.Operand, other, env)
	case Full:
		return join.Full(s.Operand, other, env)
	default:
		return Frame{}, fmt.Errorf("hypermap: unknown join %v", how)
	}
}

func (s *slot[K, V]) writeTo(w *rawio.Writer) error {
	keys, err := s.Map.Keys()
	if err != nil {
		return err
	}
	values, err := s.Map.Values()
	if err != nil {
		return err
	}
	env := s.Env()
	for i := range keys {
		if err := env.Checkpoint(i); err != nil {
			return err
		}
		rawio.WritePair(w, keys[i], values[i])
	}
	return w.Flush()
}

func (s *slot[K, V]) clone(c typed.Config) (instance, error) {
	keys, err := s.Map.Keys()
	if err != nil {
		return nil, err
	}
	values, err := s.Map.Values()
	if err != nil {
		return nil, err
	}

	var k []K
	var v []V
	if err := deepcopy.Copy(&k, keys); err != nil {
		return nil, fmt.Errorf("hypermap: cloning keys: %w", err)
	}
	if err := deepcopy.Copy(&v, values); err != nil {
		return nil, fmt.Errorf("hypermap: cloning values: %w", err)
	}

	m, err := typed.New(k, v, c)
	if err != nil {
		return nil, err
	}
	return &slot[K, V]{join.Of(m)}, nil
}

// keys converts a vector of keys to this slot's key type.
func (s *slot[K, V]) keys(v Vector) ([]K, error) {
	k, ok := kinds.Coerce[K](v)
	if !ok {
		return nil, kindError("key", s.KeyKind(), v)
	}
	return k, nil
}
