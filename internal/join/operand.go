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

package join

import (
	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/typed"
)

// Operand adapts a typed map into a [Side].
type Operand[K kinds.Key, V kinds.Value] struct {
	*typed.Map[K, V]
}

var _ Side[string] = Operand[string, complex128]{}

// Of wraps m.
func Of[K kinds.Key, V kinds.Value](m *typed.Map[K, V]) Operand[K, V] {
	return Operand[K, V]{m}
}

func (o Operand[K, V]) KeyKind() kinds.Kind   { return kinds.Of[K]() }
func (o Operand[K, V]) ValueKind() kinds.Kind { return kinds.Of[V]() }

func (o Operand[K, V]) KeyColumn() (kinds.Vector, error) {
	keys, err := o.Map.Keys()
	if err != nil {
		return nil, err
	}
	return o.KeyVector(keys), nil
}

func (o Operand[K, V]) Values() (kinds.Vector, error) {
	values, err := o.Map.Values()
	if err != nil {
		return nil, err
	}
	return o.ValueVector(values), nil
}

func (o Operand[K, V]) Find(keys []K) (kinds.Vector, error) {
	values, err := o.Map.Find(keys)
	if err != nil {
		return nil, err
	}
	return o.ValueVector(values), nil
}

func (o Operand[K, V]) NA(n int) kinds.Vector {
	return o.ValueVector(o.Map.NA(n))
}
