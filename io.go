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
	"io"

	"github.com/google/uuid"

	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/rawio"
	"buf.build/go/hypermap/internal/typed"
)

// WriteTo writes every entry of this map to w as raw bytes, in iteration
// order, and implements [io.WriterTo].
//
// Each entry is its key followed by its value. Integers and logicals take
// four bytes, doubles eight and complex numbers sixteen, all in the host's
// byte order. A string is an eight-byte length followed by its bytes. Tags
// are not written.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	rw := rawio.NewWriter(w)
	err := m.impl.writeTo(rw)
	return rw.Written(), err
}

// Load reads entries written by [Map.WriteTo] until r is exhausted, and
// builds a map from them. The kinds of the entries must be given; they are
// not recorded in the stream. Tags may be given with [WithKeyTag] and
// [WithValueTag].
//
// If r ends partway through an entry, Load returns an error wrapping
// [ErrTruncated].
func Load(r io.Reader, keyKind, valueKind Kind, opts ...Option) (*Map, error) {
	ki := keyIndex(keyKind)
	if ki < 0 {
		return nil, &TypeError{Side: "key", Kind: keyKind}
	}
	vi := valueIndex(valueKind)
	if vi < 0 {
		return nil, &TypeError{Side: "value", Kind: valueKind}
	}

	m := &Map{id: uuid.New(), opts: newOptions(opts)}
	keys, values, err := loaders[ki][vi](rawio.NewReader(r), m.env())
	if err != nil {
		return nil, fmt.Errorf("hypermap: loading %v → %v: %w", keyKind, valueKind, err)
	}
	if m.impl, err = m.build(keys, values); err != nil {
		return nil, err
	}
	return m, nil
}

type loader func(r *rawio.Reader, env typed.Env) (keys, values Vector, err error)

// loaders is laid out like constructors.
var loaders = [3][5]loader{
	{
		load[int32, Bool], load[int32, int32], load[int32, float64],
		load[int32, complex128], load[int32, string],
	},
	{
		load[float64, Bool], load[float64, int32], load[float64, float64],
		load[float64, complex128], load[float64, string],
	},
	{
		load[string, Bool], load[string, int32], load[string, float64],
		load[string, complex128], load[string, string],
	},
}

func load[K kinds.Key, V kinds.Value](r *rawio.Reader, env typed.Env) (Vector, Vector, error) {
	var keys []K
	var values []V
	for i := 0; ; i++ {
		if err := env.Checkpoint(i); err != nil {
			return nil, nil, err
		}
		k, v, err := rawio.ReadPair[K, V](r)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("entry %d: %w", i, err)
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	return kinds.Wrap(keys), kinds.Wrap(values), nil
}
