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

package typed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buf.build/go/hypermap/internal/debug"
	"buf.build/go/hypermap/internal/kinds"
	"buf.build/go/hypermap/internal/typed"
)

type warnings []error

func (w *warnings) env() typed.Env {
	return typed.Env{Warn: func(_ string, err error) { *w = append(*w, err) }}
}

func TestNew(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	var w warnings
	m, err := typed.New([]string{"a", "b", "a", "c"}, []int32{1, 2, 3}, typed.Config{Env: w.env()})
	require.NoError(t, err)

	require.Len(t, w, 1)
	assert.ErrorIs(t, w[0], typed.ErrLengthMismatch)

	// "c" is dropped and the second "a" wins.
	assert.Equal(t, 2, m.Len())
	got, err := m.Find([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 2, kinds.NAInt}, got)
}

func TestFindKeysValues(t *testing.T) {
	t.Parallel()

	keys := make([]int32, 100)
	values := make([]float64, 100)
	for i := range keys {
		keys[i] = int32(i * 3)
		values[i] = float64(i) / 2
	}
	m, err := typed.New(keys, values, typed.Config{})
	require.NoError(t, err)
	assert.Equal(t, 100, m.Len())
	assert.False(t, m.Empty())

	k, err := m.Keys()
	require.NoError(t, err)
	v, err := m.Values()
	require.NoError(t, err)
	assert.ElementsMatch(t, keys, k)

	found, err := m.Find(k)
	require.NoError(t, err)
	assert.Equal(t, v, found)

	absent, err := m.Find([]int32{1})
	require.NoError(t, err)
	assert.True(t, kinds.IsNA(absent[0]))
}

func TestCaches(t *testing.T) {
	t.Parallel()

	m, err := typed.New([]string{"x", "y"}, []kinds.Bool{kinds.True, kinds.False}, typed.Config{})
	require.NoError(t, err)
	assert.False(t, m.KeysCached())
	assert.False(t, m.ValuesCached())

	require.NoError(t, m.CacheKeys())
	assert.True(t, m.KeysCached())
	assert.False(t, m.ValuesCached())

	// Reads do not invalidate.
	_, err = m.Find([]string{"x"})
	require.NoError(t, err)
	_, err = m.HasKeys([]string{"x"})
	require.NoError(t, err)
	assert.True(t, m.KeysCached())

	mutations := map[string]func() error{
		"insert": func() error { return m.Insert([]string{"z"}, []kinds.Bool{kinds.NABool}) },
		"erase":  func() error { return m.Erase([]string{"nope"}) },
		"clear":  func() error { m.Clear(); return nil },
		"rehash": func() error { m.Rehash(64); return nil },
	}
	for name, mutate := range mutations {
		require.NoError(t, m.CacheKeys(), name)
		require.NoError(t, m.CacheValues(), name)
		require.NoError(t, mutate(), name)
		assert.False(t, m.KeysCached(), name)
		assert.False(t, m.ValuesCached(), name)
	}

	// Keys populates the cache and returns a copy of it.
	require.NoError(t, m.Insert([]string{"a"}, []kinds.Bool{kinds.True}))
	k, err := m.Keys()
	require.NoError(t, err)
	assert.True(t, m.KeysCached())
	k[0] = "mutated"
	k2, err := m.Keys()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", k2[0])
}

func TestEraseHasKeys(t *testing.T) {
	t.Parallel()

	m, err := typed.New([]string{"x", "y"}, []int32{1, 2}, typed.Config{})
	require.NoError(t, err)

	require.NoError(t, m.Erase([]string{"y", "absent"}))
	assert.Equal(t, 1, m.Len())

	has, err := m.HasKeys([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, has)

	// Only the first key counts.
	assert.True(t, m.HasKey([]string{"x", "y"}))
	assert.False(t, m.HasKey([]string{"y", "x"}))
	assert.False(t, m.HasKey(nil))
}

func TestBounded(t *testing.T) {
	t.Parallel()

	m, err := typed.New([]int32{1, 2, 3, 4}, []string{"a", "b", "c", "d"}, typed.Config{})
	require.NoError(t, err)

	k, err := m.KeysN(2)
	require.NoError(t, err)
	assert.Len(t, k, 2)

	k, err = m.KeysN(100)
	require.NoError(t, err)
	assert.Len(t, k, 4)

	v, err := m.ValuesN(-1)
	require.NoError(t, err)
	assert.Empty(t, v)

	labels, values, err := m.DataN(3)
	require.NoError(t, err)
	assert.Len(t, labels, 3)
	assert.Len(t, values, 3)
	assert.False(t, m.KeysCached())

	// The bounded projections are prefixes of the full ones.
	all, err := m.Keys()
	require.NoError(t, err)
	k, err = m.KeysN(2)
	require.NoError(t, err)
	assert.Equal(t, all[:2], k)
}

func TestData(t *testing.T) {
	t.Parallel()

	m, err := typed.New([]float64{0, 1}, []int32{10, 11}, typed.Config{KeyTag: kinds.DateTag()})
	require.NoError(t, err)
	assert.Equal(t, "Date", m.KeyClass())
	assert.Equal(t, "integer", m.ValueClass())

	labels, values, err := m.Data()
	require.NoError(t, err)
	assert.True(t, m.KeysCached())
	assert.True(t, m.ValuesCached())

	got := map[string]int32{}
	for i, l := range labels {
		got[l] = values[i]
	}
	assert.Equal(t, map[string]int32{"1970-01-01": 10, "1970-01-02": 11}, got)

	df, err := m.DataFrame()
	require.NoError(t, err)
	assert.Equal(t, []string{kinds.ColKeys, kinds.ColValues}, df.Names)
	assert.Equal(t, 2, df.Rows())
	assert.Equal(t, kinds.DateTag(), kinds.TagOf(df.Column(kinds.ColKeys)))
}

func TestBuckets(t *testing.T) {
	t.Parallel()

	m, err := typed.New[int32, int32](nil, nil, typed.Config{Seed: 42, Seeded: true})
	require.NoError(t, err)
	assert.True(t, m.Empty())

	m.Reserve(1000)
	assert.GreaterOrEqual(t, m.BucketCount(), 1000)

	m.Rehash(0)
	assert.Equal(t, 8, m.BucketCount())

	// Hashes depend only on the seed.
	other, err := typed.New([]int32{5}, []int32{5}, typed.Config{Seed: 42, Seeded: true})
	require.NoError(t, err)
	a, err := m.HashValue([]int32{1, 2, 3})
	require.NoError(t, err)
	b, err := other.HashValue([]int32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestInterrupt(t *testing.T) {
	t.Parallel()

	n := typed.CheckpointInterval * 2
	keys := make([]int32, n)
	for i := range keys {
		keys[i] = int32(i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env := typed.Env{Ctx: ctx}

	_, err := typed.New(keys, keys, typed.Config{Env: env})
	require.ErrorIs(t, err, typed.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithCancel(context.Background())
	m, err := typed.New(keys[:10], keys[:10], typed.Config{Env: typed.Env{Ctx: ctx}})
	require.NoError(t, err)
	require.NoError(t, m.CacheKeys())
	cancel()

	// Partial progress stays, and the caches are invalid.
	err = m.Insert(keys, keys)
	require.True(t, errors.Is(err, typed.ErrInterrupted), fmt.Sprint(err))
	assert.Equal(t, typed.CheckpointInterval, m.Len())
	assert.False(t, m.KeysCached())

	// Short batches never reach a checkpoint.
	_, err = m.Find(keys[:100])
	require.NoError(t, err)
}
