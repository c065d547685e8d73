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

package hypermap_test

import (
	"flag"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buf.build/go/hypermap"
	"buf.build/go/hypermap/internal/flag2"
	"buf.build/go/hypermap/internal/testdata"
)

var verbose bool

func TestMain(m *testing.M) {
	flag.Parse()
	verbose = flag2.Lookup[bool]("test.v")

	if flag2.Lookup[string]("test.bench") != "" {
		fmt.Printf("compiler: %v %v\n", runtime.Compiler, runtime.Version())
	}

	m.Run()
}

func TestJoins(t *testing.T) {
	t.Parallel()

	testdata.RunAll(t, func(t *testing.T, test *testdata.TestCase) {
		var warnings []*hypermap.Warning
		a := build(t, test, test.Join.Left, collect(&warnings))
		b := build(t, test, test.Join.Right, collect(&warnings))

		how, err := hypermap.ParseHow(test.Join.How)
		require.NoError(t, err)

		got, err := a.Join(how, b)
		require.NoError(t, err)
		if verbose {
			t.Logf("%v join of %v and %v:\n%v", how, a, b, got)
		}
		test.Check(t, got)

		if test.Want.Warn {
			require.NotEmpty(t, warnings)
			assert.ErrorIs(t, warnings[0], hypermap.ErrClassMismatch)
			assert.Equal(t, a.ID(), warnings[0].Map)
		} else {
			assert.Empty(t, warnings)
		}
	})
}

func BenchmarkJoins(b *testing.B) {
	testdata.RunAll(b, func(b *testing.B, test *testdata.TestCase) {
		x := build(b, test, test.Join.Left)
		y := build(b, test, test.Join.Right)
		how, err := hypermap.ParseHow(test.Join.How)
		require.NoError(b, err)

		b.ReportAllocs()
		for range b.N {
			_, err := x.Join(how, y)
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

func TestJoinScenario(t *testing.T) {
	t.Parallel()

	a, err := hypermap.New(hypermap.Strings{"x", "y"}, hypermap.Ints{1, 2})
	require.NoError(t, err)
	b, err := hypermap.New(hypermap.Strings{"x", "z"}, hypermap.Doubles{10, 30})
	require.NoError(t, err)

	inner, err := a.InnerJoin(b)
	require.NoError(t, err)
	assert.Equal(t, hypermap.Strings{"x"}, inner.Column("Keys"))
	assert.Equal(t, hypermap.Ints{1}, inner.Column("Values.x"))
	assert.Equal(t, hypermap.Doubles{10}, inner.Column("Values.y"))

	left, err := a.LeftJoin(b)
	require.NoError(t, err)
	assert.Equal(t, a.Len(), left.Rows())

	right, err := a.RightJoin(b)
	require.NoError(t, err)
	assert.Equal(t, b.Len(), right.Rows())
	assert.Equal(t, hypermap.Integer, right.Column("Values.x").Kind())
	assert.Equal(t, hypermap.Double, right.Column("Values.y").Kind())

	full, err := a.FullJoin(b)
	require.NoError(t, err)
	assert.Equal(t, 3, full.Rows())
	assert.Equal(t, "z", full.Column("Keys").(hypermap.Strings)[2])
}

func TestHow(t *testing.T) {
	t.Parallel()

	for _, how := range []hypermap.How{hypermap.Inner, hypermap.Left, hypermap.Right, hypermap.Full} {
		parsed, err := hypermap.ParseHow(how.String())
		require.NoError(t, err)
		assert.Equal(t, how, parsed)
	}
	_, err := hypermap.ParseHow("cross")
	require.Error(t, err)
	assert.Equal(t, "How(7)", hypermap.How(7).String())
}

func build(t testing.TB, test *testdata.TestCase, name string, opts ...hypermap.Option) *hypermap.Map {
	t.Helper()

	entry, err := test.Get(name)
	require.NoError(t, err)
	m, err := hypermap.New(entry.Keys, entry.Values, opts...)
	require.NoError(t, err)
	return m
}
