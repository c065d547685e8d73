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

// Package testdata is a corpus of join scenarios.
//
// Each YAML file under joins/ declares some maps, in the format of
// [dataset], a join to run between two of them, and the expected rows.
package testdata

import (
	"bytes"
	"embed"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"buf.build/go/hypermap/internal/dataset"
	"buf.build/go/hypermap/internal/debug"
	"buf.build/go/hypermap/internal/kinds"
)

//go:embed joins
var testdata embed.FS

// Harness is a generalization of [testing.TB] that also includes the
// [testing.T.Run] method. It must be generic because the signature of this
// function varies across [testing.T] and [testing.B].
type Harness[T any] interface {
	testing.TB
	Run(string, func(T)) bool
}

// TestCase is a single scenario from the corpus.
type TestCase struct {
	Name string `yaml:"-"`

	dataset.File `yaml:",inline"`

	// If set, run this test as a benchmark.
	Benchmark bool `yaml:"benchmark"`

	Join struct {
		Left  string `yaml:"left"`
		Right string `yaml:"right"`
		How   string `yaml:"how"`
	} `yaml:"join"`

	Want struct {
		// Rows are the expected cells, with keys first. Unless Ordered is
		// set, row order is not checked.
		Rows    [][]string `yaml:"rows"`
		Ordered bool       `yaml:"ordered"`

		// Warn is set if the join is expected to report a warning.
		Warn bool `yaml:"warn"`
	} `yaml:"want"`
}

// RunAll runs all of the test cases against the given harness.
func RunAll[T Harness[T]](t T, f func(T, *TestCase)) {
	t.Helper()

	var failed atomic.Bool
	err := fs.WalkDir(testdata, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err, "loading test %q", path)

		if d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		t.Run(strings.TrimPrefix(path, "joins/"), func(t T) {
			if t, ok := any(t).(*testing.T); ok {
				t.Parallel()
			}

			defer failed.CompareAndSwap(false, t.Failed())

			data, err := fs.ReadFile(testdata, path)
			require.NoError(t, err, "loading test %q", path)

			test := parseTestCase(t, path, data)
			if test != nil {
				f(t, test)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

// Check compares a join result against the expected rows.
func (test *TestCase) Check(t testing.TB, got kinds.Frame) {
	t.Helper()

	require.Equal(t, []string{kinds.ColKeys, kinds.ColValuesX, kinds.ColValuesY}, got.Names)

	rows := make([][]string, got.Rows())
	for i := range rows {
		rows[i] = got.Cells(i)
	}
	want := slices.Clone(test.Want.Rows)
	if want == nil {
		want = [][]string{}
	}

	if !test.Want.Ordered {
		sortRows(rows)
		sortRows(want)
	}
	assert.Equal(t, want, rows, "%s: %s join of %s and %s", test.Name, test.Join.How, test.Join.Left, test.Join.Right)
}

func sortRows(rows [][]string) {
	slices.SortFunc(rows, func(a, b []string) int {
		return slices.Compare(a, b)
	})
}

// parseTestCase parses a single test case from the given data.
//
// This will call t.FailNow() if testing fails.
func parseTestCase(t testing.TB, path string, file []byte) *TestCase {
	t.Helper()
	defer debug.WithTesting(t)()

	require.True(t, bytes.HasSuffix(file, []byte("\n")), "missing trailing newline in %q", path)

	test := new(TestCase)
	dec := yaml.NewDecoder(bytes.NewReader(file))
	dec.KnownFields(true)
	err := dec.Decode(test)
	require.NoError(t, err, "loading test %q", path)
	require.NoError(t, test.Resolve(), "loading test %q", path)

	_, isBench := t.(*testing.B)
	if isBench && !test.Benchmark {
		t.SkipNow()
	}

	test.Name = strings.TrimPrefix(path, "joins/")
	for _, name := range []string{test.Join.Left, test.Join.Right} {
		_, err := test.Get(name)
		require.NoError(t, err, "loading test %q", path)
	}
	return test
}
