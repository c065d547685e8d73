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

package kinds

import (
	"fmt"
	"strings"
)

// Column names used by map frames and join results.
const (
	ColKeys    = "Keys"
	ColValues  = "Values"
	ColValuesX = "Values.x"
	ColValuesY = "Values.y"
)

// Frame is an ordered table of equal-length named columns.
type Frame struct {
	Names   []string
	Columns []Vector
}

// NewFrame builds a frame from alternating names and columns.
func NewFrame(cols ...any) Frame {
	var f Frame
	for i := 0; i+1 < len(cols); i += 2 {
		f.Names = append(f.Names, cols[i].(string)) //nolint:errcheck
		f.Columns = append(f.Columns, cols[i+1].(Vector)) //nolint:errcheck
	}
	return f
}

// Rows returns the number of rows.
func (f Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return f.Columns[0].Len()
}

// Column returns the named column, or nil.
func (f Frame) Column(name string) Vector {
	for i, n := range f.Names {
		if n == name {
			return f.Columns[i]
		}
	}
	return nil
}

// Cells renders row i of every column as text.
func (f Frame) Cells(i int) []string {
	out := make([]string, len(f.Columns))
	for j, c := range f.Columns {
		out[j] = Cell(c, i)
	}
	return out
}

// Text renders every row as text. Each column's formatter is built once.
func (f Frame) Text() [][]string {
	columns := make([]func(int) string, len(f.Columns))
	for j, c := range f.Columns {
		columns[j] = Labeler(c)
	}
	rows := make([][]string, f.Rows())
	for i := range rows {
		row := make([]string, len(columns))
		for j, label := range columns {
			row[j] = label(i)
		}
		rows[i] = row
	}
	return rows
}

// String implements [fmt.Stringer].
func (f Frame) String() string {
	buf := new(strings.Builder)
	fmt.Fprintln(buf, strings.Join(f.Names, "\t"))
	for _, row := range f.Text() {
		fmt.Fprintln(buf, strings.Join(row, "\t"))
	}
	return buf.String()
}

// Cell renders element i of v as text, honoring its tag.
func Cell(v Vector, i int) string {
	return Labeler(v)(i)
}

// Labeler returns a function rendering elements of v as text, honoring its
// tag.
func Labeler(v Vector) func(i int) string {
	f := NewFormatter(TagOf(v))
	switch v := Untag(v).(type) {
	case Ints:
		return func(i int) string { return Format(f, v[i]) }
	case Doubles:
		return func(i int) string { return Format(f, v[i]) }
	case Strings:
		return func(i int) string { return Format(f, v[i]) }
	case Logicals:
		return func(i int) string { return Format(f, v[i]) }
	case Complexes:
		return func(i int) string { return Format(f, v[i]) }
	default:
		return func(int) string { return "" }
	}
}
