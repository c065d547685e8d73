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

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"al.essio.dev/pkg/shellescape"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"buf.build/go/hypermap"
)

const (
	formatTable   = "table"
	formatTSV     = "tsv"
	formatShell   = "shell"
	formatParquet = "parquet"
)

// printTo writes f to w in the format selected by --format.
func (a *Action) printTo(w io.Writer, f hypermap.Frame) error {
	format := a.getString("format")
	if format == "" {
		format = formatTSV
		if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			format = formatTable
		}
	}

	switch format {
	case formatTable:
		return writeTable(w, f)
	case formatTSV:
		return writeTSV(w, f)
	case formatShell:
		return writeShell(w, f)
	case formatParquet:
		return writeParquet(w, f)
	default:
		return errors.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, f hypermap.Frame) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(f.Names, "\t"))
	for _, row := range f.Text() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeTSV(w io.Writer, f hypermap.Frame) error {
	var b strings.Builder
	b.WriteString(strings.Join(f.Names, "\t"))
	b.WriteByte('\n')
	for _, row := range f.Text() {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeShell writes one line of shell assignments per row, such as
//
//	keys=x values_x=1 values_y=NA
func writeShell(w io.Writer, f hypermap.Frame) error {
	names := make([]string, len(f.Names))
	for i, name := range f.Names {
		names[i] = identifier(name)
	}

	var b strings.Builder
	for _, row := range f.Text() {
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(names[j])
			b.WriteByte('=')
			b.WriteString(shellescape.Quote(cell))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeParquet writes f as a parquet file of optional string columns. NA
// cells are null.
func writeParquet(w io.Writer, f hypermap.Frame) error {
	group := make(parquet.Group)
	names := make([]string, len(f.Names))
	for i, name := range f.Names {
		names[i] = identifier(name)
		group[names[i]] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("frame", group)

	text := f.Text()
	records := make([]map[string]any, len(text))
	for i := range records {
		record := make(map[string]any, len(names))
		for j, column := range f.Columns {
			if column.IsNA(i) {
				record[names[j]] = nil
			} else {
				record[names[j]] = text[i][j]
			}
		}
		records[i] = record
	}

	writer := parquet.NewGenericWriter[map[string]any](w, &parquet.WriterConfig{Schema: schema})
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return errors.Wrap(err, "writing parquet rows")
	}
	return writer.Close()
}

// identifier converts a column name, such as Values.x, into a name usable as
// a shell variable or parquet column, such as values_x.
func identifier(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, ".", "_"))
}
