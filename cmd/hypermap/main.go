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

// Command hypermap builds maps from YAML datasets, and queries and joins them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show file map",
		Short: "Print the entries of a map",
		Args:  cobra.ExactArgs(2),
		RunE:  show}
	cmd.Flags().IntP("limit", "n", -1, "print at most this many entries")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "find file map key+",
		Short: "Look up keys in a map",
		Args:  cobra.MinimumNArgs(3),
		RunE:  find}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "has file map key+",
		Short: "Test whether keys are present in a map",
		Args:  cobra.MinimumNArgs(3),
		RunE:  has}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "join file left right",
		Short: "Join two maps by key",
		Args:  cobra.ExactArgs(3),
		RunE:  join}
	cmd.Flags().String("how", "inner", "join type: inner, left, right or full")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "save file map dump",
		Short: "Write the entries of a map as raw bytes",
		Args:  cobra.ExactArgs(3),
		RunE:  save}
	cmd.Flags().Bool("snappy", false, "compress the dump")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "load dump",
		Short: "Read a raw dump written by save, and print its entries",
		Args:  cobra.ExactArgs(1),
		RunE:  load}
	cmd.Flags().String("key", "character", "kind of the keys")
	cmd.Flags().String("value", "character", "kind of the values")
	cmd.Flags().String("key-class", "", "class of the keys: Date or POSIXct")
	cmd.Flags().String("tz", "", "time zone of POSIXct keys")
	cmd.Flags().Bool("snappy", false, "the dump is compressed")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "stats file map",
		Short: "Print hash table statistics for a map",
		Args:  cobra.ExactArgs(2),
		RunE:  stats}
	root.AddCommand(cmd)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "hypermap",
		Short:         "Typed hash maps over YAML datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	root.PersistentFlags().Uint64("seed", 0, "hash seed (default: random)")
	root.PersistentFlags().StringP("format", "f", "", "output format: table, tsv, shell or parquet (default: table on a terminal, else tsv)")
	addCommands(root)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRoot().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
