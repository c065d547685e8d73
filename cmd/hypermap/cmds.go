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
	"bytes"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"buf.build/go/hypermap"
	"buf.build/go/hypermap/internal/dataset"
	"buf.build/go/hypermap/internal/kinds"
)

// Represents the state used when processing a command.
type Action struct {
	cmd *cobra.Command
	log *logrus.Logger
}

func newAction(cmd *cobra.Command) *Action {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	a := &Action{cmd: cmd, log: log}
	if a.getBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return a
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) options(extra ...hypermap.Option) []hypermap.Option {
	opts := []hypermap.Option{
		hypermap.WithContext(a.cmd.Context()),
		hypermap.WithLogger(a.log),
	}
	if a.cmd.Flags().Changed("seed") {
		seed, _ := a.cmd.Flags().GetUint64("seed")
		opts = append(opts, hypermap.WithSeed(seed))
	}
	return append(opts, extra...)
}

// open builds the named map from the dataset at path.
func (a *Action) open(path, name string) (*hypermap.Map, error) {
	file, err := dataset.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading dataset")
	}
	entry, err := file.Get(name)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	m, err := hypermap.New(entry.Keys, entry.Values, a.options()...)
	if err != nil {
		return nil, errors.Wrapf(err, "building map %q", name)
	}
	a.log.WithFields(logrus.Fields{"map": name, "id": m.ID()}).Debugf("built %v", m)
	return m, nil
}

// parseKeys parses command-line keys as the key kind of m.
func (a *Action) parseKeys(m *hypermap.Map, texts []string) (hypermap.Vector, error) {
	keys, err := dataset.Parse(m.KeyKind(), m.KeyTag(), texts)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s keys", m.KeyClass())
	}
	return hypermap.WithTag(keys, m.KeyTag()), nil
}

func (a *Action) print(f hypermap.Frame) error {
	return a.printTo(a.cmd.OutOrStdout(), f)
}

func show(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	m, err := action.open(args[0], args[1])
	if err != nil {
		return err
	}

	n := action.getInt("limit")
	if n < 0 {
		f, err := m.DataFrame()
		if err != nil {
			return err
		}
		return action.print(f)
	}

	keys, err := m.KeysN(n)
	if err != nil {
		return err
	}
	values, err := m.ValuesN(n)
	if err != nil {
		return err
	}
	return action.print(hypermap.Frame{
		Names:   []string{kinds.ColKeys, kinds.ColValues},
		Columns: []hypermap.Vector{keys, values},
	})
}

func find(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	m, err := action.open(args[0], args[1])
	if err != nil {
		return err
	}
	keys, err := action.parseKeys(m, args[2:])
	if err != nil {
		return err
	}
	values, err := m.Find(keys)
	if err != nil {
		return err
	}
	return action.print(hypermap.Frame{
		Names:   []string{kinds.ColKeys, kinds.ColValues},
		Columns: []hypermap.Vector{keys, values},
	})
}

func has(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	m, err := action.open(args[0], args[1])
	if err != nil {
		return err
	}
	keys, err := action.parseKeys(m, args[2:])
	if err != nil {
		return err
	}
	present, err := m.HasKeys(keys)
	if err != nil {
		return err
	}

	column := make(hypermap.Logicals, len(present))
	for i, ok := range present {
		column[i] = kinds.BoolOf(ok)
	}
	return action.print(hypermap.Frame{
		Names:   []string{kinds.ColKeys, "Present"},
		Columns: []hypermap.Vector{keys, column},
	})
}

func join(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	how, err := hypermap.ParseHow(action.getString("how"))
	if err != nil {
		return err
	}
	left, err := action.open(args[0], args[1])
	if err != nil {
		return err
	}
	right, err := action.open(args[0], args[2])
	if err != nil {
		return err
	}

	f, err := left.Join(how, right)
	if err != nil {
		return errors.Wrapf(err, "%s join of %q and %q", how, args[1], args[2])
	}
	action.log.WithField("how", how).Debugf("%d rows", f.Rows())

	path := action.getString("output")
	if path == "" {
		return action.print(f)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := action.printTo(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func save(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	m, err := action.open(args[0], args[1])
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if _, err := m.WriteTo(buf); err != nil {
		return errors.Wrapf(err, "encoding map %q", args[1])
	}
	data := buf.Bytes()
	if action.getBool("snappy") {
		data = snappy.Encode(nil, data)
	}
	if err := os.WriteFile(args[2], data, 0o644); err != nil {
		return err
	}
	action.log.WithFields(logrus.Fields{
		"entries": m.Len(),
		"raw":     buf.Len(),
		"written": len(data),
	}).Infof("saved %s", args[2])
	return nil
}

func load(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	keyKind, err := kinds.ParseKind(action.getString("key"))
	if err != nil {
		return errors.Wrap(err, "--key")
	}
	valueKind, err := kinds.ParseKind(action.getString("value"))
	if err != nil {
		return errors.Wrap(err, "--value")
	}

	var keyTag hypermap.Tag
	if class := action.getString("key-class"); class != "" {
		c, err := kinds.ParseClass(class)
		if err != nil {
			return errors.Wrap(err, "--key-class")
		}
		keyTag = hypermap.Tag{Class: c, TZ: action.getString("tz")}
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if action.getBool("snappy") {
		if data, err = snappy.Decode(nil, data); err != nil {
			return errors.Wrapf(err, "decompressing %s", args[0])
		}
	}

	m, err := hypermap.Load(bytes.NewReader(data), keyKind, valueKind,
		action.options(hypermap.WithKeyTag(keyTag))...)
	if err != nil {
		return errors.Wrapf(err, "loading %s", args[0])
	}
	f, err := m.DataFrame()
	if err != nil {
		return err
	}
	return action.print(f)
}

func stats(cmd *cobra.Command, args []string) error {
	action := newAction(cmd)
	m, err := action.open(args[0], args[1])
	if err != nil {
		return err
	}
	metrics := m.Metrics()
	if action.log.IsLevelEnabled(logrus.DebugLevel) {
		action.log.Debug(m.Dump())
	}
	return action.print(hypermap.Frame{
		Names: []string{"Stat", "Value"},
		Columns: []hypermap.Vector{
			hypermap.Strings{"map", "buckets", "load", "tombstones", "mean probes", "max probes"},
			hypermap.Strings{
				m.String(),
				kinds.Cell(hypermap.Ints{int32(m.BucketCount())}, 0),
				kinds.Cell(hypermap.Doubles{metrics.Load()}, 0),
				kinds.Cell(hypermap.Ints{int32(metrics.Tombstones)}, 0),
				kinds.Cell(hypermap.Doubles{metrics.Probes.Get()}, 0),
				kinds.Cell(hypermap.Doubles{metrics.Probes.Max()}, 0),
			},
		},
	})
}
