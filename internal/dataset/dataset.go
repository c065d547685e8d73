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

// Package dataset loads named key/value vectors from YAML.
//
// A dataset file looks like this:
//
//	maps:
//	  prices:
//	    key: character
//	    value: numeric
//	    keys: [apple, pear, fig]
//	    values: [1.5, 2, NA]
//	  holidays:
//	    key: numeric
//	    key_class: Date
//	    value: character
//	    keys: [2024-12-25, 2025-01-01]
//	    values: [christmas, new year]
//
// Every element may be written as NA, or null, to make it missing. Dates and
// datetimes may be written either as text or as raw day or second counts.
package dataset

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"buf.build/go/hypermap/internal/kinds"
)

// File is a decoded dataset.
type File struct {
	Maps map[string]*Entry `yaml:"maps"`
}

// Entry is one named pair of key and value vectors.
type Entry struct {
	Name string `yaml:"-"`

	KeyKind    string `yaml:"key"`
	ValueKind  string `yaml:"value"`
	KeyClass   string `yaml:"key_class"`
	ValueClass string `yaml:"value_class"`
	TZ         string `yaml:"tz"`

	RawKeys   []yaml.Node `yaml:"keys"`
	RawValues []yaml.Node `yaml:"values"`

	Keys   kinds.Vector `yaml:"-"`
	Values kinds.Vector `yaml:"-"`
}

// Load reads and decodes the dataset at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode decodes a dataset. Unknown fields are an error.
func Decode(r io.Reader) (*File, error) {
	f := new(File)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, err
	}
	if err := f.Resolve(); err != nil {
		return nil, err
	}
	return f, nil
}

// Resolve parses the raw elements of every map into vectors. [Decode] calls
// it; documents that embed a File must call it themselves.
func (f *File) Resolve() error {
	for name, e := range f.Maps {
		if e == nil {
			return fmt.Errorf("map %q: empty entry", name)
		}
		e.Name = name
		if err := e.resolve(); err != nil {
			return fmt.Errorf("map %q: %w", name, err)
		}
	}
	return nil
}

// Names returns the names of every map, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Maps))
	for name := range f.Maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named map.
func (f *File) Get(name string) (*Entry, error) {
	e, ok := f.Maps[name]
	if !ok {
		return nil, fmt.Errorf("no map named %q; have %s", name, strings.Join(f.Names(), ", "))
	}
	return e, nil
}

// KeyTag returns the tag for the entry's keys.
func (e *Entry) KeyTag() (kinds.Tag, error) {
	return tag(e.KeyClass, e.TZ)
}

// ValueTag returns the tag for the entry's values.
func (e *Entry) ValueTag() (kinds.Tag, error) {
	return tag(e.ValueClass, e.TZ)
}

func (e *Entry) resolve() error {
	keyTag, err := e.KeyTag()
	if err != nil {
		return err
	}
	valueTag, err := e.ValueTag()
	if err != nil {
		return err
	}

	if e.Keys, err = Column(e.KeyKind, keyTag, e.RawKeys); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	if e.Values, err = Column(e.ValueKind, valueTag, e.RawValues); err != nil {
		return fmt.Errorf("values: %w", err)
	}
	return nil
}

// Column parses scalar nodes into a vector of the named kind.
func Column(kind string, tag kinds.Tag, nodes []yaml.Node) (kinds.Vector, error) {
	k, err := kinds.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		if n.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: expected a scalar", n.Line)
		}
		texts[i] = n.Value
		if n.Tag == "!!null" {
			texts[i] = kinds.NAString
		}
	}
	v, err := Parse(k, tag, texts)
	if err != nil {
		return nil, err
	}
	return kinds.WithTag(v, tag), nil
}

// Parse parses text elements into an untagged vector of kind k. tag is used
// to interpret dates and datetimes.
func Parse(k kinds.Kind, tag kinds.Tag, texts []string) (kinds.Vector, error) {
	switch k {
	case kinds.Integer:
		return parseAll(texts, func(s string) (int32, error) {
			if tag.Class != kinds.Plain {
				t, err := parseTime(s, tag)
				return int32(t), err
			}
			n, err := strconv.ParseInt(s, 10, 32)
			return int32(n), err
		}, kinds.Wrap[int32])
	case kinds.Double:
		return parseAll(texts, func(s string) (float64, error) {
			if tag.Class != kinds.Plain {
				return parseTime(s, tag)
			}
			return parseDouble(s)
		}, kinds.Wrap[float64])
	case kinds.String:
		return parseAll(texts, func(s string) (string, error) { return s, nil }, kinds.Wrap[string])
	case kinds.Logical:
		return parseAll(texts, func(s string) (kinds.Bool, error) {
			b, err := strconv.ParseBool(s)
			return kinds.BoolOf(b), err
		}, kinds.Wrap[kinds.Bool])
	case kinds.Complex:
		return parseAll(texts, func(s string) (complex128, error) {
			return strconv.ParseComplex(s, 128)
		}, kinds.Wrap[complex128])
	default:
		return nil, fmt.Errorf("unsupported kind %v", k)
	}
}

func parseAll[V kinds.Value](texts []string, parse func(string) (V, error), wrap func([]V) kinds.Vector) (kinds.Vector, error) {
	out := make([]V, len(texts))
	for i, s := range texts {
		if s == kinds.NAString {
			out[i] = kinds.NA[V]()
			continue
		}
		v, err := parse(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return wrap(out), nil
}

func parseDouble(s string) (float64, error) {
	switch s {
	case "Inf", "+Inf":
		return math.Inf(1), nil
	case "-Inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseTime parses a date as days, or a datetime as seconds, since the epoch.
// Plain numbers are taken as already counted.
func parseTime(s string, tag kinds.Tag) (float64, error) {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, nil
	}

	if tag.Class == kinds.Date {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return 0, err
		}
		return math.Floor(float64(t.Unix()) / (24 * 60 * 60)), nil
	}

	loc := time.UTC
	if tag.TZ != "" {
		l, err := time.LoadLocation(tag.TZ)
		if err != nil {
			return 0, err
		}
		loc = l
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc)
	if err != nil {
		return 0, err
	}
	return float64(t.Unix()), nil
}

func tag(class, tz string) (kinds.Tag, error) {
	c, err := kinds.ParseClass(class)
	if err != nil {
		return kinds.Tag{}, err
	}
	t := kinds.Tag{Class: c}
	if c == kinds.DateTime {
		t.TZ = tz
	}
	return t, nil
}
