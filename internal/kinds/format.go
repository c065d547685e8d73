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
	"math"
	"strconv"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	secondsPerDay  = 24 * 60 * 60
)

// Formatter renders values as display labels.
type Formatter struct {
	tag Tag
	loc *time.Location
}

// NewFormatter returns a formatter for values carrying tag. An unknown zone
// falls back to UTC.
func NewFormatter(tag Tag) *Formatter {
	f := &Formatter{tag: tag, loc: time.UTC}
	if tag.Class == DateTime && tag.TZ != "" {
		if loc, err := time.LoadLocation(tag.TZ); err == nil {
			f.loc = loc
		}
	}
	return f
}

// Format renders a single value. NA renders as "NA".
func Format[V Value](f *Formatter, v V) string {
	if IsNA(v) {
		return NAString
	}

	switch v := any(v).(type) {
	case int32:
		return f.number(float64(v), strconv.Itoa(int(v)))
	case float64:
		return f.number(v, formatDouble(v))
	case string:
		return v
	case Bool:
		if v == False {
			return "FALSE"
		}
		return "TRUE"
	case complex128:
		im := imag(v)
		sign := "+"
		if im < 0 || math.Signbit(im) {
			sign = "-"
			im = -im
		}
		return formatDouble(real(v)) + sign + formatDouble(im) + "i"
	default:
		return ""
	}
}

// Labels renders every element of s.
func Labels[V Value](s []V, tag Tag) []string {
	f := NewFormatter(tag)
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = Format(f, v)
	}
	return out
}

func (f *Formatter) number(v float64, plain string) string {
	switch f.tag.Class {
	case Date:
		days := math.Floor(v)
		return time.Unix(int64(days)*secondsPerDay, 0).UTC().Format(dateLayout)
	case DateTime:
		sec := math.Floor(v)
		nsec := (v - sec) * 1e9
		return time.Unix(int64(sec), int64(nsec)).In(f.loc).Format(dateTimeLayout)
	default:
		return plain
	}
}

func formatDouble(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', 15, 64)
}
