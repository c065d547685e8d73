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

import "fmt"

// Class is the semantic class of a vector, on top of its kind.
type Class int

const (
	Plain    Class = iota
	Date           // Days since the Unix epoch.
	DateTime       // Seconds since the Unix epoch.
)

// String implements [fmt.Stringer].
func (c Class) String() string {
	switch c {
	case Plain:
		return "plain"
	case Date:
		return "Date"
	case DateTime:
		return "POSIXct"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// ParseClass is the inverse of [Class.String]. The empty string is [Plain].
func ParseClass(s string) (Class, error) {
	switch s {
	case "", "plain":
		return Plain, nil
	case "Date", "date":
		return Date, nil
	case "POSIXct", "datetime":
		return DateTime, nil
	default:
		return Plain, fmt.Errorf("unknown class %q", s)
	}
}

// Tag is the semantic tag of a map's keys or values.
type Tag struct {
	Class Class

	// TZ is the IANA zone used to display a [DateTime]. Empty means UTC.
	TZ string
}

// DateTag and DateTimeTag are shorthands for the two non-plain tags.
func DateTag() Tag               { return Tag{Class: Date} }
func DateTimeTag(tz string) Tag { return Tag{Class: DateTime, TZ: tz} }

// IsPlain returns whether this is the zero tag.
func (t Tag) IsPlain() bool {
	return t.Class == Plain
}

// Name returns the class name of a vector of kind k carrying this tag. Two
// tags are compatible for joining when their names agree; the zone of a
// [DateTime] does not take part.
func (t Tag) Name(k Kind) string {
	if t.Class == Plain {
		return k.String()
	}
	return t.Class.String()
}

// String implements [fmt.Stringer].
func (t Tag) String() string {
	if t.Class == DateTime && t.TZ != "" {
		return fmt.Sprintf("%v[%s]", t.Class, t.TZ)
	}
	return t.Class.String()
}
