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

package hypermap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"buf.build/go/hypermap/internal/join"
	"buf.build/go/hypermap/internal/rawio"
	"buf.build/go/hypermap/internal/typed"
)

var (
	// ErrLengthMismatch is the warning reported when keys and values differ
	// in length. The shorter length is used.
	ErrLengthMismatch = typed.ErrLengthMismatch

	// ErrClassMismatch is the warning reported when joining maps whose keys
	// have different classes.
	ErrClassMismatch = join.ErrClassMismatch

	// ErrInterrupted is returned when an operation stops early because its
	// context is done. Whatever it had already applied stays applied.
	ErrInterrupted = typed.ErrInterrupted

	// ErrKindMismatch is returned when a vector passed to a map has a kind
	// that cannot be converted to the map's key or value kind.
	ErrKindMismatch = errors.New("vector kind does not match map")

	// ErrTruncated is returned by [Load] when its input ends partway through
	// an entry.
	ErrTruncated = rawio.ErrTruncated
)

// TypeError is returned when building a map from unsupported vector kinds.
type TypeError struct {
	Side string // Either "key" or "value".
	Kind Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("hypermap: invalid %s type: %v", e.Side, e.Kind)
}

// Warning is a recoverable condition encountered by an operation. The
// operation carries on after reporting it.
type Warning struct {
	Map uuid.UUID
	Op  string
	Err error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("hypermap: %s: %v", w.Op, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

func logWarning(logger logrus.FieldLogger) func(*Warning) {
	return func(w *Warning) {
		logger.WithFields(logrus.Fields{
			"map": w.Map.String(),
			"op":  w.Op,
		}).Warn(w.Err)
	}
}

func kindError(side string, want Kind, got Vector) error {
	var kind Kind
	if got != nil {
		kind = got.Kind()
	}
	return fmt.Errorf("hypermap: %w: %s vector is %v, map has %v", ErrKindMismatch, side, kind, want)
}
