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

package typed

import (
	"context"
	"errors"
	"fmt"
)

// CheckpointInterval is how many elements a batch loop processes between
// cancellation checks.
const CheckpointInterval = 50000

var (
	// ErrLengthMismatch is reported, as a warning, when keys and values of
	// a batch differ in length.
	ErrLengthMismatch = errors.New("length(keys) != length(values)")

	// ErrInterrupted is returned when a batch loop observes that its context
	// is done. It wraps the context's error.
	ErrInterrupted = errors.New("interrupted")
)

// Env is the environment a map reports to.
type Env struct {
	// Ctx is polled at every checkpoint. Nil means never cancelled.
	Ctx context.Context

	// Warn receives recoverable conditions. Nil drops them.
	Warn func(op string, err error)
}

// Warnf reports a warning wrapping err.
func (e Env) Warnf(op string, err error, format string, args ...any) {
	if e.Warn == nil {
		return
	}
	if format != "" {
		err = fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	}
	e.Warn(op, err)
}

// Checkpoint is called with the index of every element a batch loop
// processes. Every [CheckpointInterval] elements, it reports whether the
// loop should stop.
func (e Env) Checkpoint(i int) error {
	if i == 0 || i%CheckpointInterval != 0 || e.Ctx == nil {
		return nil
	}
	if err := e.Ctx.Err(); err != nil {
		return fmt.Errorf("%w at element %d: %w", ErrInterrupted, i, err)
	}
	return nil
}

// pairs returns how many elements of a keys/values batch to use, warning
// if the lengths differ.
func (e Env) pairs(op string, nk, nv int) int {
	if nk != nv {
		e.Warnf(op, ErrLengthMismatch, "%d keys, %d values", nk, nv)
	}
	return min(nk, nv)
}
