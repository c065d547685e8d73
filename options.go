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
	"context"

	"github.com/sirupsen/logrus"
)

// Option configures a [Map] built with [New], [Map.Renew] or [Load].
type Option struct{ apply func(*options) }

type options struct {
	ctx    context.Context
	warn   func(*Warning)
	logger logrus.FieldLogger

	seed     uint64
	seeded   bool
	capacity int

	keyTag, valueTag *Tag
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.warn == nil {
		if o.logger == nil {
			o.logger = logrus.StandardLogger()
		}
		o.warn = logWarning(o.logger)
	}
	return o
}

// WithContext sets a context that long operations poll for cancellation.
//
// The context is held by the map, and applies to every later operation on
// it, including those of maps derived from it with [Map.Clone].
func WithContext(ctx context.Context) Option {
	return Option{func(o *options) { o.ctx = ctx }}
}

// WithWarningHandler sets a function to receive recoverable conditions, such
// as mismatched input lengths. By default, warnings are logged.
func WithWarningHandler(handler func(*Warning)) Option {
	return Option{func(o *options) { o.warn = handler }}
}

// WithLogger sets the logger that warnings go to when no handler is set with
// [WithWarningHandler]. The default is logrus's standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return Option{func(o *options) { o.logger = logger }}
}

// WithSeed fixes the hash seed. Maps built with the same seed report the
// same [Map.HashValue] for the same key.
func WithSeed(seed uint64) Option {
	return Option{func(o *options) { o.seed, o.seeded = seed, true }}
}

// WithCapacity reserves room for at least n entries up front.
func WithCapacity(n int) Option {
	return Option{func(o *options) { o.capacity = n }}
}

// WithKeyTag overrides the tag carried by the key vector.
func WithKeyTag(tag Tag) Option {
	return Option{func(o *options) { o.keyTag = &tag }}
}

// WithValueTag overrides the tag carried by the value vector.
func WithValueTag(tag Tag) Option {
	return Option{func(o *options) { o.valueTag = &tag }}
}
