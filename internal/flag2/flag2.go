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

// Package flag2 reads registered flags by name, for tests that need to know
// how the test binary was invoked.
package flag2

import "flag"

// Lookup returns the value of the flag with the given name. It returns the
// zero value if no such flag is registered, or if its value is not a T.
func Lookup[T any](name string) T {
	var zero T
	f := flag.Lookup(name)
	if f == nil {
		return zero
	}
	getter, ok := f.Value.(flag.Getter)
	if !ok {
		return zero
	}
	v, _ := getter.Get().(T)
	return v
}
