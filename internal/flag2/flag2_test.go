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

package flag2_test

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"

	"buf.build/go/hypermap/internal/flag2"
)

var size = flag.Int("flag2.size", 42, "")

func TestLookup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, *size, flag2.Lookup[int]("flag2.size"))
	assert.Empty(t, flag2.Lookup[string]("flag2.size"), "wrong type")
	assert.False(t, flag2.Lookup[bool]("flag2.missing"))
}
