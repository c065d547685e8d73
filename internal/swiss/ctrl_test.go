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

package swiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCtrl(t *testing.T) {
	t.Parallel()

	a := ctrl(0x0123456789abcdef)
	b := broadcast(0x67)
	c := a.matches(b)
	t.Log(a, b, c)

	for i := range 8 {
		var set bool
		c, set = c.next()
		assert.Equal(t, i == 4, set)
	}
}

func TestCtrlBytes(t *testing.T) {
	t.Parallel()

	var c ctrl
	assert.Equal(t, 0, c.first(broadcast(empty)))

	c = c.with(0, 0x80).with(1, deleted).with(3, 0xff)
	assert.Equal(t, byte(0x80), c.byteAt(0))
	assert.Equal(t, byte(deleted), c.byteAt(1))
	assert.Equal(t, byte(empty), c.byteAt(2))
	assert.Equal(t, byte(0xff), c.byteAt(3))

	assert.Equal(t, 2, c.first(broadcast(empty)))
	assert.Equal(t, 1, c.first(broadcast(deleted)))

	for j := range 8 {
		c = c.with(j, 0x90)
	}
	assert.Equal(t, 8, c.first(broadcast(empty)))
	assert.Equal(t, 8, c.first(broadcast(deleted)))
}
