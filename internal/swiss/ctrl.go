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
	"fmt"
	"math/bits"
)

const (
	lows  = 0x0101_0101_0101_0101
	highs = lows << 7

	// Control byte states. A full slot stores h2, which always has its high
	// bit set, so these can never collide with a full slot.
	empty   = 0x00
	deleted = 0x01
)

// prober walks the groups of a table in triangular order, which visits every
// group exactly once when the group count is a power of two.
type prober struct {
	ctrl    []ctrl
	i, mask int
	h1      int
}

func newProber(words []ctrl, hash hash) prober {
	return prober{
		ctrl: words,
		mask: len(words) - 1,
		h1:   int(hash.h1()) & (len(words) - 1),
	}
}

func (p prober) next() (prober, int, ctrl) {
	n := p.h1
	ctrl := p.ctrl[n]

	// We evaluate f(i) = (i^2 + i)/2 mod buckets recursively, noting that for
	// j = i+1,
	//
	//  f(j) = (j^2 + j)/2
	//       = (i^2 + 2i + 1 + i + 1)/2
	//       = (i^2 + i)/2 + (2i+2)/2
	//       = f(i) + i + 1
	//       = f(i) + j
	p.i++
	p.h1 += p.i
	p.h1 &= p.mask

	return p, n, ctrl
}

// ctrl is a group of eight control bytes. Byte j of the group is stored in
// bits [8j, 8j+8).
type ctrl uint64

func broadcast(b byte) ctrl {
	return ctrl(b) * lows
}

// matches returns a mask with the high bit set in each byte equal to needle.
//
// Bytes above a true match may be reported spuriously; the lowest reported
// byte is always exact.
func (c ctrl) matches(needle ctrl) ctrl {
	x := c ^ needle
	return (x - lows) &^ x & highs
}

func (c ctrl) next() (ctrl, bool) {
	return ctrl(bits.RotateLeft64(uint64(c), -8)), c&0xff != 0
}

// first returns the index of the first byte equal to needle, or 8.
func (c ctrl) first(needle ctrl) int {
	return bits.TrailingZeros64(uint64(c.matches(needle))) / 8
}

// byteAt returns the j-th control byte of c.
func (c ctrl) byteAt(j int) byte {
	return byte(c >> (8 * j))
}

// with returns c with the j-th control byte replaced with b.
func (c ctrl) with(j int, b byte) ctrl {
	shift := 8 * j
	return c&^(0xff<<shift) | ctrl(b)<<shift
}

func (c ctrl) String() string {
	return fmt.Sprintf("%016x", uint64(c))
}
