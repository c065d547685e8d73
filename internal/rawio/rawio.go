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

// Package rawio reads and writes map entries as flat raw bytes.
//
// A fixed-width scalar is its native-endian in-memory representation: four
// bytes for integers and logicals, eight for doubles, sixteen for complex
// numbers (real part first). A string is an eight-byte length followed by
// that many bytes, with no terminator. A pair is its key followed by its
// value. There is no header, version or checksum.
package rawio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"buf.build/go/hypermap/internal/kinds"
)

// MaxString bounds the length prefix a reader accepts.
const MaxString = 1 << 31

// chunk is the largest string a reader allocates for before seeing its bytes.
const chunk = 64 << 10

var (
	// ErrTruncated is returned when input ends partway through an entry.
	ErrTruncated = errors.New("truncated entry")

	// ErrTooLong is returned for a string longer than [MaxString].
	ErrTooLong = errors.New("string too long")
)

var order = binary.NativeEndian

// Writer writes entries to an underlying stream. The first error is sticky;
// later writes are no-ops.
type Writer struct {
	w   *bufio.Writer
	n   int64
	err error
	buf [16]byte
}

// NewWriter returns a writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Flush flushes buffered bytes, returning the first error seen.
func (w *Writer) Flush() error {
	if w.err == nil {
		w.err = w.w.Flush()
	}
	return w.err
}

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 {
	return w.n
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	w.err = err
}

// WriteScalar writes a single value.
func WriteScalar[V kinds.Value](w *Writer, v V) {
	b := w.buf[:]
	switch v := any(v).(type) {
	case int32:
		order.PutUint32(b, uint32(v))
		w.write(b[:4])
	case kinds.Bool:
		order.PutUint32(b, uint32(v))
		w.write(b[:4])
	case float64:
		order.PutUint64(b, math.Float64bits(v))
		w.write(b[:8])
	case complex128:
		order.PutUint64(b, math.Float64bits(real(v)))
		order.PutUint64(b[8:], math.Float64bits(imag(v)))
		w.write(b[:16])
	case string:
		order.PutUint64(b, uint64(len(v)))
		w.write(b[:8])
		if w.err == nil {
			n, err := w.w.WriteString(v)
			w.n += int64(n)
			w.err = err
		}
	}
}

// WritePair writes a key followed by its value.
func WritePair[K kinds.Key, V kinds.Value](w *Writer, k K, v V) {
	WriteScalar(w, k)
	WriteScalar(w, v)
}

// Reader reads entries from an underlying stream.
type Reader struct {
	r   *bufio.Reader
	buf [16]byte
}

// NewReader returns a reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadScalar reads a single value. It returns [io.EOF] only if the stream
// ends before the value's first byte.
func ReadScalar[V kinds.Value](r *Reader) (V, error) {
	var z V
	var out any
	b := r.buf[:]

	switch any(z).(type) {
	case int32:
		if err := r.fill(b[:4]); err != nil {
			return z, err
		}
		out = int32(order.Uint32(b))
	case kinds.Bool:
		if err := r.fill(b[:4]); err != nil {
			return z, err
		}
		out = kinds.Bool(int32(order.Uint32(b)))
	case float64:
		if err := r.fill(b[:8]); err != nil {
			return z, err
		}
		out = math.Float64frombits(order.Uint64(b))
	case complex128:
		if err := r.fill(b[:16]); err != nil {
			return z, err
		}
		out = complex(
			math.Float64frombits(order.Uint64(b)),
			math.Float64frombits(order.Uint64(b[8:])),
		)
	case string:
		if err := r.fill(b[:8]); err != nil {
			return z, err
		}
		n := order.Uint64(b)
		if n > MaxString {
			return z, fmt.Errorf("%w: %d bytes", ErrTooLong, n)
		}
		s, err := r.readString(int64(n))
		if err != nil {
			return z, err
		}
		out = s
	}
	return out.(V), nil //nolint:errcheck
}

// ReadPair reads a key followed by its value. It returns [io.EOF] only at a
// clean boundary between pairs.
func ReadPair[K kinds.Key, V kinds.Value](r *Reader) (K, V, error) {
	var v V
	k, err := ReadScalar[K](r)
	if err != nil {
		return k, v, err
	}
	v, err = ReadScalar[V](r)
	if err == io.EOF {
		err = fmt.Errorf("%w: key without value", ErrTruncated)
	}
	return k, v, err
}

// readString reads an n-byte string. Long strings are read in chunks, so a
// corrupt length prefix costs only as much memory as the input really holds.
func (r *Reader) readString(n int64) (string, error) {
	if n <= chunk {
		s := make([]byte, n)
		if _, err := io.ReadFull(r.r, s); err != nil {
			return "", truncatedString(n, err)
		}
		return string(s), nil
	}

	buf := new(strings.Builder)
	buf.Grow(chunk)
	if _, err := io.CopyN(buf, r.r, n); err != nil {
		return "", truncatedString(n, err)
	}
	return buf.String(), nil
}

func truncatedString(n int64, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: string of %d bytes: %w", ErrTruncated, n, err)
}

func (r *Reader) fill(b []byte) error {
	n, err := io.ReadFull(r.r, b)
	switch {
	case err == nil:
		return nil
	case n == 0 && errors.Is(err, io.EOF):
		return io.EOF
	default:
		return fmt.Errorf("%w: got %d of %d bytes: %w", ErrTruncated, n, len(b), err)
	}
}
