// Package near builds, serializes and signs NEAR transactions, and
// submits them over the RPC client.
package near

import (
	"bytes"
	"encoding/binary"
	"math/big"
)

// borshWriter accumulates NEAR's Borsh wire encoding: fixed-width little
// endian integers, length-prefixed (u32) strings and vectors.
type borshWriter struct {
	buf bytes.Buffer
}

func newBorshWriter() *borshWriter {
	return &borshWriter{}
}

func (w *borshWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *borshWriter) writeU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *borshWriter) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *borshWriter) writeU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeU128 encodes v as 16 little-endian bytes, as NEAR's u128 type
// (e.g. a FunctionCall action's deposit) requires.
func (w *borshWriter) writeU128(v *big.Int) error {
	b := v.Bytes() // big-endian, no leading zero byte
	if len(b) > 16 {
		return errAmountOverflow
	}

	var out [16]byte
	// Reverse into little-endian order, right-aligned to len(b).
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	w.buf.Write(out[:])
	return nil
}

func (w *borshWriter) writeFixedBytes(b []byte) {
	w.buf.Write(b)
}

func (w *borshWriter) writeString(s string) {
	w.writeU32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *borshWriter) writeBytes(b []byte) {
	w.writeU32(uint32(len(b)))
	w.buf.Write(b)
}
