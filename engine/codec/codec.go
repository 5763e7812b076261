// Package codec serializes syntax trees and their execution metadata into a
// self-describing, checksummed binary record and back.
//
// Record layout: a 28-byte header followed by the payload. The payload is
// the recursively encoded tree (one tag byte plus a line number per node,
// 0xFF marking an absent child) with the metadata block appended at the
// end. All integers are little-endian; the checksum is CRC-32 (IEEE
// polynomial) over the payload only.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/nsql-lang/nsql/engine/ast"
)

const (
	// HeaderSize is the fixed byte length of the record header.
	HeaderSize = 28
	// Magic identifies an NSQL record ("LQRN" when read as LE bytes).
	Magic uint32 = 0x4E52514C
	// Version is the current format version. Readers accept anything up to
	// and including it.
	Version uint32 = 0x0001
)

var (
	// ErrTooShort means the input cannot even hold a header.
	ErrTooShort = errors.New("codec: data shorter than header")
	// ErrBadMagic means the input is not an NSQL record.
	ErrBadMagic = errors.New("codec: bad magic number")
	// ErrVersion means the record was written by a newer format version.
	ErrVersion = errors.New("codec: unsupported format version")
	// ErrSizeMismatch means the header's payload length disagrees with the
	// actual input length.
	ErrSizeMismatch = errors.New("codec: payload size mismatch")
	// ErrNotEncodable is returned for nil roots and program nodes; encode a
	// program's statements individually instead.
	ErrNotEncodable = errors.New("codec: node is not encodable")
	// ErrTruncated means the payload ended in the middle of a node.
	ErrTruncated = errors.New("codec: truncated payload")
	// ErrChecksum is returned when decoding the tree of a record whose
	// checksum did not verify.
	ErrChecksum = errors.New("codec: checksum mismatch")
)

// Record is a decoded-header view of a serialized tree. A Record with
// Valid == false still exposes its payload for inspection; only tree
// decoding refuses to run on it.
type Record struct {
	Version  uint32
	Payload  []byte
	Stored   uint32 // checksum as written in the header
	Computed uint32 // checksum computed over the payload
	Valid    bool
}

// Encode serializes the tree and its metadata into a complete record,
// header included. A nil metadata pointer writes the default metadata
// block.
func Encode(node ast.Node, meta *ExecutionMetadata) ([]byte, error) {
	if node == nil || node.Kind() == ast.NodeProgram {
		return nil, ErrNotEncodable
	}

	var e encoder
	if err := e.node(node); err != nil {
		return nil, err
	}
	e.metadata(meta)

	payload := e.buf
	checksum := crc32.ChecksumIEEE(payload)

	out := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], Magic)
	binary.LittleEndian.PutUint32(out[4:], Version)
	binary.LittleEndian.PutUint32(out[8:], 0) // reserved
	binary.LittleEndian.PutUint32(out[12:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(out[16:], uint32(len(payload))) // original size, no compression
	binary.LittleEndian.PutUint32(out[20:], checksum)
	binary.LittleEndian.PutUint32(out[24:], 0) // reserved
	copy(out[HeaderSize:], payload)

	return out, nil
}

// Decode validates the header and checksum of a serialized record. Header
// problems (magic, version, length) are terminal errors; a checksum
// mismatch still produces a Record, with Valid unset, so callers can
// inspect what arrived.
func Decode(data []byte) (*Record, error) {
	if len(data) < HeaderSize {
		return nil, ErrTooShort
	}

	magic := binary.LittleEndian.Uint32(data[0:])
	version := binary.LittleEndian.Uint32(data[4:])
	size := binary.LittleEndian.Uint32(data[12:])
	stored := binary.LittleEndian.Uint32(data[20:])

	if magic != Magic {
		return nil, ErrBadMagic
	}
	if version > Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}
	if uint64(len(data)) != HeaderSize+uint64(size) {
		return nil, ErrSizeMismatch
	}

	payload := make([]byte, size)
	copy(payload, data[HeaderSize:])

	computed := crc32.ChecksumIEEE(payload)
	return &Record{
		Version:  version,
		Payload:  payload,
		Stored:   stored,
		Computed: computed,
		Valid:    computed == stored,
	}, nil
}

// Verify recomputes the payload checksum against the stored one.
func (r *Record) Verify() bool {
	return crc32.ChecksumIEEE(r.Payload) == r.Stored
}
