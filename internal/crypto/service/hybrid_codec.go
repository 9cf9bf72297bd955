package service

import (
	"encoding/binary"
	"errors"
)

const partLenSize = 4

var errMalformedPair = errors.New("malformed hybrid encoding")

// encodePair writes u32 len || classical || u32 len || pqc (big endian).
func encodePair(classical, pqc []byte) []byte {
	out := make([]byte, 0, pairSize(len(classical), len(pqc)))
	out = binary.BigEndian.AppendUint32(out, uint32(len(classical)))
	out = append(out, classical...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(pqc)))
	out = append(out, pqc...)
	return out
}

// decodePair splits an encodePair value. The returned slices alias b.
func decodePair(b []byte) (classical, pqc []byte, err error) {
	classical, rest, err := readPart(b)
	if err != nil {
		return nil, nil, err
	}
	pqc, rest, err = readPart(rest)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) != 0 {
		return nil, nil, errMalformedPair
	}
	return classical, pqc, nil
}

func readPart(b []byte) (part, rest []byte, err error) {
	if len(b) < partLenSize {
		return nil, nil, errMalformedPair
	}
	n := binary.BigEndian.Uint32(b)
	b = b[partLenSize:]
	if uint64(n) > uint64(len(b)) {
		return nil, nil, errMalformedPair
	}
	return b[:n], b[n:], nil
}

func pairSize(classical, pqc int) int {
	return 2*partLenSize + classical + pqc
}
