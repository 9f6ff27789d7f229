// Package crc provides an incremental checksum engine: seedable CRC32
// (IEEE 802.3, reflected) and Adler32, both exposing the same
// update(seed, bytes) -> seed contract so the validator can feed a
// file in fixed-size chunks and keep only the running checksum between
// calls.
package crc

import (
	"hash/crc32"
)

// UpdateCRC32 folds p into the running CRC32-IEEE checksum seed.
// UpdateCRC32(UpdateCRC32(seed, a), b) == UpdateCRC32(seed, a+b) for any
// split of a concatenated byte stream into a, b.
func UpdateCRC32(seed uint32, p []byte) uint32 {
	return crc32.Update(seed, crc32.IEEETable, p)
}

// UpdateAdler32 folds p into the running Adler32 checksum seed, using
// the same seed==0-means-fresh-start convention as UpdateCRC32. Not
// used by the validator, but kept to the same incremental contract as
// a general-purpose checksum alongside CRC32.
func UpdateAdler32(seed uint32, p []byte) uint32 {
	const modAdler = 65521
	a, b := seed&0xffff, (seed>>16)&0xffff
	if seed == 0 {
		a = 1
	}
	for _, c := range p {
		a = (a + uint32(c)) % modAdler
		b = (b + a) % modAdler
	}
	return (b << 16) | a
}
