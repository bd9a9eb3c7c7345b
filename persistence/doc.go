// Package persistence stores codebook snapshots and OLVQ1 rate side files.
//
// A snapshot is a fixed little-endian header followed by an optionally
// compressed body. The body ends with a CRC32 of its uncompressed bytes, so
// corruption is detected regardless of compression.
//
//	header  magic "LVQ0" | version | compression | flags | dimension | count | iteration
//	body    topology | algorithm | label names | entries... | crc32
//	entry   label (zigzag varint) | points (float32 LE) | mask flag | [mask bitset]
package persistence
