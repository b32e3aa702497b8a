// Package codec converts registrar datasets to and from document formats.
//
// The file backend stores one Dataset per file; the codec is chosen from the
// file extension (.json, .yaml, .yml) or set explicitly. Both codecs write
// collections in storage order, so encoding the same dataset twice yields
// identical bytes.
package codec
