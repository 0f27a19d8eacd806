// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WordsFromBytes converts a little-endian byte stream to words. A trailing
// partial word is a short read.
func WordsFromBytes(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, NewError(ErrShortRead, fmt.Sprintf("%d bytes is not a whole number of words", len(data)))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// BytesFromWords converts words to a little-endian byte stream.
func BytesFromWords(words []uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, word := range words {
		binary.LittleEndian.PutUint32(data[i*4:], word)
	}
	return data
}

// ReadWords reads r to EOF and returns its contents as words.
func ReadWords(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return WordsFromBytes(data)
}

// ReadFile reads a SPIR-V module from disk.
func ReadFile(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words, err := WordsFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}
