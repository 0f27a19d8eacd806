// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Header is the five-word preamble of a SPIR-V module.
type Header struct {
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Module is a decoded SPIR-V word stream: the header and the flat
// instruction list in module order.
type Module struct {
	Header       Header
	Instructions []Instruction
}

// Decode splits a SPIR-V word stream into instructions. Operands are kept as
// raw words; no semantic validation is performed.
func Decode(words []uint32) (*Module, error) {
	if len(words) < HeaderWords {
		return nil, NewError(ErrTruncated, fmt.Sprintf("module has %d words, header needs %d", len(words), HeaderWords))
	}
	if words[0] != MagicNumber {
		return nil, NewErrorAt(ErrInvalidHeader, fmt.Sprintf("invalid magic 0x%08X", words[0]), 0)
	}

	module := &Module{
		Header: Header{
			Version:   versionFromWord(words[1]),
			Generator: words[2],
			Bound:     words[3],
			Schema:    words[4],
		},
	}

	offset := HeaderWords
	for offset < len(words) {
		word := words[offset]
		opcode := OpCode(word & 0xFFFF)
		wordCount := int(word >> 16)

		if wordCount == 0 {
			return nil, NewErrorAt(ErrInvalidWordCount, fmt.Sprintf("%s has word count 0", opcode), offset)
		}
		if offset+wordCount > len(words) {
			return nil, NewErrorAt(ErrTruncated, fmt.Sprintf("%s needs %d words, %d left", opcode, wordCount, len(words)-offset), offset)
		}

		module.Instructions = append(module.Instructions, Instruction{
			Opcode: opcode,
			Words:  words[offset+1 : offset+wordCount],
		})
		offset += wordCount
	}

	return module, nil
}

// DecodeString reads a literal string starting at words[0]. It returns the
// string and the number of words it occupies, including padding.
func DecodeString(words []uint32) (string, int) {
	var sb strings.Builder
	var buf [4]byte
	for i, word := range words {
		binary.LittleEndian.PutUint32(buf[:], word)
		for _, c := range buf {
			if c == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		}
	}
	// Unterminated: the string runs to the end of the instruction.
	return sb.String(), len(words)
}

// Operand returns operand word n, or 0 when the instruction is
// shorter.
func (i Instruction) Operand(n int) uint32 {
	if n < len(i.Words) {
		return i.Words[n]
	}
	return 0
}
