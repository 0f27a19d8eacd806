// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import "github.com/gogpu/spir2cross/spirv"

// BaseType classifies a SPIR-V type declaration.
type BaseType uint8

const (
	BaseUnknown BaseType = iota
	BaseVoid
	BaseBool
	BaseInt
	BaseUInt
	BaseFloat
	BaseStruct
	BaseImage
	BaseSampledImage
	BaseSampler
)

// ImageInfo holds the operands of OpTypeImage.
type ImageInfo struct {
	Dim          spirv.Dim
	Depth        uint32
	Arrayed      bool
	Multisampled bool
	Sampled      uint32 // 1 = sampled, 2 = storage
	Format       uint32
}

// Type is a reflected type declaration.
//
// Pointers and arrays keep the ID of the type they wrap in Element; Self is
// the innermost type reached by following pointers and arrays.
type Type struct {
	ID       uint32
	Self     uint32
	BaseType BaseType

	// Scalar width in bits for numeric types.
	Width uint32
	// VecSize is 1 for scalars, the component count for vectors and the
	// row count for matrices.
	VecSize uint32
	// Columns is 1 except for matrices.
	Columns uint32

	Pointer bool
	Storage spirv.StorageClass

	Array bool
	// ArraySize is the element count; 0 with Array set means a runtime array.
	ArraySize uint32

	Element uint32
	Members []uint32
	Image   ImageInfo
}

// IsRuntimeArray reports whether t is an OpTypeRuntimeArray.
func (t Type) IsRuntimeArray() bool {
	return t.Array && t.ArraySize == 0
}

// parseType decodes an OpType* instruction. It returns false for opcodes
// that do not declare a type.
func (c *Compiler) parseType(inst spirv.Instruction) (Type, bool) {
	t := Type{ID: inst.Operand(0), VecSize: 1, Columns: 1}
	t.Self = t.ID

	switch inst.Opcode {
	case spirv.OpTypeVoid:
		t.BaseType = BaseVoid
	case spirv.OpTypeBool:
		t.BaseType = BaseBool
		t.Width = 32
	case spirv.OpTypeInt:
		t.Width = inst.Operand(1)
		t.BaseType = BaseUInt
		if inst.Operand(2) != 0 {
			t.BaseType = BaseInt
		}
	case spirv.OpTypeFloat:
		t.BaseType = BaseFloat
		t.Width = inst.Operand(1)
	case spirv.OpTypeVector:
		component := c.types[inst.Operand(1)]
		t.BaseType = component.BaseType
		t.Width = component.Width
		t.VecSize = inst.Operand(2)
		t.Element = component.ID
	case spirv.OpTypeMatrix:
		column := c.types[inst.Operand(1)]
		t.BaseType = column.BaseType
		t.Width = column.Width
		t.VecSize = column.VecSize
		t.Columns = inst.Operand(2)
		t.Element = column.ID
	case spirv.OpTypeImage:
		t.BaseType = BaseImage
		t.Element = inst.Operand(1)
		t.Image = ImageInfo{
			Dim:          spirv.Dim(inst.Operand(2)),
			Depth:        inst.Operand(3),
			Arrayed:      inst.Operand(4) != 0,
			Multisampled: inst.Operand(5) != 0,
			Sampled:      inst.Operand(6),
			Format:       inst.Operand(7),
		}
	case spirv.OpTypeSampler:
		t.BaseType = BaseSampler
	case spirv.OpTypeSampledImage:
		image := c.types[inst.Operand(1)]
		t.BaseType = BaseSampledImage
		t.Element = image.ID
		t.Image = image.Image
	case spirv.OpTypeArray, spirv.OpTypeRuntimeArray:
		element := c.types[inst.Operand(1)]
		t = element
		t.ID = inst.Operand(0)
		t.Array = true
		t.ArraySize = 0
		t.Element = element.ID
		t.Pointer = false
		if inst.Opcode == spirv.OpTypeArray {
			t.ArraySize = c.constants[inst.Operand(2)]
		}
	case spirv.OpTypeStruct:
		t.BaseType = BaseStruct
		t.Members = append([]uint32(nil), inst.Words[1:]...)
	case spirv.OpTypePointer:
		pointee := c.types[inst.Operand(2)]
		t = pointee
		t.ID = inst.Operand(0)
		t.Pointer = true
		t.Array = false
		t.ArraySize = 0
		t.Storage = spirv.StorageClass(inst.Operand(1))
		t.Element = inst.Operand(2)
		if pointee.ID == 0 {
			// Forward pointer: resolved lazily by Type.
			t.Self = inst.Operand(2)
		}
	default:
		return Type{}, false
	}

	return t, true
}

// declaredSize returns the byte size of a type as laid out in a block.
// Runtime arrays have size 0.
func (c *Compiler) declaredSize(typeID uint32) uint64 {
	t := c.types[typeID]
	switch {
	case t.Array:
		if t.ArraySize == 0 {
			return 0
		}
		if stride, ok := c.decoration(typeID, spirv.DecorationArrayStride); ok {
			return uint64(stride) * uint64(t.ArraySize)
		}
		return c.declaredSize(t.Element) * uint64(t.ArraySize)
	case t.BaseType == BaseStruct:
		return c.declaredStructSize(typeID)
	default:
		return uint64(t.Width/8) * uint64(t.VecSize) * uint64(t.Columns)
	}
}

// declaredStructSize is the offset of the last member plus its size.
func (c *Compiler) declaredStructSize(structID uint32) uint64 {
	t := c.types[structID]
	if len(t.Members) == 0 {
		return 0
	}
	last := uint32(len(t.Members) - 1)
	return uint64(c.MemberDecoration(structID, last, spirv.DecorationOffset)) + c.declaredMemberSize(structID, last)
}

// declaredMemberSize returns the size of one struct member, honouring the
// matrix layout decorations recorded on the member.
func (c *Compiler) declaredMemberSize(structID, index uint32) uint64 {
	t := c.types[structID]
	if int(index) >= len(t.Members) {
		return 0
	}
	memberType := c.types[t.Members[index]]

	if memberType.Columns > 1 && !memberType.Array {
		if stride, ok := c.memberDecoration(structID, index, spirv.DecorationMatrixStride); ok {
			if _, rowMajor := c.memberDecoration(structID, index, spirv.DecorationRowMajor); rowMajor {
				return uint64(stride) * uint64(memberType.VecSize)
			}
			return uint64(stride) * uint64(memberType.Columns)
		}
	}

	return c.declaredSize(memberType.ID)
}
