// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import "github.com/gogpu/spir2cross/spirv"

// Resource is a shader interface variable exposed by reflection.
type Resource struct {
	// ID of the variable.
	ID uint32

	// TypeID is the block type for uniform and storage buffers and the
	// variable's pointer type otherwise.
	TypeID uint32

	// BaseTypeID is the innermost type behind pointers and arrays.
	BaseTypeID uint32

	// Name is the block name for uniform and storage buffers and the
	// variable name otherwise. It is empty when the module carries no
	// debug name.
	Name string
}

// ShaderResources groups the interface variables of a module by kind.
type ShaderResources struct {
	UniformBuffers      []Resource
	StorageBuffers      []Resource
	StageInputs         []Resource
	StageOutputs        []Resource
	SubpassInputs       []Resource
	StorageImages       []Resource
	SampledImages       []Resource
	AtomicCounters      []Resource
	PushConstantBuffers []Resource
}

// isHidden reports whether a variable is a built-in, either directly or
// through a built-in block such as gl_PerVertex.
func (c *Compiler) isHidden(v variable) bool {
	if c.DecorationMask(v.id).Has(spirv.DecorationBuiltIn) {
		return true
	}
	self := c.Type(v.typeID).Self
	for i := range c.members[self] {
		if c.members[self][i].mask.Has(spirv.DecorationBuiltIn) {
			return true
		}
	}
	return false
}

// ShaderResources classifies the global variables of the module.
func (c *Compiler) ShaderResources() ShaderResources {
	var res ShaderResources

	for _, v := range c.variables {
		if c.isHidden(v) {
			continue
		}

		ptr := c.Type(v.typeID)
		base := c.Type(ptr.Self)
		blockMask := c.DecorationMask(base.ID)

		plain := Resource{ID: v.id, TypeID: v.typeID, BaseTypeID: base.ID, Name: c.names[v.id]}
		block := Resource{ID: v.id, TypeID: base.ID, BaseTypeID: base.ID, Name: c.names[base.ID]}

		switch v.storage {
		case spirv.StorageClassInput:
			res.StageInputs = append(res.StageInputs, plain)
		case spirv.StorageClassOutput:
			res.StageOutputs = append(res.StageOutputs, plain)
		case spirv.StorageClassUniform:
			switch {
			case blockMask.Has(spirv.DecorationBlock):
				res.UniformBuffers = append(res.UniformBuffers, block)
			case blockMask.Has(spirv.DecorationBufferBlock):
				res.StorageBuffers = append(res.StorageBuffers, block)
			}
		case spirv.StorageClassStorageBuffer:
			res.StorageBuffers = append(res.StorageBuffers, block)
		case spirv.StorageClassPushConstant:
			res.PushConstantBuffers = append(res.PushConstantBuffers, plain)
		case spirv.StorageClassAtomicCounter:
			res.AtomicCounters = append(res.AtomicCounters, plain)
		case spirv.StorageClassUniformConstant:
			switch {
			case base.BaseType == BaseImage && base.Image.Dim == spirv.DimSubpassData:
				res.SubpassInputs = append(res.SubpassInputs, plain)
			case base.BaseType == BaseImage && base.Image.Sampled == 2:
				res.StorageImages = append(res.StorageImages, plain)
			case base.BaseType == BaseSampledImage:
				res.SampledImages = append(res.SampledImages, plain)
			}
		}
	}

	return res
}
