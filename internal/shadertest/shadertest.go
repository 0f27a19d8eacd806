// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shadertest builds SPIR-V fixtures shared by the tests of the
// reflection, reporting and driver packages.
package shadertest

import "github.com/gogpu/spir2cross/spirv"

// Options selects variations of the fragment fixture.
type Options struct {
	// Language and Version are written as OpSource unless Language is
	// SourceLanguageUnknown.
	Language spirv.SourceLanguage
	Version  uint32

	// Unnamed drops the debug names of the SSBO block and variable.
	Unnamed bool
}

// IDs are the result IDs of the interesting declarations in the fixture.
type IDs struct {
	FragCoord uint32

	VColor    uint32
	FragColor uint32

	Subpass uint32
	Texture uint32
	Image   uint32

	UBOType uint32
	UBO     uint32

	SSBOType    uint32
	SSBOPointer uint32
	SSBO        uint32

	PushType    uint32
	PushPointer uint32
	Push        uint32

	Main uint32
}

// Fragment builds a fragment shader declaring one resource of every kind:
//
//	layout(location = 0) in vec4 vColor;
//	layout(location = 0) out vec4 FragColor;
//	layout(input_attachment_index = 0, set = 0, binding = 0) uniform subpassInput uSubpass;
//	layout(set = 0, binding = 1) uniform sampler2D uTexture;
//	layout(set = 0, binding = 2, rgba8) uniform image2D uImage;
//	layout(set = 1, binding = 0) uniform UBO { mat4 mvp; vec4 color; } ubo;
//	layout(set = 1, binding = 1) buffer SSBO { vec4 data[]; } ssbo;
//	layout(push_constant) uniform Push { float scale; vec4 tint; vec2 offset; } push;
//
// main reads push.tint and ubo.mvp only.
func Fragment(opts Options) ([]uint32, IDs) {
	var ids IDs
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	b.AddCapability(spirv.CapabilityInputAttachment)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	if opts.Language != spirv.SourceLanguageUnknown {
		b.SetSource(opts.Language, opts.Version)
	}

	voidType := b.AddTypeVoid()
	funcType := b.AddTypeFunction(voidType)
	floatType := b.AddTypeFloat(32)
	intType := b.AddTypeInt(32, true)
	vec2Type := b.AddTypeVector(floatType, 2)
	vec4Type := b.AddTypeVector(floatType, 4)
	mat4Type := b.AddTypeMatrix(vec4Type, 4)

	c0 := b.AddConstant(intType, 0)
	c1 := b.AddConstant(intType, 1)

	// Stage IO.
	inVec4 := b.AddTypePointer(spirv.StorageClassInput, vec4Type)
	outVec4 := b.AddTypePointer(spirv.StorageClassOutput, vec4Type)

	ids.FragCoord = b.AddVariable(inVec4, spirv.StorageClassInput)
	b.AddName(ids.FragCoord, "gl_FragCoord")
	b.AddDecorate(ids.FragCoord, spirv.DecorationBuiltIn, 15)

	ids.VColor = b.AddVariable(inVec4, spirv.StorageClassInput)
	b.AddName(ids.VColor, "vColor")
	b.AddDecorate(ids.VColor, spirv.DecorationLocation, 0)

	ids.FragColor = b.AddVariable(outVec4, spirv.StorageClassOutput)
	b.AddName(ids.FragColor, "FragColor")
	b.AddDecorate(ids.FragColor, spirv.DecorationLocation, 0)

	// Images.
	subpassType := b.AddTypeImage(floatType, spirv.DimSubpassData, 0, 0, 0, 2)
	subpassPtr := b.AddTypePointer(spirv.StorageClassUniformConstant, subpassType)
	ids.Subpass = b.AddVariable(subpassPtr, spirv.StorageClassUniformConstant)
	b.AddName(ids.Subpass, "uSubpass")
	b.AddDecorate(ids.Subpass, spirv.DecorationDescriptorSet, 0)
	b.AddDecorate(ids.Subpass, spirv.DecorationBinding, 0)
	b.AddDecorate(ids.Subpass, spirv.DecorationInputAttachment, 0)

	texImage := b.AddTypeImage(floatType, spirv.Dim2D, 0, 0, 0, 1)
	texType := b.AddTypeSampledImage(texImage)
	texPtr := b.AddTypePointer(spirv.StorageClassUniformConstant, texType)
	ids.Texture = b.AddVariable(texPtr, spirv.StorageClassUniformConstant)
	b.AddName(ids.Texture, "uTexture")
	b.AddDecorate(ids.Texture, spirv.DecorationDescriptorSet, 0)
	b.AddDecorate(ids.Texture, spirv.DecorationBinding, 1)

	storageImage := b.AddTypeImage(floatType, spirv.Dim2D, 0, 0, 0, 2)
	storagePtr := b.AddTypePointer(spirv.StorageClassUniformConstant, storageImage)
	ids.Image = b.AddVariable(storagePtr, spirv.StorageClassUniformConstant)
	b.AddName(ids.Image, "uImage")
	b.AddDecorate(ids.Image, spirv.DecorationDescriptorSet, 0)
	b.AddDecorate(ids.Image, spirv.DecorationBinding, 2)

	// Uniform buffer.
	ids.UBOType = b.AddTypeStruct(mat4Type, vec4Type)
	b.AddName(ids.UBOType, "UBO")
	b.AddMemberName(ids.UBOType, 0, "mvp")
	b.AddMemberName(ids.UBOType, 1, "color")
	b.AddDecorate(ids.UBOType, spirv.DecorationBlock)
	b.AddMemberDecorate(ids.UBOType, 0, spirv.DecorationColMajor)
	b.AddMemberDecorate(ids.UBOType, 0, spirv.DecorationOffset, 0)
	b.AddMemberDecorate(ids.UBOType, 0, spirv.DecorationMatrixStride, 16)
	b.AddMemberDecorate(ids.UBOType, 1, spirv.DecorationOffset, 64)
	uboPtr := b.AddTypePointer(spirv.StorageClassUniform, ids.UBOType)
	ids.UBO = b.AddVariable(uboPtr, spirv.StorageClassUniform)
	b.AddName(ids.UBO, "ubo")
	b.AddDecorate(ids.UBO, spirv.DecorationDescriptorSet, 1)
	b.AddDecorate(ids.UBO, spirv.DecorationBinding, 0)

	// Storage buffer, declared the pre-1.3 way.
	dataType := b.AddTypeRuntimeArray(vec4Type)
	b.AddDecorate(dataType, spirv.DecorationArrayStride, 16)
	ids.SSBOType = b.AddTypeStruct(dataType)
	b.AddDecorate(ids.SSBOType, spirv.DecorationBufferBlock)
	b.AddMemberDecorate(ids.SSBOType, 0, spirv.DecorationOffset, 0)
	ids.SSBOPointer = b.AddTypePointer(spirv.StorageClassUniform, ids.SSBOType)
	ids.SSBO = b.AddVariable(ids.SSBOPointer, spirv.StorageClassUniform)
	if !opts.Unnamed {
		b.AddName(ids.SSBOType, "SSBO")
		b.AddMemberName(ids.SSBOType, 0, "data")
		b.AddName(ids.SSBO, "ssbo")
	}
	b.AddDecorate(ids.SSBO, spirv.DecorationDescriptorSet, 1)
	b.AddDecorate(ids.SSBO, spirv.DecorationBinding, 1)

	// Push constants.
	ids.PushType = b.AddTypeStruct(floatType, vec4Type, vec2Type)
	b.AddName(ids.PushType, "Push")
	b.AddMemberName(ids.PushType, 0, "scale")
	b.AddMemberName(ids.PushType, 1, "tint")
	b.AddMemberName(ids.PushType, 2, "offset")
	b.AddDecorate(ids.PushType, spirv.DecorationBlock)
	b.AddMemberDecorate(ids.PushType, 0, spirv.DecorationOffset, 0)
	b.AddMemberDecorate(ids.PushType, 1, spirv.DecorationOffset, 16)
	b.AddMemberDecorate(ids.PushType, 2, spirv.DecorationOffset, 32)
	ids.PushPointer = b.AddTypePointer(spirv.StorageClassPushConstant, ids.PushType)
	ids.Push = b.AddVariable(ids.PushPointer, spirv.StorageClassPushConstant)
	b.AddName(ids.Push, "push")

	// main: FragColor = ubo.mvp * push.tint (the multiply is left out).
	pushVec4 := b.AddTypePointer(spirv.StorageClassPushConstant, vec4Type)
	uniformMat4 := b.AddTypePointer(spirv.StorageClassUniform, mat4Type)

	ids.Main = b.AddFunction(funcType, voidType, spirv.FunctionControlNone)
	b.AddName(ids.Main, "main")
	b.AddLabel()
	tint := b.AddAccessChain(pushVec4, ids.Push, c1)
	tintValue := b.AddLoad(vec4Type, tint)
	mvp := b.AddAccessChain(uniformMat4, ids.UBO, c0)
	b.AddLoad(mat4Type, mvp)
	b.AddStore(ids.FragColor, tintValue)
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, ids.Main, "main",
		[]uint32{ids.FragCoord, ids.VColor, ids.FragColor})

	return b.Words(), ids
}
