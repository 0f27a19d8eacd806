// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import "strconv"

var opcodeNames = map[OpCode]string{
	0: "OpNop", 1: "OpUndef", 2: "OpSourceContinued", 3: "OpSource",
	4: "OpSourceExtension", 5: "OpName", 6: "OpMemberName", 7: "OpString",
	10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
	14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
	17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
	21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
	24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
	27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
	30: "OpTypeStruct", 31: "OpTypeOpaque", 32: "OpTypePointer",
	33: "OpTypeFunction", 41: "OpConstantTrue", 42: "OpConstantFalse",
	43: "OpConstant", 44: "OpConstantComposite", 46: "OpConstantNull",
	50: "OpSpecConstant", 54: "OpFunction", 55: "OpFunctionParameter",
	56: "OpFunctionEnd", 57: "OpFunctionCall", 59: "OpVariable",
	61: "OpLoad", 62: "OpStore", 63: "OpCopyMemory",
	65: "OpAccessChain", 66: "OpInBoundsAccessChain", 68: "OpArrayLength",
	71: "OpDecorate", 72: "OpMemberDecorate", 73: "OpDecorationGroup",
	74: "OpGroupDecorate", 75: "OpGroupMemberDecorate",
	86: "OpSampledImage", 87: "OpImageSampleImplicitLod", 98: "OpImageRead",
	99: "OpImageWrite", 245: "OpPhi", 246: "OpLoopMerge",
	247: "OpSelectionMerge", 248: "OpLabel", 249: "OpBranch",
	250: "OpBranchConditional", 251: "OpSwitch", 252: "OpKill",
	253: "OpReturn", 254: "OpReturnValue", 255: "OpUnreachable",
}

var decorationNames = map[Decoration]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	8: "GLSLShared", 9: "GLSLPacked", 10: "CPacked", 11: "BuiltIn",
	13: "NoPerspective", 14: "Flat", 15: "Patch", 16: "Centroid",
	17: "Sample", 18: "Invariant", 19: "Restrict", 20: "Aliased",
	21: "Volatile", 22: "Constant", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 26: "Uniform", 28: "SaturatedConversion",
	29: "Stream", 30: "Location", 31: "Component", 32: "Index",
	33: "Binding", 34: "DescriptorSet", 35: "Offset", 36: "XfbBuffer",
	37: "XfbStride", 38: "FuncParamAttr", 39: "FPRoundingMode",
	40: "FPFastMathMode", 41: "LinkageAttributes", 42: "NoContraction",
	43: "InputAttachmentIndex", 44: "Alignment",
}

var storageClassNames = map[StorageClass]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var dimNames = map[Dim]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

var sourceLanguageNames = map[SourceLanguage]string{
	0: "Unknown", 1: "ESSL", 2: "GLSL", 3: "OpenCL_C", 4: "OpenCL_CPP", 5: "HLSL",
}

func (op OpCode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "Op" + strconv.Itoa(int(op))
}

func (d Decoration) String() string {
	if s, ok := decorationNames[d]; ok {
		return s
	}
	return strconv.FormatUint(uint64(d), 10)
}

func (sc StorageClass) String() string {
	if s, ok := storageClassNames[sc]; ok {
		return s
	}
	return strconv.FormatUint(uint64(sc), 10)
}

func (d Dim) String() string {
	if s, ok := dimNames[d]; ok {
		return s
	}
	return strconv.FormatUint(uint64(d), 10)
}

func (l SourceLanguage) String() string {
	if s, ok := sourceLanguageNames[l]; ok {
		return s
	}
	return strconv.FormatUint(uint64(l), 10)
}
