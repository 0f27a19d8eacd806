// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// versionFromWord converts the header version word back to a Version.
func versionFromWord(word uint32) Version {
	return Version{Major: uint8(word >> 16), Minor: uint8(word >> 8)}
}

// versionToWord converts Version to SPIR-V word format.
func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator

	// HeaderWords is the number of words preceding the first instruction.
	HeaderWords = 5
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes understood by the decoder and the builder.
const (
	OpNop                 OpCode = 0
	OpSource              OpCode = 3
	OpSourceExtension     OpCode = 4
	OpName                OpCode = 5
	OpMemberName          OpCode = 6
	OpString              OpCode = 7
	OpExtension           OpCode = 10
	OpExtInstImport       OpCode = 11
	OpMemoryModel         OpCode = 14
	OpEntryPoint          OpCode = 15
	OpExecutionMode       OpCode = 16
	OpCapability          OpCode = 17
	OpTypeVoid            OpCode = 19
	OpTypeBool            OpCode = 20
	OpTypeInt             OpCode = 21
	OpTypeFloat           OpCode = 22
	OpTypeVector          OpCode = 23
	OpTypeMatrix          OpCode = 24
	OpTypeImage           OpCode = 25
	OpTypeSampler         OpCode = 26
	OpTypeSampledImage    OpCode = 27
	OpTypeArray           OpCode = 28
	OpTypeRuntimeArray    OpCode = 29
	OpTypeStruct          OpCode = 30
	OpTypePointer         OpCode = 32
	OpTypeFunction        OpCode = 33
	OpConstant            OpCode = 43
	OpConstantComposite   OpCode = 44
	OpFunction            OpCode = 54
	OpFunctionParameter   OpCode = 55
	OpFunctionEnd         OpCode = 56
	OpFunctionCall        OpCode = 57
	OpVariable            OpCode = 59
	OpLoad                OpCode = 61
	OpStore               OpCode = 62
	OpCopyMemory          OpCode = 63
	OpAccessChain         OpCode = 65
	OpInBoundsAccessChain OpCode = 66
	OpDecorate            OpCode = 71
	OpMemberDecorate      OpCode = 72
	OpLabel               OpCode = 248
	OpBranch              OpCode = 249
	OpReturn              OpCode = 253
	OpReturnValue         OpCode = 254
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Common decorations
const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationSpecID           Decoration = 1
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationBuiltIn          Decoration = 11
	DecorationFlat             Decoration = 14
	DecorationNonWritable      Decoration = 24
	DecorationNonReadable      Decoration = 25
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationIndex            Decoration = 32
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
	DecorationInputAttachment  Decoration = 43
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes.
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// Dim is the dimensionality operand of OpTypeImage.
type Dim uint32

// Image dimensions.
const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// SourceLanguage is the first operand of OpSource.
type SourceLanguage uint32

// Source languages.
const (
	SourceLanguageUnknown SourceLanguage = 0
	SourceLanguageESSL    SourceLanguage = 1
	SourceLanguageGLSL    SourceLanguage = 2
	SourceLanguageOpenCLC SourceLanguage = 3
	SourceLanguageHLSL    SourceLanguage = 5
)

// ExecutionModel identifies the shader stage of an entry point.
type ExecutionModel uint32

// Execution models.
const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Common capabilities
const (
	CapabilityMatrix          Capability = 0 // Implied by Shader
	CapabilityShader          Capability = 1
	CapabilityInputAttachment Capability = 40
)

// AddressingModel is the first operand of OpMemoryModel.
type AddressingModel uint32

// AddressingModelLogical is the only addressing model used by shaders.
const AddressingModelLogical AddressingModel = 0

// MemoryModel is the second operand of OpMemoryModel.
type MemoryModel uint32

// MemoryModelGLSL450 is the memory model of Vulkan and OpenGL shaders.
const MemoryModelGLSL450 MemoryModel = 1

// FunctionControl is the control mask of OpFunction.
type FunctionControl uint32

// FunctionControlNone requests no special handling.
const FunctionControlNone FunctionControl = 0
