// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spirv provides the SPIR-V word model shared by the reflection
// engine and the driver.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Reading Modules
//
// Decode splits a word stream into its header and instructions without
// interpreting them:
//
//	words, err := spirv.ReadFile("shader.spv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	module, err := spirv.Decode(words)
//
// Literal strings inside instructions are read with DecodeString.
//
// # Binary Writer
//
// The package also provides a low-level binary writer for constructing
// SPIR-V modules programmatically using ModuleBuilder:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	// Add types
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//
//	// Build binary
//	binary := builder.Build()
//
// # SPIR-V Structure
//
// Words emits a module in this order:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities
//   - Memory model
//   - Entry points
//   - Debug information (OpSource, names)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
