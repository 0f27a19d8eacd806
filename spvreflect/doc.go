// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spvreflect answers reflection queries over a SPIR-V module.
//
// A Compiler indexes the parts of a module a cross-compiler front end needs
// to know about: debug names, decorations, type declarations, global
// variables, the embedded source language and which block members the code
// actually touches. It does not build an IR and does not generate code; the
// state it records for code generation (options, flattened blocks, pixel
// local storage bindings) is consumed by the backend package.
//
// # Basic Usage
//
//	compiler, err := spvreflect.New(words)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res := compiler.ShaderResources()
//	for _, ubo := range res.UniformBuffers {
//		fmt.Println(ubo.ID, ubo.Name, compiler.Decoration(ubo.ID, spirv.DecorationBinding))
//	}
//
// # Resource Names
//
// Uniform and storage buffers are named after their block type, since that
// is the name visible to the API. Every other resource is named after its
// variable. Resources without debug names have an empty Name; FallbackName
// synthesizes one.
package spvreflect
