// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"

	"github.com/gogpu/spir2cross/spirv"
)

// VertexOptions holds options that only apply to vertex shaders.
type VertexOptions struct {
	// FixupClipSpace remaps clip-space depth from [0, w] to [-w, w].
	FixupClipSpace bool
}

// Options configures GLSL code generation.
type Options struct {
	// Version is the GLSL language version, e.g. 310 or 450.
	// Zero means the module did not declare one.
	Version uint32

	// ES selects GLSL ES.
	ES bool

	// ForceTemporary forces every expression into a temporary.
	ForceTemporary bool

	Vertex VertexOptions
}

// PlsFormat is the storage format of a pixel local storage slot.
type PlsFormat uint8

// Pixel local storage formats.
const (
	PlsNone PlsFormat = iota
	PlsR11FG11FB10F
	PlsR32F
	PlsRG16F
	PlsRGB10A2
	PlsRGBA8
	PlsRG16
	PlsRGBA8I
	PlsRG16I
	PlsRGB10A2UI
	PlsRGBA8UI
	PlsRG16UI
	PlsR32UI
)

var plsFormatNames = [...]string{
	PlsNone:         "none",
	PlsR11FG11FB10F: "r11f_g11f_b10f",
	PlsR32F:         "r32f",
	PlsRG16F:        "rg16f",
	PlsRGB10A2:      "rgb10_a2",
	PlsRGBA8:        "rgba8",
	PlsRG16:         "rg16",
	PlsRGBA8I:       "rgba8i",
	PlsRG16I:        "rg16i",
	PlsRGB10A2UI:    "rgb10_a2ui",
	PlsRGBA8UI:      "rgba8ui",
	PlsRG16UI:       "rg16ui",
	PlsR32UI:        "r32ui",
}

// String returns the GLSL layout qualifier of the format.
func (f PlsFormat) String() string {
	if int(f) < len(plsFormatNames) {
		return plsFormatNames[f]
	}
	return "none"
}

// ParsePlsFormat maps a layout qualifier to its format. Unrecognized
// strings map to PlsNone.
func ParsePlsFormat(s string) PlsFormat {
	for f, name := range plsFormatNames {
		if f != int(PlsNone) && name == s {
			return PlsFormat(f)
		}
	}
	return PlsNone
}

// PlsRemap binds a stage input or output to a pixel local storage format.
type PlsRemap struct {
	ID     uint32
	Format PlsFormat
}

// RemapPixelLocalStorage replaces the pixel local storage bindings used by
// code generation.
func (c *Compiler) RemapPixelLocalStorage(inputs, outputs []PlsRemap) {
	c.plsInputs = inputs
	c.plsOutput = outputs
}

// PixelLocalStorage returns the bindings set by RemapPixelLocalStorage.
func (c *Compiler) PixelLocalStorage() (inputs, outputs []PlsRemap) {
	return c.plsInputs, c.plsOutput
}

// FlattenInterfaceBlock marks a uniform buffer to be emitted as a plain
// array of vectors.
func (c *Compiler) FlattenInterfaceBlock(id uint32) error {
	i, ok := c.varIndex[id]
	if !ok {
		return fmt.Errorf("spvreflect: %d is not a global variable", id)
	}
	self := c.Type(c.variables[i].typeID).Self
	if c.variables[i].storage != spirv.StorageClassUniform || !c.DecorationMask(self).Has(spirv.DecorationBlock) {
		return fmt.Errorf("spvreflect: %s is not a uniform block", c.displayName(id))
	}
	for _, f := range c.flattened {
		if f == id {
			return nil
		}
	}
	c.flattened = append(c.flattened, id)
	return nil
}

// FlattenedBlocks returns the variables marked by FlattenInterfaceBlock.
func (c *Compiler) FlattenedBlocks() []uint32 {
	return c.flattened
}

func (c *Compiler) displayName(id uint32) string {
	if name := c.names[id]; name != "" {
		return name
	}
	return c.FallbackName(id)
}
