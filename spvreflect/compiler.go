// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"
	"strconv"

	"github.com/gogpu/spir2cross/spirv"
)

// DecorationMask is a bitset over decoration numbers below 64.
type DecorationMask uint64

// Has reports whether the decoration bit is set.
func (m DecorationMask) Has(dec spirv.Decoration) bool {
	return dec < 64 && m&(1<<dec) != 0
}

// HasAny reports whether any of the decorations is set.
func (m DecorationMask) HasAny(decs ...spirv.Decoration) bool {
	for _, dec := range decs {
		if m.Has(dec) {
			return true
		}
	}
	return false
}

// decorations holds the decorations attached to one ID or struct member.
type decorations struct {
	mask   DecorationMask
	values map[spirv.Decoration]uint32
}

func (d *decorations) set(dec spirv.Decoration, value uint32) {
	if dec < 64 {
		d.mask |= 1 << dec
	}
	if d.values == nil {
		d.values = make(map[spirv.Decoration]uint32, 4)
	}
	d.values[dec] = value
}

type member struct {
	name string
	decorations
}

type variable struct {
	id      uint32
	typeID  uint32
	storage spirv.StorageClass
}

// EntryPoint is an OpEntryPoint declaration.
type EntryPoint struct {
	Model spirv.ExecutionModel
	ID    uint32
	Name  string
}

// Compiler answers reflection queries over a SPIR-V module. It indexes
// debug names, decorations, types, global variables and member accesses; it
// never builds an IR.
type Compiler struct {
	words  []uint32
	header spirv.Header

	options Options

	names       map[uint32]string
	decorations map[uint32]*decorations
	members     map[uint32][]member
	types       map[uint32]Type
	constants   map[uint32]uint32
	variables   []variable
	varIndex    map[uint32]int
	entryPoints []EntryPoint

	// Member accesses per block variable.
	activeMembers map[uint32]map[uint32]bool
	fullyActive   map[uint32]bool
	// Access chain results derived from a variable, mapped back to it.
	chainRoots map[uint32]uint32
	// Array levels of the root already indexed by a chain result.
	chainDepth map[uint32]int

	flattened []uint32
	plsInputs []PlsRemap
	plsOutput []PlsRemap
}

// New indexes a SPIR-V module. An empty word stream produces an empty
// compiler whose Options carry no language version.
func New(words []uint32) (*Compiler, error) {
	c := &Compiler{
		words:         words,
		names:         make(map[uint32]string),
		decorations:   make(map[uint32]*decorations),
		members:       make(map[uint32][]member),
		types:         make(map[uint32]Type),
		constants:     make(map[uint32]uint32),
		varIndex:      make(map[uint32]int),
		activeMembers: make(map[uint32]map[uint32]bool),
		fullyActive:   make(map[uint32]bool),
		chainRoots:    make(map[uint32]uint32),
		chainDepth:    make(map[uint32]int),
	}
	if len(words) == 0 {
		return c, nil
	}

	module, err := spirv.Decode(words)
	if err != nil {
		return nil, fmt.Errorf("spvreflect: %w", err)
	}
	c.header = module.Header

	inFunction := false
	for _, inst := range module.Instructions {
		switch inst.Opcode {
		case spirv.OpSource:
			c.parseSource(inst)
		case spirv.OpName:
			name, _ := spirv.DecodeString(operandsFrom(inst, 1))
			c.names[inst.Operand(0)] = name
		case spirv.OpMemberName:
			name, _ := spirv.DecodeString(operandsFrom(inst, 2))
			c.member(inst.Operand(0), inst.Operand(1)).name = name
		case spirv.OpDecorate:
			c.decorationsOf(inst.Operand(0)).set(spirv.Decoration(inst.Operand(1)), inst.Operand(2))
		case spirv.OpMemberDecorate:
			c.member(inst.Operand(0), inst.Operand(1)).set(spirv.Decoration(inst.Operand(2)), inst.Operand(3))
		case spirv.OpEntryPoint:
			name, _ := spirv.DecodeString(operandsFrom(inst, 2))
			c.entryPoints = append(c.entryPoints, EntryPoint{
				Model: spirv.ExecutionModel(inst.Operand(0)),
				ID:    inst.Operand(1),
				Name:  name,
			})
		case spirv.OpConstant:
			c.constants[inst.Operand(1)] = inst.Operand(2)
		case spirv.OpVariable:
			storage := spirv.StorageClass(inst.Operand(2))
			if inFunction || storage == spirv.StorageClassFunction {
				continue
			}
			c.varIndex[inst.Operand(1)] = len(c.variables)
			c.variables = append(c.variables, variable{
				id:      inst.Operand(1),
				typeID:  inst.Operand(0),
				storage: storage,
			})
		case spirv.OpFunction:
			inFunction = true
		case spirv.OpFunctionEnd:
			inFunction = false
		case spirv.OpAccessChain, spirv.OpInBoundsAccessChain:
			c.recordAccessChain(inst)
		case spirv.OpLoad:
			c.markFullyActive(inst.Operand(2))
		case spirv.OpCopyMemory:
			c.markFullyActive(inst.Operand(0))
			c.markFullyActive(inst.Operand(1))
		case spirv.OpFunctionCall:
			for _, arg := range operandsFrom(inst, 3) {
				c.markFullyActive(arg)
			}
		default:
			if t, ok := c.parseType(inst); ok {
				c.types[t.ID] = t
			}
		}
	}

	return c, nil
}

// operandsFrom returns the operand words starting at index n.
func operandsFrom(inst spirv.Instruction, n int) []uint32 {
	if n >= len(inst.Words) {
		return nil
	}
	return inst.Words[n:]
}

func (c *Compiler) parseSource(inst spirv.Instruction) {
	switch spirv.SourceLanguage(inst.Operand(0)) {
	case spirv.SourceLanguageESSL:
		c.options.ES = true
		c.options.Version = inst.Operand(1)
	case spirv.SourceLanguageGLSL:
		c.options.ES = false
		c.options.Version = inst.Operand(1)
	}
}

func (c *Compiler) decorationsOf(id uint32) *decorations {
	d, ok := c.decorations[id]
	if !ok {
		d = &decorations{}
		c.decorations[id] = d
	}
	return d
}

func (c *Compiler) member(structID, index uint32) *member {
	members := c.members[structID]
	for uint32(len(members)) <= index {
		members = append(members, member{})
	}
	c.members[structID] = members
	return &members[index]
}

func (c *Compiler) decoration(id uint32, dec spirv.Decoration) (uint32, bool) {
	d, ok := c.decorations[id]
	if !ok || d.values == nil {
		return 0, false
	}
	v, ok := d.values[dec]
	return v, ok
}

func (c *Compiler) memberDecoration(structID, index uint32, dec spirv.Decoration) (uint32, bool) {
	members := c.members[c.Type(structID).Self]
	if int(index) >= len(members) || members[index].values == nil {
		return 0, false
	}
	v, ok := members[index].values[dec]
	return v, ok
}

// Words returns the module the compiler was built from.
func (c *Compiler) Words() []uint32 {
	return c.words
}

// Header returns the decoded module header.
func (c *Compiler) Header() spirv.Header {
	return c.header
}

// EntryPoints returns the declared entry points in module order.
func (c *Compiler) EntryPoints() []EntryPoint {
	return c.entryPoints
}

// Name returns the debug name of an ID, or "" when it has none.
func (c *Compiler) Name(id uint32) string {
	return c.names[id]
}

// FallbackName is the synthesized name used for an ID without a debug name.
func (c *Compiler) FallbackName(id uint32) string {
	return "_" + strconv.FormatUint(uint64(id), 10)
}

// FallbackMemberName is the synthesized name for an unnamed struct member.
func (c *Compiler) FallbackMemberName(index uint32) string {
	return "_" + strconv.FormatUint(uint64(index), 10)
}

// Type returns the type declared with the given ID. Unknown IDs yield the
// zero Type with Self set to id.
func (c *Compiler) Type(id uint32) Type {
	t, ok := c.types[id]
	if !ok {
		return Type{ID: id, Self: id}
	}
	// Forward pointers are declared before their pointee.
	for seen := 0; t.Self != t.ID && seen < len(c.types); seen++ {
		inner, ok := c.types[t.Self]
		if !ok || inner.Self == t.Self {
			break
		}
		t.Self = inner.Self
	}
	return t
}

// DecorationMask returns the decorations set on an ID.
func (c *Compiler) DecorationMask(id uint32) DecorationMask {
	if d, ok := c.decorations[id]; ok {
		return d.mask
	}
	return 0
}

// Decoration returns the literal of a decoration on an ID, or 0 when the
// decoration is absent or carries no literal.
func (c *Compiler) Decoration(id uint32, dec spirv.Decoration) uint32 {
	v, _ := c.decoration(id, dec)
	return v
}

// StorageClass returns the storage class of a global variable, or
// StorageClassGeneric for any other ID.
func (c *Compiler) StorageClass(id uint32) spirv.StorageClass {
	if i, ok := c.varIndex[id]; ok {
		return c.variables[i].storage
	}
	return spirv.StorageClassGeneric
}

// MemberCount returns the number of members of the struct reached from
// typeID.
func (c *Compiler) MemberCount(typeID uint32) int {
	return len(c.types[c.Type(typeID).Self].Members)
}

// MemberName returns the debug name of a struct member, or "".
func (c *Compiler) MemberName(typeID, index uint32) string {
	members := c.members[c.Type(typeID).Self]
	if int(index) >= len(members) {
		return ""
	}
	return members[index].name
}

// MemberDecorationMask returns the decorations set on a struct member.
func (c *Compiler) MemberDecorationMask(typeID, index uint32) DecorationMask {
	members := c.members[c.Type(typeID).Self]
	if int(index) >= len(members) {
		return 0
	}
	return members[index].mask
}

// MemberDecoration returns the literal of a member decoration, or 0.
func (c *Compiler) MemberDecoration(typeID, index uint32, dec spirv.Decoration) uint32 {
	v, _ := c.memberDecoration(typeID, index, dec)
	return v
}

// Options returns the current code generation options.
func (c *Compiler) Options() Options {
	return c.options
}

// SetOptions replaces the code generation options.
func (c *Compiler) SetOptions(opts Options) {
	c.options = opts
}
