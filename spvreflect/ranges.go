// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import "github.com/gogpu/spir2cross/spirv"

// BufferRange describes one block member that the shader accesses.
type BufferRange struct {
	// Index is the member index in the block.
	Index uint32
	// Offset is the member's byte offset.
	Offset uint64
	// Range is the member's declared size in bytes.
	Range uint64
}

// rootVariable maps an ID to the global variable it aliases, following
// access chains that did not index into the variable.
func (c *Compiler) rootVariable(id uint32) (uint32, bool) {
	if root, ok := c.chainRoots[id]; ok {
		id = root
	}
	_, ok := c.varIndex[id]
	return id, ok
}

// arrayDepth returns the number of array levels wrapped around the block
// a variable points to.
func (c *Compiler) arrayDepth(variable uint32) int {
	t := c.types[c.variables[c.varIndex[variable]].typeID]
	depth := 0
	for t = c.types[t.Element]; t.Array; t = c.types[t.Element] {
		depth++
	}
	return depth
}

func (c *Compiler) recordAccessChain(inst spirv.Instruction) {
	result := inst.Operand(1)
	base := inst.Operand(2)
	root, ok := c.rootVariable(base)
	if !ok {
		return
	}

	// Leading indices select an element of an arrayed block and never name
	// a member.
	indices := operandsFrom(inst, 3)
	skip := c.arrayDepth(root) - c.chainDepth[base]
	if len(indices) <= skip {
		c.chainRoots[result] = root
		c.chainDepth[result] = c.chainDepth[base] + len(indices)
		return
	}

	index, constant := c.constants[indices[skip]]
	if !constant {
		c.fullyActive[root] = true
		return
	}
	if c.activeMembers[root] == nil {
		c.activeMembers[root] = make(map[uint32]bool)
	}
	c.activeMembers[root][index] = true
}

func (c *Compiler) markFullyActive(id uint32) {
	if root, ok := c.rootVariable(id); ok {
		c.fullyActive[root] = true
	}
}

// ActiveBufferRanges returns the members of a block variable that are
// accessed by the shader, in member order. A whole-object access or a
// dynamically indexed access makes every member active. For arrays of
// blocks the ranges are merged over all elements.
func (c *Compiler) ActiveBufferRanges(id uint32) []BufferRange {
	i, ok := c.varIndex[id]
	if !ok {
		return nil
	}
	block := c.Type(c.variables[i].typeID)
	structType := c.types[block.Self]
	if structType.BaseType != BaseStruct {
		return nil
	}

	var ranges []BufferRange
	for index := range structType.Members {
		idx := uint32(index)
		if !c.fullyActive[id] && !c.activeMembers[id][idx] {
			continue
		}
		ranges = append(ranges, BufferRange{
			Index:  idx,
			Offset: uint64(c.MemberDecoration(block.Self, idx, spirv.DecorationOffset)),
			Range:  c.declaredMemberSize(block.Self, idx),
		})
	}
	return ranges
}
