// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package report prints reflected shader resources as diagnostics.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gogpu/spir2cross/spirv"
	"github.com/gogpu/spir2cross/spvreflect"
)

// Reflector is the subset of the reflection engine the reporter reads.
// *spvreflect.Compiler implements it.
type Reflector interface {
	Type(id uint32) spvreflect.Type
	DecorationMask(id uint32) spvreflect.DecorationMask
	Decoration(id uint32, dec spirv.Decoration) uint32
	StorageClass(id uint32) spirv.StorageClass
	FallbackName(id uint32) string
	MemberCount(typeID uint32) int
	MemberName(typeID, index uint32) string
	MemberDecoration(typeID, index uint32, dec spirv.Decoration) uint32
	FallbackMemberName(index uint32) string
	ActiveBufferRanges(id uint32) []spvreflect.BufferRange
}

var _ Reflector = (*spvreflect.Compiler)(nil)

// Category is one titled list of resources.
type Category struct {
	Tag       string
	Resources []spvreflect.Resource
}

// Categories returns the resource lists in report order.
func Categories(res spvreflect.ShaderResources) []Category {
	return []Category{
		{"subpass inputs", res.SubpassInputs},
		{"inputs", res.StageInputs},
		{"outputs", res.StageOutputs},
		{"textures", res.SampledImages},
		{"images", res.StorageImages},
		{"ssbos", res.StorageBuffers},
		{"ubos", res.UniformBuffers},
		{"push", res.PushConstantBuffers},
		{"counters", res.AtomicCounters},
	}
}

const (
	categoryRule = "============="
	rangeRule    = "=================="
)

// Reporter writes resource listings. It only reads from the reflector.
type Reporter struct {
	w    io.Writer
	refl Reflector
}

// New returns a reporter writing to w.
func New(w io.Writer, refl Reflector) *Reporter {
	return &Reporter{w: w, refl: refl}
}

// Resources prints every category of res in report order.
func (r *Reporter) Resources(res spvreflect.ShaderResources) error {
	bw := bufio.NewWriter(r.w)
	for _, cat := range Categories(res) {
		r.category(bw, cat)
	}
	return bw.Flush()
}

// Category prints a single category.
func (r *Reporter) Category(cat Category) error {
	bw := bufio.NewWriter(r.w)
	r.category(bw, cat)
	return bw.Flush()
}

func (r *Reporter) category(w *bufio.Writer, cat Category) {
	fmt.Fprintf(w, "%s\n%s\n\n", cat.Tag, categoryRule)
	for _, res := range cat.Resources {
		r.resource(w, res)
	}
	fmt.Fprintf(w, "%s\n\n", categoryRule)
}

// isBlock reports whether res is a uniform or storage block other than a
// push constant block. Those are identified externally by their block name.
func (r *Reporter) isBlock(res spvreflect.Resource) bool {
	if r.refl.StorageClass(res.ID) == spirv.StorageClassPushConstant {
		return false
	}
	self := r.refl.Type(res.TypeID).Self
	return r.refl.DecorationMask(self).HasAny(spirv.DecorationBlock, spirv.DecorationBufferBlock)
}

// Name returns the display name of a resource.
func (r *Reporter) Name(res spvreflect.Resource) string {
	if res.Name != "" {
		return res.Name
	}
	if r.isBlock(res) {
		return r.refl.FallbackName(res.TypeID)
	}
	return r.refl.FallbackName(res.ID)
}

func (r *Reporter) memberName(typeID, index uint32) string {
	if name := r.refl.MemberName(typeID, index); name != "" {
		return name
	}
	return r.refl.FallbackMemberName(index)
}

func (r *Reporter) resource(w *bufio.Writer, res spvreflect.Resource) {
	fmt.Fprintf(w, " ID %03d : %s", res.ID, r.Name(res))

	mask := r.refl.DecorationMask(res.ID)
	if mask.Has(spirv.DecorationLocation) {
		fmt.Fprintf(w, " (Location : %d)", r.refl.Decoration(res.ID, spirv.DecorationLocation))
	}
	if mask.Has(spirv.DecorationDescriptorSet) {
		fmt.Fprintf(w, " (Set : %d)", r.refl.Decoration(res.ID, spirv.DecorationDescriptorSet))
	}
	if mask.Has(spirv.DecorationBinding) {
		fmt.Fprintf(w, " (Binding : %d)", r.refl.Decoration(res.ID, spirv.DecorationBinding))
	}
	w.WriteByte('\n')

	if !r.isBlock(res) {
		return
	}
	count := r.refl.MemberCount(res.TypeID)
	for i := 0; i < count; i++ {
		index := uint32(i)
		fmt.Fprintf(w, "    %d: %s (%d)\n", index, r.memberName(res.TypeID, index),
			r.refl.MemberDecoration(res.TypeID, index, spirv.DecorationOffset))
	}
}

// PushConstantRanges prints the active members of each push constant block.
// Members the shader never reads are left out.
func (r *Reporter) PushConstantRanges(blocks []spvreflect.Resource) error {
	bw := bufio.NewWriter(r.w)
	for _, block := range blocks {
		name := block.Name
		if name == "" {
			name = r.refl.FallbackName(block.ID)
		}
		fmt.Fprintf(bw, "Active members in buffer: %s\n%s\n\n", name, rangeRule)
		for _, rng := range r.refl.ActiveBufferRanges(block.ID) {
			fmt.Fprintf(bw, "Member #%3d (%s): Offset: %4d, Range: %4d\n",
				rng.Index, r.memberName(block.TypeID, rng.Index), uint32(rng.Offset), uint32(rng.Range))
		}
		fmt.Fprintf(bw, "%s\n\n", rangeRule)
	}
	return bw.Flush()
}
