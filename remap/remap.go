// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package remap resolves pixel local storage requests against reflected
// shader resources.
package remap

import (
	"fmt"

	"github.com/gogpu/spir2cross/spvreflect"
)

// Request asks for the resource called Name to be bound to a pixel local
// storage slot of the given format.
type Request struct {
	Format spvreflect.PlsFormat
	Name   string
}

// ParseRequest builds a request from its command-line tokens. Unknown
// formats map to PlsNone.
func ParseRequest(format, name string) Request {
	return Request{Format: spvreflect.ParsePlsFormat(format), Name: name}
}

// String returns the request in command-line form.
func (r Request) String() string {
	return fmt.Sprintf("%s %s", r.Format, r.Name)
}

// MissError reports a request whose name matched no resource.
type MissError struct {
	Name string
}

// Error implements the error interface.
func (e *MissError) Error() string {
	return fmt.Sprintf("Did not find stage input/output/target with name \"%s\".", e.Name)
}

// Remap resolves each request to the first resource with the same name,
// looking in primary before secondary. secondary may be nil.
//
// Requests without a match are reported to miss, when non-nil, and left
// out of the result. The result follows request order.
func Remap(requests []Request, primary, secondary []spvreflect.Resource, miss func(*MissError)) []spvreflect.PlsRemap {
	out := make([]spvreflect.PlsRemap, 0, len(requests))
	for _, req := range requests {
		res, ok := find(primary, req.Name)
		if !ok {
			res, ok = find(secondary, req.Name)
		}
		if !ok {
			if miss != nil {
				miss(&MissError{Name: req.Name})
			}
			continue
		}
		out = append(out, spvreflect.PlsRemap{ID: res.ID, Format: req.Format})
	}
	return out
}

func find(resources []spvreflect.Resource, name string) (spvreflect.Resource, bool) {
	for _, res := range resources {
		if res.Name == name {
			return res, true
		}
	}
	return spvreflect.Resource{}, false
}
