// Package abi defines the structs exchanged through the staging buffer:
// the capability descriptor, the per-call request and the response.
package abi

import (
	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/staging"
)

// Informational only, the wire layout does not depend on it
const VERSION = 0

// Exported routine names of every module
const (
	EXPORT_STAGING_BUFFER_PTR = "get_staging_buffer_ptr"
	EXPORT_METADATA           = "metadata"
)

type Animation struct {
	Name   string
	Symbol string
}

type SkeletonAnimations struct {
	Kind       skeleton.Kind
	Animations []Animation
}

type Metadata struct {
	Version   uint32
	Skeletons []SkeletonAnimations
}

// Lookup resolves the exported symbol of animation name for kind
func (m *Metadata) Lookup(kind skeleton.Kind, name string) (string, bool) {
	for _, s := range m.Skeletons {
		if s.Kind != kind {
			continue
		}
		for _, a := range s.Animations {
			if a.Name == name {
				return a.Symbol, true
			}
		}
	}
	return "", false
}

func (m *Metadata) HasSymbol(symbol string) bool {
	for _, s := range m.Skeletons {
		for _, a := range s.Animations {
			if a.Symbol == symbol {
				return true
			}
		}
	}
	return false
}

func (m *Metadata) MarshalStaging(w *staging.Writer) {
	w.U32(m.Version)
	w.Len64(len(m.Skeletons))
	for _, s := range m.Skeletons {
		w.Tag(uint32(s.Kind))
		w.Len64(len(s.Animations))
		for _, a := range s.Animations {
			w.String(a.Name)
			w.String(a.Symbol)
		}
	}
}

// tag + empty list
const minSkeletonAnimationsSize = 4 + 8

// two empty strings
const minAnimationSize = 8 + 8

func (m *Metadata) UnmarshalStaging(r *staging.Reader) {
	m.Version = r.U32()
	m.Skeletons = make([]SkeletonAnimations, r.Len64(minSkeletonAnimationsSize))
	for i := range m.Skeletons {
		s := &m.Skeletons[i]
		s.Kind = skeleton.Kind(r.Tag())
		if r.Err() == nil && !s.Kind.Valid() {
			r.Fail("unknown skeleton kind tag %d", uint32(s.Kind))
			return
		}
		s.Animations = make([]Animation, r.Len64(minAnimationSize))
		for j := range s.Animations {
			s.Animations[j].Name = r.String()
			s.Animations[j].Symbol = r.String()
		}
		if r.Err() != nil {
			return
		}
	}
}
