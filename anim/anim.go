// Package anim keeps the table of animation routines a module exports.
// Routine packages register themselves from init, the way file handlers do,
// so a module binary exports whatever it links in.
package anim

import (
	"fmt"

	"github.com/mogaika/figure_anim/abi"
	"github.com/mogaika/figure_anim/skeleton"
)

// Routine computes a fully specified pose from time and rate.
// It must not keep state between calls; req is owned by the caller.
type Routine func(animTime float64, rate float32, req *abi.PassThrough[float64]) (*abi.AnimReturn, error)

type Entry struct {
	Kind    skeleton.Kind
	Name    string
	Symbol  string
	Routine Routine
}

var entries []*Entry
var bySymbol = make(map[string]*Entry)

func Register(kind skeleton.Kind, name, symbol string, routine Routine) {
	if _, exists := bySymbol[symbol]; exists {
		panic(fmt.Sprintf("anim: symbol %q registered twice", symbol))
	}
	if symbol == abi.EXPORT_METADATA || symbol == abi.EXPORT_STAGING_BUFFER_PTR {
		panic(fmt.Sprintf("anim: symbol %q is reserved", symbol))
	}
	e := &Entry{Kind: kind, Name: name, Symbol: symbol, Routine: routine}
	entries = append(entries, e)
	bySymbol[symbol] = e
}

func Lookup(symbol string) (*Entry, bool) {
	e, ok := bySymbol[symbol]
	return e, ok
}

// Entries in registration order
func Entries() []*Entry {
	result := make([]*Entry, len(entries))
	copy(result, entries)
	return result
}

// BuildMetadata groups registered routines by kind, kinds in order of first registration
func BuildMetadata() *abi.Metadata {
	m := &abi.Metadata{Version: abi.VERSION, Skeletons: make([]abi.SkeletonAnimations, 0)}
	index := make(map[skeleton.Kind]int)
	for _, e := range entries {
		i, ok := index[e.Kind]
		if !ok {
			i = len(m.Skeletons)
			index[e.Kind] = i
			m.Skeletons = append(m.Skeletons, abi.SkeletonAnimations{Kind: e.Kind})
		}
		m.Skeletons[i].Animations = append(m.Skeletons[i].Animations, abi.Animation{Name: e.Name, Symbol: e.Symbol})
	}
	return m
}
