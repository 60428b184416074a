package abi

import (
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/staging"
)

// CHARACTER_PASS_THROUGH_SIZE is the request size with a float64 dependency
const (
	CHARACTER_PASS_THROUGH_SIZE = 8 + skeleton.CHARACTER_SKELETON_SIZE + skeleton.CHARACTER_ATTR_SIZE + 4
	CHARACTER_ANIM_RETURN_SIZE  = skeleton.CHARACTER_SKELETON_SIZE + 4
)

// compile time capacity guards
var (
	_ [staging.BUFFER_SIZE - CHARACTER_PASS_THROUGH_SIZE]struct{}
	_ [staging.BUFFER_SIZE - CHARACTER_ANIM_RETURN_SIZE]struct{}
)

// Dependency is the value a routine may read besides time, like global time
type Dependency interface {
	float32 | float64 | uint32 | uint64
}

// PassThrough is the request written by the host before an animation call.
// Rate is carried for layout compatibility, the scalar call argument is the
// one routines use.
type PassThrough[D Dependency] struct {
	Dependency D
	Skeleton   skeleton.Skeleton
	Attr       skeleton.Attr
	Rate       float32
}

// NewPassThrough prepares an empty request of kind, ready for decoding
func NewPassThrough[D Dependency](kind skeleton.Kind) (*PassThrough[D], error) {
	skel, attr, err := skeleton.New(kind)
	if err != nil {
		return nil, err
	}
	return &PassThrough[D]{Skeleton: skel, Attr: attr}, nil
}

func (p *PassThrough[D]) Kind() skeleton.Kind { return p.Skeleton.Kind() }

func (p *PassThrough[D]) Validate() error {
	if p.Skeleton == nil || p.Attr == nil {
		return errors.New("pass-through request without skeleton or attributes")
	}
	if p.Skeleton.Kind() != p.Attr.Kind() {
		return errors.Wrapf(skeleton.ErrKindMismatch, "skeleton %v with attributes %v", p.Skeleton.Kind(), p.Attr.Kind())
	}
	return nil
}

func (p *PassThrough[D]) MarshalStaging(w *staging.Writer) {
	writeDependency(w, p.Dependency)
	p.Skeleton.MarshalStaging(w)
	p.Attr.MarshalStaging(w)
	w.F32(p.Rate)
}

func (p *PassThrough[D]) UnmarshalStaging(r *staging.Reader) {
	p.Dependency = readDependency[D](r)
	p.Skeleton.UnmarshalStaging(r)
	p.Attr.UnmarshalStaging(r)
	p.Rate = r.F32()
}

func writeDependency[D Dependency](w *staging.Writer, d D) {
	switch v := any(d).(type) {
	case float32:
		w.F32(v)
	case float64:
		w.F64(v)
	case uint32:
		w.U32(v)
	case uint64:
		w.U64(v)
	}
}

func readDependency[D Dependency](r *staging.Reader) D {
	var d D
	switch p := any(&d).(type) {
	case *float32:
		*p = r.F32()
	case *float64:
		*p = r.F64()
	case *uint32:
		*p = r.U32()
	case *uint64:
		*p = r.U64()
	}
	return d
}

// AnimReturn is the response of an animation call
type AnimReturn struct {
	Skeleton skeleton.Skeleton
	Rate     float32
}

func NewAnimReturn(kind skeleton.Kind) (*AnimReturn, error) {
	skel, _, err := skeleton.New(kind)
	if err != nil {
		return nil, err
	}
	return &AnimReturn{Skeleton: skel}, nil
}

func (a *AnimReturn) MarshalStaging(w *staging.Writer) {
	a.Skeleton.MarshalStaging(w)
	w.F32(a.Rate)
}

func (a *AnimReturn) UnmarshalStaging(r *staging.Reader) {
	a.Skeleton.UnmarshalStaging(r)
	a.Rate = r.F32()
}
