package figure

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/host"
	"github.com/mogaika/figure_anim/skeleton"
)

// State is the per-figure frame state: the smoothed skeleton and the
// matrices the renderer uploads.
type State struct {
	Kind      skeleton.Kind
	Animation string
	Attr      skeleton.Attr

	AnimTime float64
	Rate     float32

	Skeleton skeleton.Skeleton
	Matrices [skeleton.FIGURE_BONES]skeleton.FigureBoneData
	Light    mgl32.Vec3
}

func NewState(kind skeleton.Kind, animation string, attr skeleton.Attr) (*State, error) {
	skel, defAttr, err := skeleton.New(kind)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		attr = defAttr
	} else if attr.Kind() != kind {
		return nil, errors.Wrapf(skeleton.ErrKindMismatch, "%v attributes for %v figure", attr.Kind(), kind)
	}
	s := &State{
		Kind:      kind,
		Animation: animation,
		Attr:      attr,
		Rate:      1,
		Skeleton:  skel,
	}
	s.Matrices, s.Light = skel.ComputeMatrices()
	return s, nil
}

// Update advances animation time by dt*rate, fetches the target pose from h
// and smooths the current skeleton toward it
func (s *State) Update(h *host.Host, globalTime float64, dt float32) error {
	if dt < 0 {
		dt = 0
	}
	s.AnimTime += float64(dt * s.Rate)

	from, _, err := skeleton.New(s.Kind)
	if err != nil {
		return err
	}
	req := &host.Request{Dependency: globalTime, Skeleton: from, Attr: s.Attr}

	ret, err := h.Animate(s.Kind, s.Animation, s.AnimTime, s.Rate, req)
	if err != nil {
		return errors.Wrapf(err, "animating %v %q", s.Kind, s.Animation)
	}
	s.Rate = ret.Rate

	if err := s.Skeleton.Interpolate(ret.Skeleton, dt); err != nil {
		return err
	}
	s.Matrices, s.Light = s.Skeleton.ComputeMatrices()
	return nil
}

// Frame is a JSON friendly snapshot for viewers
type Frame struct {
	AnimTime float64                            `json:"anim_time"`
	Rate     float32                            `json:"rate"`
	Matrices [skeleton.FIGURE_BONES][16]float32 `json:"matrices"`
	Light    [3]float32                         `json:"light"`
}

func (s *State) Frame() *Frame {
	f := &Frame{AnimTime: s.AnimTime, Rate: s.Rate, Light: s.Light}
	for i, m := range s.Matrices {
		f.Matrices[i] = m.Mat4()
	}
	return f
}
