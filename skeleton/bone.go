package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/figure_anim/staging"
	"github.com/mogaika/figure_anim/utils"
)

// Smoothing speed of Interpolate, per second
const INTERPOLATION_SPEED = 15.0

// offset(3) + ori(4) + scale(3) float32
const BONE_SIZE = 10 * 4

// Bone is a local transform relative to the parent bone space
type Bone struct {
	Offset mgl32.Vec3
	Ori    mgl32.Quat
	Scale  mgl32.Vec3
}

func DefaultBone() Bone {
	return Bone{
		Offset: mgl32.Vec3{},
		Ori:    mgl32.QuatIdent(),
		Scale:  mgl32.Vec3{1, 1, 1}.Mul(1.0 / 11.0),
	}
}

// BaseMatrix = Translate(offset) * Scale(scale) * Rotate(ori).
// Not the usual T*R*S: offset lives in the parent scaled space.
func (b *Bone) BaseMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(b.Offset[0], b.Offset[1], b.Offset[2]).
		Mul4(mgl32.Scale3D(b.Scale[0], b.Scale[1], b.Scale[2])).
		Mul4(b.Ori.Mat4())
}

// Interpolate moves the bone toward target by min(15*dt, 1).
// A factor of 1 lands exactly on target.
func (b *Bone) Interpolate(target *Bone, dt float32) {
	if dt < 0 {
		dt = 0
	}
	factor := INTERPOLATION_SPEED * dt
	if factor >= 1 {
		*b = *target
		return
	}
	b.Offset = b.Offset.Add(target.Offset.Sub(b.Offset).Mul(factor))
	b.Ori = utils.QuatSlerpShortest(b.Ori, target.Ori, factor)
	b.Scale = b.Scale.Add(target.Scale.Sub(b.Scale).Mul(factor))
}

// Distance sums offset, scale and rotation angle differences
func (b *Bone) Distance(other *Bone) float32 {
	return b.Offset.Sub(other.Offset).Len() +
		b.Scale.Sub(other.Scale).Len() +
		utils.QuatAngle(b.Ori, other.Ori)
}

func (b *Bone) ApproxEqual(other *Bone, eps float32) bool {
	return b.Offset.ApproxEqualThreshold(other.Offset, eps) &&
		b.Scale.ApproxEqualThreshold(other.Scale, eps) &&
		utils.QuatAngle(b.Ori, other.Ori) <= eps
}

func (b *Bone) MarshalStaging(w *staging.Writer) {
	w.F32s(b.Offset[0], b.Offset[1], b.Offset[2])
	w.F32s(b.Ori.V[0], b.Ori.V[1], b.Ori.V[2], b.Ori.W)
	w.F32s(b.Scale[0], b.Scale[1], b.Scale[2])
}

func (b *Bone) UnmarshalStaging(r *staging.Reader) {
	r.F32s(&b.Offset[0], &b.Offset[1], &b.Offset[2])
	r.F32s(&b.Ori.V[0], &b.Ori.V[1], &b.Ori.V[2], &b.Ori.W)
	r.F32s(&b.Scale[0], &b.Scale[1], &b.Scale[2])
}
