package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/abi"
	"github.com/mogaika/figure_anim/anim"
	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/utils"
)

const (
	IDLE_NAME   = "idle"
	IDLE_SYMBOL = "character_idle"
)

const pi = float32(math.Pi)

func init() {
	anim.Register(skeleton.KIND_CHARACTER, IDLE_NAME, IDLE_SYMBOL, Idle)
}

func one() mgl32.Vec3 { return mgl32.Vec3{1, 1, 1} }

// Idle is the standing pose with slow breathing, every bone set from time alone
func Idle(animTime float64, rate float32, req *abi.PassThrough[float64]) (*abi.AnimReturn, error) {
	from, ok := req.Skeleton.(*skeleton.Character)
	if !ok {
		return nil, errors.Wrapf(skeleton.ErrKindMismatch, "idle got %v skeleton", req.Skeleton.Kind())
	}
	attr, ok := req.Attr.(*skeleton.CharacterAttr)
	if !ok {
		return nil, errors.Wrapf(skeleton.ErrKindMismatch, "idle got %v attributes", req.Attr.Kind())
	}

	next := *from
	IdlePose(&next, attr, animTime)

	return &abi.AnimReturn{Skeleton: &next, Rate: rate}, nil
}

// IdlePose overwrites every bone of next with the idle pose at animTime
func IdlePose(next *skeleton.Character, attr *skeleton.CharacterAttr, animTime float64) {
	t := float32(animTime)

	wave := utils.Sin32(t * 1.0)
	waveCos := utils.Sin32(t*1.0 + pi/2.0)
	headAbs := utils.Sin32(t*0.5+pi) + 1.0

	next.Head.Offset = mgl32.Vec3{
		0.0,
		-2.0 + attr.Head[0],
		attr.Head[1] + wave*0.1 + headAbs*-0.5,
	}
	next.Head.Ori = mgl32.QuatIdent()
	next.Head.Scale = uniform(1.0*attr.HeadScale - headAbs*0.05)

	next.Chest.Offset = mgl32.Vec3{0.0, attr.Chest[0], attr.Chest[1] + wave*0.1}
	next.Chest.Ori = mgl32.QuatIdent()
	next.Chest.Scale = uniform(1.0 + headAbs*0.05)

	next.Belt.Offset = mgl32.Vec3{0.0, attr.Belt[0], attr.Belt[1] + wave*0.1}
	next.Belt.Ori = utils.QuatRotationX(0.0)
	next.Belt.Scale = uniform(1.0 - headAbs*0.05)

	// not animated while idle, reset so no input bone leaks through
	next.Back = skeleton.DefaultBone()

	next.Shorts.Offset = mgl32.Vec3{0.0, attr.Shorts[0], attr.Shorts[1] + wave*0.1}
	next.Shorts.Ori = utils.QuatRotationX(0.0)
	next.Shorts.Scale = one()

	next.LHand.Offset = mgl32.Vec3{
		-attr.Hand[0],
		attr.Hand[1] + waveCos*0.15,
		attr.Hand[2] + wave*0.5,
	}
	next.LHand.Ori = utils.QuatRotationX(0.0 + wave*-0.06)
	next.LHand.Scale = one()

	next.RHand.Offset = mgl32.Vec3{
		attr.Hand[0],
		attr.Hand[1] + waveCos*0.15,
		attr.Hand[2] + wave*0.5 + headAbs*-0.05,
	}
	next.RHand.Ori = utils.QuatRotationX(0.0 + wave*-0.06)
	next.RHand.Scale = uniform(1.0 + headAbs*-0.05)

	next.LFoot.Offset = mgl32.Vec3{-attr.Foot[0], attr.Foot[1], attr.Foot[2]}
	next.LFoot.Ori = mgl32.QuatIdent()
	next.LFoot.Scale = one()

	next.RFoot.Offset = mgl32.Vec3{attr.Foot[0], attr.Foot[1], attr.Foot[2]}
	next.RFoot.Ori = mgl32.QuatIdent()
	next.RFoot.Scale = one()

	// y reuses the x magnitude of the shoulder attribute
	next.LShoulder.Offset = mgl32.Vec3{-attr.Shoulder[0], attr.Shoulder[0], attr.Shoulder[2]}
	next.LShoulder.Ori = utils.QuatRotationX(0.0)
	next.LShoulder.Scale = uniform(1.0 + headAbs*-0.05).Mul(1.15)

	next.RShoulder.Offset = mgl32.Vec3{attr.Shoulder[0], attr.Shoulder[0], attr.Shoulder[2]}
	next.RShoulder.Ori = utils.QuatRotationX(0.0)
	next.RShoulder.Scale = uniform(1.0 + headAbs*-0.05).Mul(1.15)

	next.Glider.Offset = mgl32.Vec3{}
	next.Glider.Ori = mgl32.QuatIdent()
	next.Glider.Scale = one().Mul(0.0)

	next.Main.Offset = mgl32.Vec3{-7.0, -5.0, 18.0}
	next.Main.Ori = utils.QuatRotationY(2.5).Mul(utils.QuatRotationZ(1.57))
	next.Main.Scale = uniform(1.0 + headAbs*-0.05)

	next.Second.Offset = mgl32.Vec3{0.0, 0.0, 0.0}
	next.Second.Ori = mgl32.QuatIdent()
	next.Second.Scale = one().Mul(0.0)

	next.Lantern.Offset = mgl32.Vec3{attr.Lantern[0], attr.Lantern[1], attr.Lantern[2]}
	next.Lantern.Ori = utils.QuatRotationX(0.0)
	next.Lantern.Scale = one().Mul(0.0)

	next.Hold = skeleton.DefaultBone()

	next.Torso.Offset = mgl32.Vec3{0.0, -0.2, 0.1}.Mul(attr.Scaler)
	next.Torso.Ori = utils.QuatRotationX(0.0)
	next.Torso.Scale = one().Mul(1.0 / 11.0).Mul(attr.Scaler)

	for _, b := range []*skeleton.Bone{&next.Control, &next.LControl, &next.RControl} {
		b.Offset = mgl32.Vec3{0.0, 0.0, 0.0}
		b.Ori = utils.QuatRotationX(0.0)
		b.Scale = one()
	}
}

func uniform(v float32) mgl32.Vec3 {
	return mgl32.Vec3{v, v, v}
}
