package skeleton

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/figure_anim/staging"
	"github.com/mogaika/figure_anim/utils"
)

const eps = 1e-5

func randomBone(rf *utils.RandomFloats) Bone {
	axis := mgl32.Vec3(rf.Vec3(-1, 1))
	if axis.Len() < 0.01 {
		axis = utils.AxisY
	}
	return Bone{
		Offset: rf.Vec3(-10, 10),
		Ori:    mgl32.QuatRotate(rf.Float32(-3, 3), axis.Normalize()),
		Scale:  rf.Vec3(0, 2),
	}
}

func randomCharacter(rf *utils.RandomFloats) *Character {
	c := NewCharacter()
	for _, nb := range c.Bones() {
		*nb.Bone = randomBone(rf)
	}
	return c
}

func TestDefaultBone(t *testing.T) {
	b := DefaultBone()
	assert.Equal(t, mgl32.Vec3{}, b.Offset)
	assert.Equal(t, mgl32.QuatIdent(), b.Ori)
	assert.Equal(t, mgl32.Vec3{1.0 / 11.0, 1.0 / 11.0, 1.0 / 11.0}, b.Scale)

	c := NewCharacter()
	for _, nb := range c.Bones() {
		assert.Equal(t, b, *nb.Bone, nb.Name)
	}
}

func TestBaseMatrixOrder(t *testing.T) {
	b := Bone{
		Offset: mgl32.Vec3{1, 2, 3},
		Ori:    utils.QuatRotationZ(mgl32.DegToRad(90)),
		Scale:  mgl32.Vec3{2, 3, 4},
	}
	m := b.BaseMatrix()

	// x axis rotates to y first, then y is scaled by 3, then translated
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{1, 2 + 3, 3, 1}, eps), "%v", p)

	// translation is not scaled by the own scale
	o := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, o.ApproxEqualThreshold(mgl32.Vec4{1, 2, 3, 1}, eps), "%v", o)

	expected := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 3, 4)).Mul4(b.Ori.Mat4())
	assert.Equal(t, expected, m)
}

func TestComputeMatricesChains(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 1}
	c := randomCharacter(rf)
	mats, light := c.ComputeMatrices()

	chain := func(bones ...*Bone) mgl32.Mat4 {
		m := bones[0].BaseMatrix()
		for _, b := range bones[1:] {
			m = m.Mul4(b.BaseMatrix())
		}
		return m
	}

	expected := [FIGURE_BONES]mgl32.Mat4{
		chain(&c.Torso, &c.Chest, &c.Head),
		chain(&c.Torso, &c.Chest),
		chain(&c.Torso, &c.Chest, &c.Belt),
		chain(&c.Torso, &c.Chest, &c.Back),
		chain(&c.Torso, &c.Chest, &c.Shorts),
		chain(&c.Torso, &c.Chest, &c.Control, &c.LControl, &c.LHand),
		chain(&c.Torso, &c.Chest, &c.Control, &c.RControl, &c.RHand),
		chain(&c.Torso, &c.LFoot),
		chain(&c.Torso, &c.RFoot),
		chain(&c.Torso, &c.Chest, &c.LShoulder),
		chain(&c.Torso, &c.Chest, &c.RShoulder),
		chain(&c.Torso, &c.Glider),
		chain(&c.Torso, &c.Chest, &c.Control, &c.LControl, &c.Main),
		chain(&c.Torso, &c.Chest, &c.Control, &c.RControl, &c.Second),
		chain(&c.Torso, &c.Chest, &c.Shorts, &c.Lantern),
		chain(&c.Torso, &c.Chest, &c.LHand, &c.Hold),
	}
	for i := range expected {
		assert.Equal(t, expected[i], mats[i].Mat4(), CharacterSlotNames[i])
	}

	lantern := expected[14].Col(3).Vec3()
	assert.Equal(t, lantern, light)
}

func TestComputeMatricesDeterministic(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 2}
	c := randomCharacter(rf)
	mats1, light1 := c.ComputeMatrices()
	mats2, light2 := c.ComputeMatrices()
	assert.Equal(t, mats1, mats2)
	assert.Equal(t, light1, light2)
}

func TestDefaultPoseMatrices(t *testing.T) {
	mats, light := NewCharacter().ComputeMatrices()
	// torso * chest = scale 1/121
	m := mats[1].Mat4()
	assert.InDelta(t, 1.0/121.0, m[0], eps)
	assert.InDelta(t, 1.0/121.0, m[5], eps)
	assert.InDelta(t, 1.0/121.0, m[10], eps)
	assert.Equal(t, mgl32.Vec3{}, light)
}

func TestFigureBoneDataColumns(t *testing.T) {
	m := mgl32.Translate3D(5, 6, 7)
	fbd := NewFigureBoneData(m)
	assert.Equal(t, [4]float32{5, 6, 7, 1}, fbd.BoneMat[3])
	assert.Equal(t, m, fbd.Mat4())
	assert.Equal(t, mgl32.Ident4(), DefaultFigureBoneData().Mat4())
}

func TestInterpolateSnapsToTarget(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 3}
	for _, dt := range []float32{0.07, 0.1, 1, 100} {
		from, target := randomBone(rf), randomBone(rf)
		from.Interpolate(&target, dt)
		assert.Equal(t, target, from, "dt=%v", dt)
	}
}

func TestInterpolateMonotonic(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 4}
	for i := 0; i < 20; i++ {
		from, target := randomBone(rf), randomBone(rf)
		prev := from.Distance(&target)
		for _, dt := range []float32{0.005, 0.01, 0.02, 0.04, 0.06} {
			b := from
			b.Interpolate(&target, dt)
			d := b.Distance(&target)
			assert.Less(t, d, prev, "sample %d dt=%v", i, dt)
			prev = d
		}
	}
}

func TestInterpolateShortestArc(t *testing.T) {
	from := DefaultBone()
	target := DefaultBone()
	target.Ori = utils.QuatRotationX(0.5).Scale(-1) // same rotation, other hemisphere

	from.Interpolate(&target, 0.5/15.0)
	assert.InDelta(t, 0.25, utils.QuatAngle(from.Ori, utils.QuatRotationX(0)), 1e-3)
}

func TestInterpolateZeroDt(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 5}
	from, target := randomBone(rf), randomBone(rf)
	b := from
	b.Interpolate(&target, 0)
	assert.True(t, b.ApproxEqual(&from, 1e-3))
	b.Interpolate(&target, -1)
	assert.True(t, b.ApproxEqual(&from, 1e-3))
}

func TestCharacterInterpolate(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 6}
	c, target := randomCharacter(rf), randomCharacter(rf)
	require.NoError(t, c.Interpolate(target, 1))
	assert.Equal(t, *target, *c)
}

type otherSkeleton struct{ Character }

func (o *otherSkeleton) Kind() Kind { return Kind(99) }

func TestInterpolateKindMismatch(t *testing.T) {
	err := NewCharacter().Interpolate(&otherSkeleton{}, 0.1)
	assert.True(t, errors.Is(err, ErrKindMismatch))
}

func TestCharacterStagingRoundTrip(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 7}
	in := randomCharacter(rf)
	buf := make([]byte, staging.BUFFER_SIZE)
	n, err := staging.Encode(buf, in)
	require.NoError(t, err)
	assert.Equal(t, CHARACTER_SKELETON_SIZE, n)

	out := &Character{}
	require.NoError(t, staging.Decode(buf, out))
	assert.Equal(t, in, out)
}

func TestCharacterAttrStagingRoundTrip(t *testing.T) {
	rf := &utils.RandomFloats{Seed: 8}
	in := &CharacterAttr{
		Scaler: rf.Float32(0, 2), HeadScale: rf.Float32(0, 2),
		Head: rf.Vec2(-20, 20), Chest: rf.Vec2(-20, 20), Belt: rf.Vec2(-20, 20),
		Back: rf.Vec2(-20, 20), Shorts: rf.Vec2(-20, 20),
		Hand: rf.Vec3(-20, 20), Foot: rf.Vec3(-20, 20),
		Shoulder: rf.Vec3(-20, 20), Lantern: rf.Vec3(-20, 20),
	}
	buf := make([]byte, staging.BUFFER_SIZE)
	n, err := staging.Encode(buf, in)
	require.NoError(t, err)
	assert.Equal(t, CHARACTER_ATTR_SIZE, n)

	out := &CharacterAttr{}
	require.NoError(t, staging.Decode(buf, out))
	assert.Equal(t, in, out)
}

func TestBoneLayout(t *testing.T) {
	b := Bone{Offset: mgl32.Vec3{1, 2, 3}, Ori: mgl32.Quat{W: 7, V: mgl32.Vec3{4, 5, 6}}, Scale: mgl32.Vec3{8, 9, 10}}
	buf := make([]byte, BONE_SIZE)
	_, err := staging.Encode(buf, &b)
	require.NoError(t, err)

	r := staging.NewReader(buf)
	for i := 1; i <= 10; i++ {
		assert.Equal(t, float32(i), r.F32())
	}
}

func TestKinds(t *testing.T) {
	k, err := ParseKind("character")
	require.NoError(t, err)
	assert.Equal(t, KIND_CHARACTER, k)
	assert.Equal(t, "character", k.String())

	_, err = ParseKind("dragon")
	assert.True(t, errors.Is(err, ErrUnknownKind))

	skel, attr, err := New(KIND_CHARACTER)
	require.NoError(t, err)
	assert.Equal(t, KIND_CHARACTER, skel.Kind())
	assert.Equal(t, KIND_CHARACTER, attr.Kind())
	assert.Equal(t, 15, skel.BoneCount())

	_, _, err = New(Kind(42))
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.False(t, Kind(42).Valid())
}

func TestBoneLookup(t *testing.T) {
	c := NewCharacter()
	b, ok := c.Bone("lantern")
	require.True(t, ok)
	assert.Same(t, &c.Lantern, b)

	_, ok = c.Bone("tail")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	c := NewCharacter()
	cp := c.Clone().(*Character)
	cp.Head.Offset = mgl32.Vec3{1, 1, 1}
	assert.Equal(t, mgl32.Vec3{}, c.Head.Offset)
}
