package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/staging"
)

const CHARACTER_BONES = 20
const CHARACTER_SKELETON_SIZE = CHARACTER_BONES * BONE_SIZE

// scaler, head_scale, 5 pairs, 4 triples
const CHARACTER_ATTR_SIZE = (2 + 5*2 + 4*3) * 4

// Bone names in wire order
var CharacterBoneNames = [CHARACTER_BONES]string{
	"head", "chest", "belt", "back", "shorts",
	"l_hand", "r_hand", "l_foot", "r_foot",
	"l_shoulder", "r_shoulder", "glider",
	"main", "second", "lantern", "hold",
	"torso", "control", "l_control", "r_control",
}

// Output slot names of ComputeMatrices
var CharacterSlotNames = [FIGURE_BONES]string{
	"head", "chest", "belt", "back", "shorts",
	"l_hand", "r_hand", "l_foot", "r_foot",
	"l_shoulder", "r_shoulder", "glider",
	"main", "second", "lantern", "hold",
}

type Character struct {
	Head      Bone
	Chest     Bone
	Belt      Bone
	Back      Bone
	Shorts    Bone
	LHand     Bone
	RHand     Bone
	LFoot     Bone
	RFoot     Bone
	LShoulder Bone
	RShoulder Bone
	Glider    Bone
	Main      Bone
	Second    Bone
	Lantern   Bone
	Hold      Bone
	Torso     Bone
	Control   Bone
	LControl  Bone
	RControl  Bone
}

func NewCharacter() *Character {
	c := &Character{}
	for _, b := range c.bones() {
		*b = DefaultBone()
	}
	return c
}

func (c *Character) bones() [CHARACTER_BONES]*Bone {
	return [CHARACTER_BONES]*Bone{
		&c.Head, &c.Chest, &c.Belt, &c.Back, &c.Shorts,
		&c.LHand, &c.RHand, &c.LFoot, &c.RFoot,
		&c.LShoulder, &c.RShoulder, &c.Glider,
		&c.Main, &c.Second, &c.Lantern, &c.Hold,
		&c.Torso, &c.Control, &c.LControl, &c.RControl,
	}
}

type NamedBone struct {
	Name string
	Bone *Bone
}

// Bones lists bones in wire order; pointers alias c
func (c *Character) Bones() []NamedBone {
	bones := c.bones()
	result := make([]NamedBone, len(bones))
	for i, b := range bones {
		result[i] = NamedBone{Name: CharacterBoneNames[i], Bone: b}
	}
	return result
}

func (c *Character) Bone(name string) (*Bone, bool) {
	for i, n := range CharacterBoneNames {
		if n == name {
			return c.bones()[i], true
		}
	}
	return nil, false
}

func (c *Character) Kind() Kind { return KIND_CHARACTER }

// Slot count the renderer skins for this kind. ComputeMatrices still fills
// all FIGURE_BONES slots, the held item being the extra one.
func (c *Character) BoneCount() int { return 15 }

func (c *Character) Clone() Skeleton {
	cp := *c
	return &cp
}

func (c *Character) ComputeMatrices() ([FIGURE_BONES]FigureBoneData, mgl32.Vec3) {
	torso := c.Torso.BaseMatrix()
	chest := c.Chest.BaseMatrix()
	lHand := c.LHand.BaseMatrix()
	rHand := c.RHand.BaseMatrix()
	control := c.Control.BaseMatrix()
	lControl := c.LControl.BaseMatrix()
	rControl := c.RControl.BaseMatrix()
	shorts := c.Shorts.BaseMatrix()

	torsoChest := torso.Mul4(chest)
	lControlChain := torsoChest.Mul4(control).Mul4(lControl)
	rControlChain := torsoChest.Mul4(control).Mul4(rControl)
	lantern := torsoChest.Mul4(shorts).Mul4(c.Lantern.BaseMatrix())

	mats := [FIGURE_BONES]mgl32.Mat4{
		torsoChest.Mul4(c.Head.BaseMatrix()),
		torsoChest,
		torsoChest.Mul4(c.Belt.BaseMatrix()),
		torsoChest.Mul4(c.Back.BaseMatrix()),
		torsoChest.Mul4(shorts),
		lControlChain.Mul4(lHand),
		rControlChain.Mul4(rHand),
		torso.Mul4(c.LFoot.BaseMatrix()),
		torso.Mul4(c.RFoot.BaseMatrix()),
		torsoChest.Mul4(c.LShoulder.BaseMatrix()),
		torsoChest.Mul4(c.RShoulder.BaseMatrix()),
		torso.Mul4(c.Glider.BaseMatrix()),
		lControlChain.Mul4(c.Main.BaseMatrix()),
		rControlChain.Mul4(c.Second.BaseMatrix()),
		lantern,
		torsoChest.Mul4(lHand).Mul4(c.Hold.BaseMatrix()),
	}

	var result [FIGURE_BONES]FigureBoneData
	for i, m := range mats {
		result[i] = NewFigureBoneData(m)
	}
	return result, lantern.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

func (c *Character) InterpolateCharacter(target *Character, dt float32) {
	dst, src := c.bones(), target.bones()
	for i := range dst {
		dst[i].Interpolate(src[i], dt)
	}
}

func (c *Character) Interpolate(target Skeleton, dt float32) error {
	t, ok := target.(*Character)
	if !ok {
		return errors.Wrapf(ErrKindMismatch, "interpolating %v toward %v", c.Kind(), target.Kind())
	}
	c.InterpolateCharacter(t, dt)
	return nil
}

func (c *Character) MarshalStaging(w *staging.Writer) {
	for _, b := range c.bones() {
		b.MarshalStaging(w)
	}
}

func (c *Character) UnmarshalStaging(r *staging.Reader) {
	for _, b := range c.bones() {
		b.UnmarshalStaging(r)
	}
}

// CharacterAttr holds per-character proportions, read-only for animations
type CharacterAttr struct {
	Scaler    float32    `yaml:"scaler" json:"scaler"`
	HeadScale float32    `yaml:"head_scale" json:"head_scale"`
	Head      [2]float32 `yaml:"head" json:"head"`
	Chest     [2]float32 `yaml:"chest" json:"chest"`
	Belt      [2]float32 `yaml:"belt" json:"belt"`
	Back      [2]float32 `yaml:"back" json:"back"`
	Shorts    [2]float32 `yaml:"shorts" json:"shorts"`
	Hand      [3]float32 `yaml:"hand" json:"hand"`
	Foot      [3]float32 `yaml:"foot" json:"foot"`
	Shoulder  [3]float32 `yaml:"shoulder" json:"shoulder"`
	Lantern   [3]float32 `yaml:"lantern" json:"lantern"`
}

func (a *CharacterAttr) Kind() Kind { return KIND_CHARACTER }

func (a *CharacterAttr) pairs() [5]*[2]float32 {
	return [5]*[2]float32{&a.Head, &a.Chest, &a.Belt, &a.Back, &a.Shorts}
}

func (a *CharacterAttr) triples() [4]*[3]float32 {
	return [4]*[3]float32{&a.Hand, &a.Foot, &a.Shoulder, &a.Lantern}
}

func (a *CharacterAttr) MarshalStaging(w *staging.Writer) {
	w.F32s(a.Scaler, a.HeadScale)
	for _, p := range a.pairs() {
		w.F32s(p[:]...)
	}
	for _, t := range a.triples() {
		w.F32s(t[:]...)
	}
}

func (a *CharacterAttr) UnmarshalStaging(r *staging.Reader) {
	r.F32s(&a.Scaler, &a.HeadScale)
	for _, p := range a.pairs() {
		r.F32s(&p[0], &p[1])
	}
	for _, t := range a.triples() {
		r.F32s(&t[0], &t[1], &t[2])
	}
}
