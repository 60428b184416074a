// Package skeleton holds the figure data model shared by hosts and animation
// modules: bones, per-kind skeletons with their attribute records, and the
// world matrix compositor.
package skeleton

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/staging"
)

// Output matrix slots of every skeleton kind
const FIGURE_BONES = 16

var (
	ErrUnknownKind  = errors.New("unknown skeleton kind")
	ErrKindMismatch = errors.New("skeleton kind mismatch")
)

// Kind is the closed set of skeleton variants. The value is the wire tag.
type Kind uint32

const (
	KIND_CHARACTER Kind = iota
)

var kindNames = map[Kind]string{
	KIND_CHARACTER: "character",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", name)
}

// FigureBoneData is one world matrix as column arrays, the layout the renderer uploads
type FigureBoneData struct {
	BoneMat [4][4]float32
}

func NewFigureBoneData(m mgl32.Mat4) FigureBoneData {
	var fbd FigureBoneData
	for col := 0; col < 4; col++ {
		copy(fbd.BoneMat[col][:], m[col*4:col*4+4])
	}
	return fbd
}

func DefaultFigureBoneData() FigureBoneData {
	return NewFigureBoneData(mgl32.Ident4())
}

func (fbd FigureBoneData) Mat4() (m mgl32.Mat4) {
	for col := 0; col < 4; col++ {
		copy(m[col*4:col*4+4], fbd.BoneMat[col][:])
	}
	return m
}

// Skeleton is the capability set every kind implements
type Skeleton interface {
	staging.Marshaler
	staging.Unmarshaler

	Kind() Kind
	BoneCount() int
	ComputeMatrices() ([FIGURE_BONES]FigureBoneData, mgl32.Vec3)
	// Interpolate moves every bone toward target, which must be the same kind
	Interpolate(target Skeleton, dt float32) error
	Clone() Skeleton
}

// Attr parametrizes proportions of a skeleton kind
type Attr interface {
	staging.Marshaler
	staging.Unmarshaler

	Kind() Kind
}

// New returns the default pose and a zero attribute record for kind
func New(kind Kind) (Skeleton, Attr, error) {
	switch kind {
	case KIND_CHARACTER:
		return NewCharacter(), &CharacterAttr{}, nil
	default:
		return nil, nil, errors.Wrapf(ErrUnknownKind, "%v", kind)
	}
}
