package abi

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/staging"
)

func characterMetadata() *Metadata {
	return &Metadata{
		Version: VERSION,
		Skeletons: []SkeletonAnimations{{
			Kind:       skeleton.KIND_CHARACTER,
			Animations: []Animation{{Name: "idle", Symbol: "character_idle"}},
		}},
	}
}

func TestMetadataLayout(t *testing.T) {
	buf := make([]byte, staging.BUFFER_SIZE)
	n, err := staging.Encode(buf, characterMetadata())
	require.NoError(t, err)
	assert.Equal(t, 58, n)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "metadata_character", []byte(fmt.Sprintf("% x", buf[:n])))
}

func TestMetadataRoundTrip(t *testing.T) {
	in := characterMetadata()
	in.Skeletons[0].Animations = append(in.Skeletons[0].Animations,
		Animation{Name: "wave", Symbol: "character_wave"})

	buf := make([]byte, staging.BUFFER_SIZE)
	_, err := staging.Encode(buf, in)
	require.NoError(t, err)

	var out Metadata
	require.NoError(t, staging.Decode(buf, &out))
	assert.Equal(t, in, &out)
}

func TestMetadataLookup(t *testing.T) {
	md := characterMetadata()

	symbol, ok := md.Lookup(skeleton.KIND_CHARACTER, "idle")
	require.True(t, ok)
	assert.Equal(t, "character_idle", symbol)

	_, ok = md.Lookup(skeleton.KIND_CHARACTER, "dance")
	assert.False(t, ok)
	_, ok = md.Lookup(skeleton.Kind(7), "idle")
	assert.False(t, ok)

	assert.True(t, md.HasSymbol("character_idle"))
	assert.False(t, md.HasSymbol("idle"))
}

func TestMetadataUnknownKindTag(t *testing.T) {
	buf := make([]byte, staging.BUFFER_SIZE)
	_, err := staging.Encode(buf, characterMetadata())
	require.NoError(t, err)
	buf[12] = 9 // kind tag of the first skeleton entry

	var out Metadata
	err = staging.Decode(buf, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, staging.ErrMismatch))
}

func TestMetadataEmptyBuffer(t *testing.T) {
	// zeroed staging buffer is a valid descriptor with nothing registered
	var out Metadata
	require.NoError(t, staging.Decode(make([]byte, staging.BUFFER_SIZE), &out))
	assert.Empty(t, out.Skeletons)
}

func samplePassThrough(t *testing.T) *PassThrough[float64] {
	p, err := NewPassThrough[float64](skeleton.KIND_CHARACTER)
	require.NoError(t, err)
	p.Dependency = 12.5
	p.Rate = 0.75
	c := p.Skeleton.(*skeleton.Character)
	c.Head.Offset = mgl32.Vec3{1, 2, 3}
	c.RControl.Ori = mgl32.QuatRotate(0.3, mgl32.Vec3{0, 0, 1})
	a := p.Attr.(*skeleton.CharacterAttr)
	a.Scaler = 1.1
	a.Lantern = [3]float32{4, 5, 6}
	return p
}

func TestPassThroughRoundTrip(t *testing.T) {
	in := samplePassThrough(t)
	buf := make([]byte, staging.BUFFER_SIZE)
	n, err := staging.Encode(buf, in)
	require.NoError(t, err)
	assert.Equal(t, CHARACTER_PASS_THROUGH_SIZE, n)
	assert.Equal(t, 908, n)

	out, err := NewPassThrough[float64](skeleton.KIND_CHARACTER)
	require.NoError(t, err)
	require.NoError(t, staging.Decode(buf, out))
	assert.Equal(t, in, out)
	require.NoError(t, out.Validate())
}

func TestPassThroughDependencyWidth(t *testing.T) {
	p32, err := NewPassThrough[uint32](skeleton.KIND_CHARACTER)
	require.NoError(t, err)
	p64, err := NewPassThrough[float64](skeleton.KIND_CHARACTER)
	require.NoError(t, err)
	assert.Equal(t, staging.Size(p64)-4, staging.Size(p32))

	p32.Dependency = 0xcafe
	buf := make([]byte, staging.BUFFER_SIZE)
	_, err = staging.Encode(buf, p32)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfe, 0xca, 0, 0}, buf[:4])
}

type foreignAttr struct{ skeleton.CharacterAttr }

func (foreignAttr) Kind() skeleton.Kind { return skeleton.Kind(5) }

func TestPassThroughValidate(t *testing.T) {
	p := &PassThrough[float64]{}
	assert.Error(t, p.Validate())

	p = samplePassThrough(t)
	p.Attr = &foreignAttr{}
	assert.True(t, errors.Is(p.Validate(), skeleton.ErrKindMismatch))
}

func TestAnimReturnRoundTrip(t *testing.T) {
	in, err := NewAnimReturn(skeleton.KIND_CHARACTER)
	require.NoError(t, err)
	in.Rate = 2
	in.Skeleton.(*skeleton.Character).Lantern.Scale = mgl32.Vec3{0, 0, 0}

	buf := make([]byte, staging.BUFFER_SIZE)
	n, err := staging.Encode(buf, in)
	require.NoError(t, err)
	assert.Equal(t, CHARACTER_ANIM_RETURN_SIZE, n)
	assert.Equal(t, 804, n)

	out, err := NewAnimReturn(skeleton.KIND_CHARACTER)
	require.NoError(t, err)
	require.NoError(t, staging.Decode(buf, out))
	assert.Equal(t, in, out)
}

func TestUnknownKindConstructors(t *testing.T) {
	_, err := NewPassThrough[float64](skeleton.Kind(3))
	assert.True(t, errors.Is(err, skeleton.ErrUnknownKind))
	_, err = NewAnimReturn(skeleton.Kind(3))
	assert.True(t, errors.Is(err, skeleton.ErrUnknownKind))
}
