package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// Deterministic source of sample values for pose and wire tests
type RandomFloats struct {
	seeded bool
	Seed   int64
}

func (rf *RandomFloats) init() {
	if !rf.seeded {
		randomdata.CustomRand(rand.New(rand.NewSource(rf.Seed)))
		rf.seeded = true
	}
}

// Float in [min, max] with 4 decimals of precision
func (rf *RandomFloats) Float32(min, max int) float32 {
	rf.init()
	return float32(randomdata.Decimal(min, max, 4))
}

func (rf *RandomFloats) Vec3(min, max int) [3]float32 {
	return [3]float32{rf.Float32(min, max), rf.Float32(min, max), rf.Float32(min, max)}
}

func (rf *RandomFloats) Vec2(min, max int) [2]float32 {
	return [2]float32{rf.Float32(min, max), rf.Float32(min, max)}
}
