package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// angles in radians
func QuatRotationX(angle float32) mgl32.Quat { return mgl32.QuatRotate(angle, AxisX) }
func QuatRotationY(angle float32) mgl32.Quat { return mgl32.QuatRotate(angle, AxisY) }
func QuatRotationZ(angle float32) mgl32.Quat { return mgl32.QuatRotate(angle, AxisZ) }

func Sin32(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// Spherical interpolation along the shortest arc.
// mgl32.QuatSlerp takes the long way when the dot product is negative.
func QuatSlerpShortest(from, to mgl32.Quat, amount float32) mgl32.Quat {
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl32.QuatSlerp(from, to, amount)
}

// Angle between two orientations in radians, ignoring quaternion sign
func QuatAngle(a, b mgl32.Quat) float32 {
	dot := math.Abs(float64(a.Normalize().Dot(b.Normalize())))
	if dot > 1 {
		dot = 1
	}
	return float32(2 * math.Acos(dot))
}

// result in radians
func QuatToEuler(q mgl32.Quat) (e mgl32.Vec3) {
	sinr_cosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosr_cosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))

	e[0] = float32(math.Atan2(sinr_cosp, cosr_cosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if math.Abs(sinp) >= 1 {
		e[1] = math.Pi / 2
		if sinp < 0 {
			e[1] *= -1
		}
	} else {
		e[1] = float32(math.Asin(sinp))
	}

	siny_cosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosy_cosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(siny_cosp, cosy_cosp))

	return e
}
