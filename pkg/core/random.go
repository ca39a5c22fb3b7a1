package core

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	hashMultiplier = 1103515245
	positiveMask   = 0x7fffffff

	// largest float32 below 1
	oneMinusEpsilon = 0x1.fffffep-1

	// spreads successive time values evenly over [0, 1)
	goldenRatioConjugate = 0.6180339887498949
)

// Seed is the state of a stateless hash-based random stream.
// Every draw advances the seed, so each pixel evaluation must hold its own
// Seed; two holders never interfere with each other.
type Seed float32

// NewPixelSeed derives a seed from a pixel coordinate and a time value so
// that neighbouring pixels and successive frames draw decorrelated streams.
// The time term is folded into [0, 1) along a golden-ratio sequence, so the
// pixel term keeps full float32 precision at any elapsed time.
func NewPixelSeed(x, y, time float32) Seed {
	h := baseHash(math32.Float32bits(x), math32.Float32bits(y))
	offset := fract(float64(time) * goldenRatioConjugate)
	return Seed(float32(fract(float64(h)/float64(0xffffffff) + offset)))
}

func fract(v float64) float64 {
	return v - math.Floor(v)
}

// baseHash mixes two 32-bit words with multiply-xor-shift rounds
func baseHash(x, y uint32) uint32 {
	px := hashMultiplier * ((x >> 1) ^ y)
	py := hashMultiplier * ((y >> 1) ^ x)
	h := hashMultiplier * (px ^ (py >> 3))
	return h ^ (h >> 16)
}

// next advances the seed twice and hashes the bit patterns of both values
func (s *Seed) next() uint32 {
	*s += 0.1
	a := math32.Float32bits(float32(*s))
	*s += 0.1
	b := math32.Float32bits(float32(*s))
	return baseHash(a, b)
}

// unit maps a hash word onto [0, 1)
func unit(n uint32) float32 {
	v := float32(n&positiveMask) / float32(positiveMask)
	if v >= 1 {
		return oneMinusEpsilon
	}
	return v
}

// Uniform1 returns a uniform value in [0, 1)
func (s *Seed) Uniform1() float32 {
	return unit(s.next())
}

// Uniform2 returns two uniform values in [0, 1)
func (s *Seed) Uniform2() (float32, float32) {
	n := s.next()
	return unit(n), unit(n * 48271)
}

// Uniform3 returns three uniform values in [0, 1)
func (s *Seed) Uniform3() Vec3 {
	n := s.next()
	return Vec3{X: unit(n), Y: unit(n * 16807), Z: unit(n * 48271)}
}

// InUnitSphere returns a point uniformly distributed inside the unit sphere.
// The mapping is closed form: z picks the polar height, phi the azimuth and
// the cube root of the third draw the radius, so it never loops.
func (s *Seed) InUnitSphere() Vec3 {
	h := s.Uniform3()
	z := 2*h.X - 1
	phi := 2 * math32.Pi * h.Y
	r := math32.Pow(h.Z, 1.0/3.0)

	ring := math32.Sqrt(max(0, 1-z*z))
	return Vec3{
		X: r * ring * math32.Sin(phi),
		Y: r * ring * math32.Cos(phi),
		Z: r * z,
	}
}

// UnitVector returns a random direction of unit length
func (s *Seed) UnitVector() Vec3 {
	return s.InUnitSphere().Normalize()
}
