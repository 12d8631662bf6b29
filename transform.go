package applescene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ParseVec3 reads the "x y z" form used by entity files. Commas are accepted
// as separators too.
func ParseVec3(s string) (mgl32.Vec3, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("vector %q: expected 3 components, got %d", s, len(fields))
	}
	var v mgl32.Vec3
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = float32(n)
	}
	return v, nil
}

func FormatVec3(v mgl32.Vec3) string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

func formatFloat(f float32) string {
	if f == 0 {
		// avoid "-0"
		f = 0
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// ComposeTransform builds T * Rz * Ry * Rx * S. Rotation is Euler degrees.
func ComposeTransform(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation[2])).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation[1]))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation[0])))

	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// DecomposeTransform inverts ComposeTransform for matrices without shear.
// Scale is always reported positive.
func DecomposeTransform(m mgl32.Mat4) (position, rotation, scale mgl32.Vec3) {
	position = m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i, c := range cols {
		scale[i] = c.Len()
		if scale[i] != 0 {
			cols[i] = c.Mul(1 / scale[i])
		}
	}

	// cols[j][i] is element (row i, col j) of the pure rotation.
	r20 := float64(cols[0][2])
	r21 := float64(cols[1][2])
	r22 := float64(cols[2][2])
	r10 := float64(cols[0][1])
	r00 := float64(cols[0][0])

	y := math.Asin(-clamp(r20, -1, 1))
	var x, z float64
	if math.Abs(r20) < 0.99999 {
		x = math.Atan2(r21, r22)
		z = math.Atan2(r10, r00)
	} else {
		// gimbal lock: fold the whole remaining rotation into Z
		r01 := float64(cols[1][0])
		r11 := float64(cols[1][1])
		z = math.Atan2(-r01, r11)
	}

	rotation = mgl32.Vec3{
		mgl32.RadToDeg(float32(x)),
		mgl32.RadToDeg(float32(y)),
		mgl32.RadToDeg(float32(z)),
	}
	return position, rotation, scale
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// snapVec3 rounds to 1e-4 so decomposed values print cleanly.
func snapVec3(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		v[i] = float32(math.Round(float64(v[i])*1e4) / 1e4)
	}
	return v
}
