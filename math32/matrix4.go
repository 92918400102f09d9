// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix,
// so the translation components live at indexes 12, 13 and 14.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	m := Matrix4{}
	m.SetIdentity()
	return m
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	*m = Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation4 returns a new translation matrix.
func Translation4(x, y, z float32) Matrix4 {
	m := Identity4()
	m.SetTranslation(x, y, z)
	return m
}

// Scale4 returns a new scale matrix.
func Scale4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// RotationZ4 returns a new matrix rotated around the Z axis by the given angle in radians.
func RotationZ4(angle float32) Matrix4 {
	c := Cos(angle)
	s := Sin(angle)
	m := Identity4()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Translation returns the translation components of this matrix.
func (m Matrix4) Translation() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// SetTranslation overwrites the translation components of this matrix,
// leaving the rotation and scale components unchanged.
func (m *Matrix4) SetTranslation(x, y, z float32) {
	m[12] = x
	m[13] = y
	m[14] = z
}

// Mul returns the matrix product m * other.
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// MulVector3 returns the point v transformed by this matrix (w = 1).
func (m Matrix4) MulVector3(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// IsEqualTol returns if all components of this matrix equal the
// other's within the given tolerance.
func (m Matrix4) IsEqualTol(other Matrix4, tol float32) bool {
	for i := range m {
		if !ApproxEqual(m[i], other[i], tol) {
			return false
		}
	}
	return true
}
