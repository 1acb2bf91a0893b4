package ec

import (
	"github.com/kochabx/clea/errors"
)

// Point is an affine P-256 point. The zero value, with both coordinates
// zero, stands for the point at infinity; (0,0) is not on the curve so
// the encoding is unambiguous.
type Point struct {
	X, Y Element
}

// Infinity is the group identity.
var Infinity = Point{}

// Generator returns the base point G.
func Generator() Point {
	return Point{X: NewElement(params.Gx), Y: NewElement(params.Gy)}
}

func (p Point) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// IsOnCurve reports whether p satisfies the curve equation. Infinity is
// reported as not on the curve.
func (p Point) IsOnCurve() bool {
	if p.IsInfinity() {
		return false
	}
	return p.Y.Square().Equal(rhs(p.X))
}

func (p Point) Equal(q Point) bool {
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

func (p Point) Neg() Point {
	if p.IsInfinity() {
		return p
	}
	return Point{X: p.X, Y: p.Y.Neg()}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	switch {
	case p.IsInfinity():
		return q
	case q.IsInfinity():
		return p
	case p.X.Equal(q.X):
		if p.Y.Equal(q.Y) {
			return p.Double()
		}
		return Infinity
	}
	lambda := q.Y.Sub(p.Y).Mul(q.X.Sub(p.X).Invert())
	x := lambda.Square().Sub(p.X).Sub(q.X)
	y := lambda.Mul(p.X.Sub(x)).Sub(p.Y)
	return Point{X: x, Y: y}
}

// Double returns 2p.
func (p Point) Double() Point {
	if p.IsInfinity() || p.Y.IsZero() {
		return Infinity
	}
	num := three.Mul(p.X.Square()).Add(elemA)
	lambda := num.Mul(p.Y.Add(p.Y).Invert())
	x := lambda.Square().Sub(p.X.Add(p.X))
	y := lambda.Mul(p.X.Sub(x)).Sub(p.Y)
	return Point{X: x, Y: y}
}

// ScalarMult returns k·p where k is a big-endian scalar. Bits are consumed
// least significant first with double-and-add.
func (p Point) ScalarMult(k []byte) Point {
	r := Infinity
	a := p
	for i := len(k) - 1; i >= 0; i-- {
		b := k[i]
		for bit := 0; bit < 8; bit++ {
			if b&1 == 1 {
				r = r.Add(a)
			}
			a = a.Double()
			b >>= 1
		}
	}
	return r
}

// ScalarBaseMult returns k·G.
func ScalarBaseMult(k []byte) Point {
	return Generator().ScalarMult(k)
}

// Uncompressed returns the 65-byte SEC1 encoding 04 || X || Y.
func (p Point) Uncompressed() []byte {
	out := make([]byte, 0, UncompressedSize)
	out = append(out, tagUncompressed)
	out = append(out, p.X.Bytes()...)
	return append(out, p.Y.Bytes()...)
}

// Compressed returns the 33-byte SEC1 encoding, tag 02 for even Y and 03
// for odd Y.
func (p Point) Compressed() []byte {
	out := make([]byte, 0, CompressedSize)
	tag := byte(tagEven)
	if p.Y.IsOdd() {
		tag = tagOdd
	}
	out = append(out, tag)
	return append(out, p.X.Bytes()...)
}

// ParseUncompressed decodes a 65-byte SEC1 point and checks it is on the
// curve.
func ParseUncompressed(b []byte) (Point, error) {
	if len(b) != UncompressedSize || b[0] != tagUncompressed {
		return Infinity, errors.InvalidPoint("ec: invalid uncompressed point length %d", len(b))
	}
	x, y := b[1:1+ByteSize], b[1+ByteSize:]
	if !canonical(x) || !canonical(y) {
		return Infinity, errors.InvalidPoint("ec: coordinate out of range")
	}
	p := Point{X: ElementFromBytes(x), Y: ElementFromBytes(y)}
	if !p.IsOnCurve() {
		return Infinity, errors.InvalidPoint("ec: point not on curve")
	}
	return p, nil
}

// Compress converts a 65-byte uncompressed point to its 33-byte form.
func Compress(uncompressed []byte) ([]byte, error) {
	if len(uncompressed) != UncompressedSize || uncompressed[0] != tagUncompressed {
		return nil, errors.InvalidPoint("ec: invalid uncompressed point length %d", len(uncompressed))
	}
	out := make([]byte, CompressedSize)
	out[0] = tagEven | uncompressed[UncompressedSize-1]&1
	copy(out[1:], uncompressed[1:1+ByteSize])
	return out, nil
}

// Decompress recovers the point encoded by a 33-byte compressed form.
func Decompress(compressed []byte) (Point, error) {
	if len(compressed) != CompressedSize {
		return Infinity, errors.InvalidPoint("ec: invalid compressed point length %d", len(compressed))
	}
	tag := compressed[0]
	if tag != tagEven && tag != tagOdd {
		return Infinity, errors.InvalidPoint("ec: invalid compressed point tag 0x%02x", tag)
	}
	if !canonical(compressed[1:]) {
		return Infinity, errors.InvalidPoint("ec: x coordinate out of range")
	}

	x := ElementFromBytes(compressed[1:])
	y, ok := rhs(x).Sqrt()
	if !ok {
		return Infinity, errors.InvalidPoint("ec: x is not on the curve")
	}
	if y.IsOdd() != (tag == tagOdd) {
		y = y.Neg()
	}
	return Point{X: x, Y: y}, nil
}

// SharedSecret returns the 32-byte X coordinate of k·C where C is a
// compressed point.
func SharedSecret(k, compressed []byte) ([]byte, error) {
	c, err := Decompress(compressed)
	if err != nil {
		return nil, err
	}
	s := c.ScalarMult(k)
	if s.IsInfinity() {
		return nil, errors.InvalidPoint("ec: shared point is at infinity")
	}
	return s.X.Bytes(), nil
}

// canonical reports whether the big-endian value in b is below p.
func canonical(b []byte) bool {
	if len(b) != ByteSize {
		return false
	}
	for i, pb := range primeBytes {
		if b[i] != pb {
			return b[i] < pb
		}
	}
	return false
}
