// Package ec implements affine P-256 point arithmetic and SEC1 point
// compression on top of math/big.
//
// It exists for decoders that cannot rely on a platform ECDH able to
// consume compressed points. Operations are not constant time and must
// only be used with keys that stay inside a trusted back-end.
package ec

import (
	"math/big"
)

const (
	// ByteSize is the length of a field element or scalar.
	ByteSize = 32
	// CompressedSize is the length of a SEC1 compressed point.
	CompressedSize = 1 + ByteSize
	// UncompressedSize is the length of a SEC1 uncompressed point.
	UncompressedSize = 1 + 2*ByteSize

	tagEven         = 0x02
	tagOdd          = 0x03
	tagUncompressed = 0x04
)

// CurveParams holds the short Weierstrass parameters y² = x³ + ax + b.
type CurveParams struct {
	P, A, B, N *big.Int
	Gx, Gy     *big.Int
}

var (
	params  = newParams()
	sqrtExp = new(big.Int).Rsh(new(big.Int).Add(params.P, big.NewInt(1)), 2)

	primeBytes = params.P.FillBytes(make([]byte, ByteSize))

	elemA = NewElement(params.A)
	elemB = NewElement(params.B)
	three = NewElement(big.NewInt(3))
)

func newParams() *CurveParams {
	hex := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 16)
		if !ok {
			panic("ec: bad curve constant " + s)
		}
		return v
	}
	p := hex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")
	return &CurveParams{
		P:  p,
		A:  new(big.Int).Sub(p, big.NewInt(3)),
		B:  hex("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"),
		N:  hex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"),
		Gx: hex("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"),
		Gy: hex("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"),
	}
}

// Params returns a copy of the P-256 parameters.
func Params() CurveParams {
	return CurveParams{
		P:  new(big.Int).Set(params.P),
		A:  new(big.Int).Set(params.A),
		B:  new(big.Int).Set(params.B),
		N:  new(big.Int).Set(params.N),
		Gx: new(big.Int).Set(params.Gx),
		Gy: new(big.Int).Set(params.Gy),
	}
}

// rhs evaluates x³ + ax + b.
func rhs(x Element) Element {
	return x.Square().Mul(x).Add(elemA.Mul(x)).Add(elemB)
}
