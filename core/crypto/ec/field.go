package ec

import "math/big"

// Element is an integer modulo the P-256 field prime. Values are
// immutable: every operation returns a fresh Element.
type Element struct {
	v *big.Int
}

// NewElement reduces v modulo p.
func NewElement(v *big.Int) Element {
	r := new(big.Int).Mod(v, params.P)
	return Element{v: r}
}

// ElementFromBytes interprets b as a big-endian integer and reduces it.
func ElementFromBytes(b []byte) Element {
	return NewElement(new(big.Int).SetBytes(b))
}

func (e Element) int() *big.Int {
	if e.v == nil {
		return new(big.Int)
	}
	return e.v
}

// BigInt returns a copy of the canonical value.
func (e Element) BigInt() *big.Int {
	return new(big.Int).Set(e.int())
}

// Bytes returns the 32-byte big-endian encoding.
func (e Element) Bytes() []byte {
	out := make([]byte, ByteSize)
	e.int().FillBytes(out)
	return out
}

func (e Element) IsZero() bool { return e.int().Sign() == 0 }

// IsOdd reports the parity of the canonical value.
func (e Element) IsOdd() bool { return e.int().Bit(0) == 1 }

func (e Element) Equal(o Element) bool { return e.int().Cmp(o.int()) == 0 }

func (e Element) Add(o Element) Element {
	return NewElement(new(big.Int).Add(e.int(), o.int()))
}

func (e Element) Sub(o Element) Element {
	return NewElement(new(big.Int).Sub(e.int(), o.int()))
}

func (e Element) Mul(o Element) Element {
	return NewElement(new(big.Int).Mul(e.int(), o.int()))
}

func (e Element) Square() Element { return e.Mul(e) }

// Neg returns p - e, or zero for zero.
func (e Element) Neg() Element {
	return NewElement(new(big.Int).Neg(e.int()))
}

// Invert returns the multiplicative inverse using the extended Euclidean
// algorithm. The inverse of zero is zero.
func (e Element) Invert() Element {
	if e.IsZero() {
		return Element{v: new(big.Int)}
	}
	// Invariant: oldS*e ≡ oldR (mod p) and s*e ≡ r (mod p).
	oldR, r := new(big.Int).Set(params.P), e.BigInt()
	oldS, s := new(big.Int), big.NewInt(1)
	q, tmp := new(big.Int), new(big.Int)
	for r.Sign() != 0 {
		q.Div(oldR, r)

		tmp.Mul(q, r)
		oldR.Sub(oldR, tmp)
		oldR, r = r, oldR

		tmp.Mul(q, s)
		oldS.Sub(oldS, tmp)
		oldS, s = s, oldS
	}
	// oldR is gcd(p, e) = 1 here and oldS holds the coefficient of e.
	return NewElement(oldS)
}

// Exp raises e to k by left-to-right square-and-multiply.
func (e Element) Exp(k *big.Int) Element {
	r := Element{v: big.NewInt(1)}
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = r.Square()
		if k.Bit(i) == 1 {
			r = r.Mul(e)
		}
	}
	return r
}

// Sqrt returns a square root of e as e^((p+1)/4). ok is false when e is
// not a quadratic residue, in which case the returned value must not be used.
func (e Element) Sqrt() (root Element, ok bool) {
	root = e.Exp(sqrtExp)
	return root, root.Square().Equal(e)
}
