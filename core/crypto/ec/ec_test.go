package ec

import (
	"crypto/ecdh"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
)

func TestGeneratorOnCurve(t *testing.T) {
	g := Generator()
	assert.True(t, g.IsOnCurve())
	assert.False(t, Infinity.IsOnCurve())
	assert.True(t, g.ScalarMult(params.N.Bytes()).IsInfinity())
}

func TestInvert(t *testing.T) {
	for _, v := range []int64{1, 2, 3, 12345, 1 << 40} {
		e := NewElement(big.NewInt(v))
		assert.True(t, e.Mul(e.Invert()).Equal(NewElement(big.NewInt(1))), "v=%d", v)
	}
	m1 := NewElement(big.NewInt(-1))
	assert.True(t, m1.Invert().Equal(m1))
	assert.True(t, Element{}.Invert().IsZero())
}

func TestSqrt(t *testing.T) {
	x := NewElement(big.NewInt(987654321))
	root, ok := x.Square().Sqrt()
	require.True(t, ok)
	assert.True(t, root.Equal(x) || root.Equal(x.Neg()))

	// p ≡ 3 (mod 4), so -1 is a non-residue.
	_, ok = NewElement(big.NewInt(-1)).Sqrt()
	assert.False(t, ok)
}

func TestGroupLaw(t *testing.T) {
	g := Generator()
	g2 := g.Double()
	assert.True(t, g2.IsOnCurve())
	assert.True(t, g.Add(g).Equal(g2))
	assert.True(t, g2.Add(g).Equal(g.Add(g2)))
	assert.True(t, g.Add(g.Neg()).IsInfinity())
	assert.True(t, Infinity.Add(g).Equal(g))
	assert.True(t, g.Add(Infinity).Equal(g))
	assert.True(t, Infinity.Double().IsInfinity())
	assert.True(t, g.ScalarMult([]byte{3}).Equal(g2.Add(g)))
	assert.True(t, g.ScalarMult([]byte{0, 0}).IsInfinity())
}

func TestScalarBaseMultMatchesPlatform(t *testing.T) {
	for i := 0; i < 4; i++ {
		priv, err := ecdh.P256().GenerateKey(rand.Reader)
		require.NoError(t, err)

		got := ScalarBaseMult(priv.Bytes())
		assert.Equal(t, priv.PublicKey().Bytes(), got.Uncompressed())
	}
}

func TestCompressDecompress(t *testing.T) {
	for i := 0; i < 8; i++ {
		priv, err := ecdh.P256().GenerateKey(rand.Reader)
		require.NoError(t, err)
		raw := priv.PublicKey().Bytes()

		c, err := Compress(raw)
		require.NoError(t, err)
		require.Len(t, c, CompressedSize)
		assert.Equal(t, raw[1:33], c[1:])
		assert.Equal(t, byte(0x02+raw[64]&1), c[0])

		p, err := Decompress(c)
		require.NoError(t, err)
		assert.Equal(t, raw, p.Uncompressed())
		assert.Equal(t, c, p.Compressed())

		q, err := ParseUncompressed(raw)
		require.NoError(t, err)
		assert.True(t, p.Equal(q))
	}
}

func TestDecompressRejects(t *testing.T) {
	valid := Generator().Compressed()

	badTag := append([]byte{0x04}, valid[1:]...)
	_, err := Decompress(badTag)
	assert.True(t, errors.IsInvalidPoint(err))

	_, err = Decompress(valid[:32])
	assert.True(t, errors.IsInvalidPoint(err))

	tooBig := append([]byte{0x02}, primeBytes...)
	_, err = Decompress(tooBig)
	assert.True(t, errors.IsInvalidPoint(err))

	// Roughly half of all x values have no point; walk small x until one
	// is rejected and check accepted ones are real points.
	rejected := 0
	for x := int64(1); x <= 32; x++ {
		c := append([]byte{0x02}, NewElement(big.NewInt(x)).Bytes()...)
		p, err := Decompress(c)
		if err != nil {
			assert.True(t, errors.IsInvalidPoint(err))
			rejected++
			continue
		}
		assert.True(t, p.IsOnCurve())
	}
	assert.Positive(t, rejected)
}

func TestParseUncompressedRejects(t *testing.T) {
	raw := Generator().Uncompressed()
	raw[64] ^= 1
	_, err := ParseUncompressed(raw)
	assert.True(t, errors.IsInvalidPoint(err))

	_, err = Compress(raw[:64])
	assert.True(t, errors.IsInvalidPoint(err))
}

func TestSharedSecretMatchesECDH(t *testing.T) {
	a, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	b, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	want, err := a.ECDH(b.PublicKey())
	require.NoError(t, err)

	c, err := Compress(b.PublicKey().Bytes())
	require.NoError(t, err)
	got, err := SharedSecret(a.Bytes(), c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, ByteSize)
}

func BenchmarkScalarMult(b *testing.B) {
	k := make([]byte, ByteSize)
	_, _ = rand.Read(k)
	g := Generator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.ScalarMult(k)
	}
}
