package group

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/cbor"
	"github.com/privacybydesign/sigma/internal/common"
)

func init() {
	Logger.SetLevel(logrus.FatalLevel)
}

func TestToy(t *testing.T) {
	gp := Toy()
	require.NoError(t, gp.Validate())
	assert.False(t, gp.Secure())
	assert.Contains(t, gp.String(), "INSECURE")
	assert.True(t, Validate(big.NewInt(89), big.NewInt(11), big.NewInt(2)))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		p, q, g int64
	}{
		{"composite p", 91, 11, 2},
		{"composite q", 89, 8, 2},
		{"q does not divide p-1", 89, 7, 2},
		{"g too small", 89, 11, 1},
		{"g too large", 89, 11, 89},
		{"g of wrong order", 89, 11, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.False(t, Validate(big.NewInt(c.p), big.NewInt(c.q), big.NewInt(c.g)))
			_, err := New(big.NewInt(c.p), big.NewInt(c.q), big.NewInt(c.g))
			var invalid *InvalidParametersError
			require.ErrorAs(t, err, &invalid)
		})
	}
	require.False(t, Validate(nil, big.NewInt(11), big.NewInt(2)))
}

func TestSearch(t *testing.T) {
	gp, err := Search(89, 89)
	require.NoError(t, err)
	assert.True(t, gp.Equal(Toy()))

	// q = 2 is a prime divisor of p-1 like any other
	gp, err = Search(2, 100)
	require.NoError(t, err)
	require.NoError(t, gp.Validate())
	assert.Equal(t, int64(3), gp.P.Int64())
	assert.Equal(t, int64(2), gp.Q.Int64())
	assert.Equal(t, int64(2), gp.G.Int64())

	gp, err = Search(3, 3)
	require.NoError(t, err)
	assert.True(t, gp.Equal(&Params{P: big.NewInt(3), Q: big.NewInt(2), G: big.NewInt(2)}))

	// 5: 4 = 2^2, so no g satisfies g^2 = 1 and g^2 != 1
	gp, err = Search(4, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(7), gp.P.Int64())
	assert.Equal(t, int64(3), gp.Q.Int64())
	assert.Equal(t, int64(2), gp.G.Int64())

	// 97: 96 = 2^5 * 3, and 3^2 does not divide 96
	gp, err = Search(97, 97)
	require.NoError(t, err)
	assert.Equal(t, int64(3), gp.Q.Int64())

	_, err = Search(90, 96)
	var genErr *ParameterGenerationError
	require.ErrorAs(t, err, &genErr)
	_, err = Search(10, 5)
	require.ErrorAs(t, err, &genErr)
}

func TestGenerate(t *testing.T) {
	gp, err := Generate(context.Background(), rand.Reader, 512, 160)
	require.NoError(t, err)
	require.NoError(t, gp.Validate())
	assert.Equal(t, 512, gp.P.BitLen())
	assert.Equal(t, 160, gp.Q.BitLen())
	assert.False(t, gp.Secure())

	_, err = Generate(context.Background(), rand.Reader, 100, 100)
	var genErr *ParameterGenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, rand.Reader, 2048, 256)
	var genErr *ParameterGenerationError
	require.ErrorAs(t, err, &genErr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateSafe(t *testing.T) {
	gp, err := GenerateSafe(context.Background(), rand.Reader, 256)
	require.NoError(t, err)
	require.NoError(t, gp.Validate())
	assert.Equal(t, int64(4), gp.G.Int64())
	assert.Equal(t, 0, new(big.Int).Add(new(big.Int).Lsh(gp.Q, 1), big.NewInt(1)).Cmp(gp.P))
}

func TestGenerateSafeSeeded(t *testing.T) {
	var seed [32]byte
	seed[0] = 7
	generate := func() *Params {
		rng, err := common.NewCPRNG(&seed)
		require.NoError(t, err)
		gp, err := GenerateSafe(context.Background(), rng, 128)
		require.NoError(t, err)
		return gp
	}
	// a reader other than crypto/rand is consumed sequentially
	gp := generate()
	require.NoError(t, gp.Validate())
	assert.True(t, gp.Equal(generate()))
}

func TestGenerateSafeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateSafe(ctx, rand.Reader, 2048)
	var genErr *ParameterGenerationError
	require.ErrorAs(t, err, &genErr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExp(t *testing.T) {
	gp := Toy()
	assert.Equal(t, int64(67), gp.Exp(new(big.Int), big.NewInt(9)).Int64())
	assert.Equal(t, int64(1), gp.Exp(new(big.Int), big.NewInt(0)).Int64())
	assert.Equal(t, int64(1), gp.Exp(new(big.Int), big.NewInt(11)).Int64())
	// 2^-1 = 2^10 = 45 (mod 89)
	assert.Equal(t, int64(45), gp.Exp(new(big.Int), big.NewInt(-1)).Int64())
	assert.Equal(t, int64(32), gp.ExpMod(big.NewInt(67), big.NewInt(3)).Int64())
	assert.Equal(t, int64(39), gp.Mul(big.NewInt(67), big.NewInt(67)).Int64())
}

func TestExpTable(t *testing.T) {
	gp, err := GenerateSafe(context.Background(), rand.Reader, 320)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		e, err := big.RandInt(rand.Reader, gp.Q)
		require.NoError(t, err)
		expected := new(big.Int).Exp(gp.G, e, gp.P)
		require.Zero(t, expected.Cmp(gp.Exp(new(big.Int), e)))
	}
	require.NotNil(t, gp.table)
}

func TestIsElement(t *testing.T) {
	gp := Toy()
	assert.True(t, gp.IsElement(big.NewInt(1)))
	assert.True(t, gp.IsElement(big.NewInt(67)))
	assert.True(t, gp.IsElement(big.NewInt(78)))
	assert.False(t, gp.IsElement(big.NewInt(3)))
	assert.False(t, gp.IsElement(big.NewInt(0)))
	assert.False(t, gp.IsElement(big.NewInt(89)))
	assert.False(t, gp.IsElement(nil))

	assert.True(t, gp.IsScalar(big.NewInt(0)))
	assert.True(t, gp.IsScalar(big.NewInt(10)))
	assert.False(t, gp.IsScalar(big.NewInt(11)))
	assert.False(t, gp.IsScalar(big.NewInt(-1)))
}

func TestMarshalBinary(t *testing.T) {
	bts, err := Toy().MarshalBinary()
	require.NoError(t, err)
	// [1, h'59', h'0b', h'02']
	assert.Equal(t, []byte{0x84, 0x01, 0x41, 0x59, 0x41, 0x0b, 0x41, 0x02}, bts)

	var gp Params
	require.NoError(t, gp.UnmarshalBinary(bts))
	assert.True(t, gp.Equal(Toy()))

	var encErr *cbor.EncodingError
	require.ErrorAs(t, gp.UnmarshalBinary(bts[:5]), &encErr)
	require.ErrorAs(t, gp.UnmarshalBinary([]byte{0x84, 0x02, 0x41, 0x59, 0x41, 0x0b, 0x41, 0x02}), &encErr)
	require.ErrorAs(t, gp.UnmarshalBinary([]byte{0x84, 0x01, 0x41, 0x59, 0x41, 0x0b, 0xf6}), &encErr)

	// Well-formed, but g = 3 does not have order 11
	var invalid *InvalidParametersError
	require.ErrorAs(t, gp.UnmarshalBinary([]byte{0x84, 0x01, 0x41, 0x59, 0x41, 0x0b, 0x41, 0x03}), &invalid)
}

func TestJSON(t *testing.T) {
	bts, err := json.Marshal(Toy())
	require.NoError(t, err)
	var gp Params
	require.NoError(t, json.Unmarshal(bts, &gp))
	assert.True(t, gp.Equal(Toy()))

	var invalid *InvalidParametersError
	require.ErrorAs(t, json.Unmarshal([]byte(`{"p":89,"q":11,"g":3}`), &gp), &invalid)
}
