package common

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/sigma/big"
)

func TestModInverse(t *testing.T) {
	inv, ok := ModInverse(big.NewInt(3), big.NewInt(11))
	require.True(t, ok)
	assert.Equal(t, int64(4), inv.Int64())

	inv, ok = ModInverse(big.NewInt(-1), big.NewInt(11))
	require.True(t, ok)
	assert.Equal(t, int64(10), inv.Int64())

	_, ok = ModInverse(big.NewInt(4), big.NewInt(8))
	assert.False(t, ok)
}

func TestRandomNonZero(t *testing.T) {
	n := big.NewInt(3)
	for i := 0; i < 100; i++ {
		r, err := RandomNonZero(rand.Reader, n)
		require.NoError(t, err)
		require.True(t, r.Cmp(bigONE) >= 0 && r.Cmp(n) < 0)
	}
	_, err := RandomNonZero(rand.Reader, big.NewInt(1))
	require.Error(t, err)
	_, err = RandomModulo(rand.Reader, big.NewInt(0))
	require.Error(t, err)
}

func TestRandomBigInt(t *testing.T) {
	r, err := RandomBigInt(rand.Reader, 16)
	require.NoError(t, err)
	require.LessOrEqual(t, r.BitLen(), 16)
}

func TestPrimeFactors(t *testing.T) {
	assert.Equal(t, []int64{2, 11}, PrimeFactors(88))
	assert.Equal(t, []int64{2, 3}, PrimeFactors(72))
	assert.Equal(t, []int64{97}, PrimeFactors(97))
}
