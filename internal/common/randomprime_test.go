package common

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomPrimeInRange(t *testing.T) {
	p, err := RandomPrimeInRange(rand.Reader, 597, 120)
	require.NoError(t, err)
	require.True(t, p.ProbablyPrime(22), "p not prime!")
	require.GreaterOrEqual(t, p.BitLen(), 598)

	_, err = RandomPrimeInRange(rand.Reader, 1, 8)
	require.Error(t, err)
}

func TestRandomPrime(t *testing.T) {
	for _, bits := range []uint{3, 8, 160, 256} {
		p, err := RandomPrime(rand.Reader, bits)
		require.NoError(t, err)
		require.Equal(t, int(bits), p.BitLen())
		require.True(t, p.ProbablyPrime(22))
	}
}
