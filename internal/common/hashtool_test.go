package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/sigma/big"
)

func TestHashCommit(t *testing.T) {
	hashA, err := HashCommit(HashSHA2_256, []interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	require.NoError(t, err)
	hashB, err := HashCommit(HashSHA2_256, []interface{}{big.NewInt(1), []byte{}, big.NewInt(3)})
	require.NoError(t, err)
	hashC, err := HashCommit(HashSHA2_256, []interface{}{big.NewInt(1), big.NewInt(2)})
	require.NoError(t, err)

	require.NotZero(t, hashA.Cmp(hashB), "Hashes for A and B coincide")
	require.NotZero(t, hashA.Cmp(hashC), "Hashes for A and C coincide")
	require.NotZero(t, hashB.Cmp(hashC), "Hashes for B and C coincide")

	again, err := HashCommit(HashSHA2_256, []interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	require.NoError(t, err)
	require.Zero(t, hashA.Cmp(again))

	sha3A, err := HashCommit(HashSHA3_256, []interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	require.NoError(t, err)
	require.NotZero(t, hashA.Cmp(sha3A))
}

func TestHashCommitLengthPrefixed(t *testing.T) {
	// ("ab", "c") and ("a", "bc") concatenate to the same bytes
	h1, err := HashCommit(HashSHA2_256, []interface{}{[]byte("ab"), []byte("c")})
	require.NoError(t, err)
	h2, err := HashCommit(HashSHA2_256, []interface{}{[]byte("a"), []byte("bc")})
	require.NoError(t, err)
	require.NotZero(t, h1.Cmp(h2))
}

func TestHashCommitErrors(t *testing.T) {
	var nilInt *big.Int
	_, err := HashCommit(HashSHA2_256, []interface{}{nilInt})
	require.Error(t, err)
	_, err = HashCommit(HashSHA2_256, []interface{}{"string"})
	require.Error(t, err)
	_, err = HashCommit(0x13, []interface{}{big.NewInt(1)})
	require.Error(t, err)
}

func TestHashToScalar(t *testing.T) {
	q := big.NewInt(11)
	seen := map[int64]bool{}
	for i := int64(0); i < 200; i++ {
		c, err := HashToScalar(HashSHA2_256, q, []interface{}{big.NewInt(i)})
		require.NoError(t, err)
		require.True(t, c.Sign() >= 0 && c.Cmp(q) < 0)
		seen[c.Int64()] = true
	}
	// 200 samples should hit every residue mod 11
	require.Len(t, seen, 11)

	large := new(big.Int).Lsh(big.NewInt(1), 512)
	large.Sub(large, big.NewInt(1))
	c1, err := HashToScalar(HashSHA3_256, large, []interface{}{[]byte("x")})
	require.NoError(t, err)
	c2, err := HashToScalar(HashSHA3_256, large, []interface{}{[]byte("x")})
	require.NoError(t, err)
	require.Zero(t, c1.Cmp(c2))
	require.Greater(t, c1.BitLen(), 256)

	_, err = HashToScalar(HashSHA2_256, big.NewInt(0), nil)
	require.Error(t, err)
}

func TestParseHash(t *testing.T) {
	code, err := ParseHash("sha3-256")
	require.NoError(t, err)
	require.Equal(t, HashSHA3_256, code)
	require.Equal(t, "sha2-256", HashName(HashSHA2_256))

	_, err = ParseHash("md5")
	require.Error(t, err)
	_, err = ParseHash("nonsense")
	require.Error(t, err)
}
