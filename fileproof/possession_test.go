package fileproof

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/sigma"
	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/fiatshamir"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/keys"
)

var testParams *group.Params

func init() {
	sigma.Logger.SetLevel(logrus.FatalLevel)

	var err error
	testParams, err = group.GenerateSafe(context.Background(), rand.Reader, 256)
	if err != nil {
		panic(err)
	}
}

func testKey(t *testing.T) *keys.PrivateKey {
	key, err := keys.GenerateKey(rand.Reader, testParams)
	require.NoError(t, err)
	return key
}

func TestPossession(t *testing.T) {
	key := testKey(t)
	content := []byte("The quick brown fox jumps over the lazy dog")

	proof, err := ProvePossession(rand.Reader, content, key)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Content)

	outcome := VerifyPossession(proof, content, testParams)
	assert.Equal(t, Accepted, outcome)
	assert.True(t, outcome.Valid())
	assert.Equal(t, Accepted, VerifyPossessionOf(proof, content, key.Public()))
}

func TestTamperDetection(t *testing.T) {
	key := testKey(t)
	content := []byte("The quick brown fox jumps over the lazy dog")
	proof, err := ProvePossession(rand.Reader, content, key)
	require.NoError(t, err)

	// flip a single bit
	tampered := bytes.Clone(content)
	tampered[0] ^= 1
	outcome := VerifyPossession(proof, tampered, testParams)
	assert.Equal(t, ContentMismatch, outcome)
	assert.False(t, outcome.Valid())
	assert.Equal(t, "content mismatch", outcome.String())
}

func TestForgedProof(t *testing.T) {
	key := testKey(t)
	content := []byte("content")
	proof, err := ProvePossession(rand.Reader, content, key)
	require.NoError(t, err)

	forged := *proof
	forged.Response = new(big.Int).Sub(proof.Response, big.NewInt(1))
	forged.Response.Mod(forged.Response, testParams.Q)
	assert.Equal(t, Rejected, VerifyPossession(&forged, content, testParams))

	// a proof for other content, relabeled with this content's digest
	other, err := ProvePossession(rand.Reader, []byte("other content"), key)
	require.NoError(t, err)
	other.Content = proof.Content
	assert.Equal(t, Rejected, VerifyPossession(other, content, testParams))

	// proof by another key
	assert.Equal(t, Rejected, VerifyPossessionOf(proof, content, testKey(t).Public()))
	assert.Equal(t, Rejected, VerifyPossessionOf(proof, content, nil))

	// no content bound
	plain, err := fiatshamir.Prove(rand.Reader, key, fiatshamir.Binding{})
	require.NoError(t, err)
	assert.Equal(t, Rejected, VerifyPossession(plain, content, testParams))
	assert.Equal(t, Rejected, VerifyPossession(nil, content, testParams))
}

func TestSHA3Service(t *testing.T) {
	key := testKey(t)
	svc := Service{
		Config: fiatshamir.Config{Hash: common.HashSHA3_256},
		Digest: common.HashSHA3_256,
	}
	content := []byte("content")
	proof, err := svc.ProvePossession(rand.Reader, content, key)
	require.NoError(t, err)
	code, err := Digest(proof.Content).Code()
	require.NoError(t, err)
	assert.Equal(t, common.HashSHA3_256, code)
	assert.Equal(t, Accepted, VerifyPossession(proof, content, testParams))
	assert.Equal(t, ContentMismatch, VerifyPossession(proof, []byte("Content"), testParams))

	_, err = Service{Config: fiatshamir.DefaultConfig, Digest: 0xd5}.ProvePossession(rand.Reader, content, key)
	require.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestReader(t *testing.T) {
	key := testKey(t)
	content := bytes.Repeat([]byte("0123456789"), 100000)
	proof, err := ProvePossessionReader(rand.Reader, bytes.NewReader(content), key)
	require.NoError(t, err)

	outcome, err := VerifyPossessionReader(proof, bytes.NewReader(content), testParams, key.Y)
	require.NoError(t, err)
	assert.Equal(t, Accepted, outcome)
	assert.Equal(t, Accepted, VerifyPossession(proof, content, testParams))

	_, err = VerifyPossessionReader(proof, failingReader{}, testParams, nil)
	require.Error(t, err)
	_, err = ProvePossessionReader(rand.Reader, failingReader{}, key)
	require.Error(t, err)
}

func TestDigestInt(t *testing.T) {
	digest, err := ContentDigest(bytes.NewReader([]byte("abc")), common.HashSHA2_256)
	require.NoError(t, err)
	// sha256("abc") = ba7816bf...
	assert.Equal(t, "1220ba7816bf", digest.String()[:12])

	h, err := digest.Int(big.NewInt(11))
	require.NoError(t, err)
	assert.True(t, h.Sign() >= 0 && h.Cmp(big.NewInt(11)) < 0)
	sum := sha256.Sum256([]byte("abc"))
	expected := new(big.Int).SetBytes(sum[:])
	assert.Zero(t, expected.Mod(expected, big.NewInt(11)).Cmp(h))

	_, err = Digest([]byte{0x12}).Int(big.NewInt(11))
	require.Error(t, err)
}
