package common

import (
	"crypto/sha256"
	"encoding/asn1"
	"hash"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"

	"github.com/privacybydesign/sigma/big"

	gobig "math/big"
)

// Supported hash functions, identified by their multihash code.
const (
	HashSHA2_256 uint64 = multihash.SHA2_256
	HashSHA3_256 uint64 = multihash.SHA3_256

	DefaultHash = HashSHA2_256
)

// NewHash returns a fresh instance of the hash function with the given multihash code.
func NewHash(code uint64) (hash.Hash, error) {
	switch code {
	case HashSHA2_256:
		return sha256.New(), nil
	case HashSHA3_256:
		return sha3.New256(), nil
	default:
		return nil, errors.Errorf("unsupported hash function 0x%x", code)
	}
}

// HashName returns the multihash name (e.g. "sha2-256") of a supported hash function.
func HashName(code uint64) string {
	return multihash.Codes[code]
}

// ParseHash is the inverse of HashName.
func ParseHash(name string) (uint64, error) {
	code, ok := multihash.Names[name]
	if !ok {
		return 0, errors.Errorf("unknown hash function %q", name)
	}
	if _, err := NewHash(code); err != nil {
		return 0, err
	}
	return code, nil
}

// HashCommit computes the hash, using the hash function with the given multihash code,
// over the asn1 representation of a sequence consisting of the number of values followed by
// the values themselves. Each value must be a non-nil *big.Int or a []byte; byte slices are
// encoded as OCTET STRINGs, so every element is length-prefixed.
func HashCommit(code uint64, values []interface{}) (*big.Int, error) {
	h, err := NewHash(code)
	if err != nil {
		return nil, err
	}

	// The first element is the number of elements
	tmp := make([]interface{}, len(values)+1)
	tmp[0] = gobig.NewInt(int64(len(values)))
	for i, v := range values {
		switch v := v.(type) {
		case *big.Int:
			if v == nil {
				return nil, errors.Errorf("hash input %d is nil", i)
			}
			tmp[i+1] = v.Go()
		case []byte:
			if v == nil {
				v = []byte{}
			}
			tmp[i+1] = v
		default:
			return nil, errors.Errorf("hash input %d has unsupported type %T", i, v)
		}
	}
	r, err := asn1.Marshal(tmp)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to encode hash input", 0)
	}

	h.Write(r)
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

// HashToScalar hashes the values to a number in [0, q). The digest of HashCommit is expanded
// in counter mode to |q| + 128 bits before reduction, so the result is statistically close
// to uniform.
func HashToScalar(code uint64, q *big.Int, values []interface{}) (*big.Int, error) {
	if q == nil || q.Sign() <= 0 {
		return nil, errors.New("modulus must be positive")
	}
	h, err := NewHash(code)
	if err != nil {
		return nil, err
	}
	size := uint(h.Size() * 8)
	bitlen := uint(q.BitLen()) + 128

	tmp := make([]interface{}, len(values)+1)
	copy(tmp, values)
	countIdx := len(values)

	res := big.NewInt(0)
	for k, i := uint(0), int64(0); k < bitlen; k, i = k+size, i+1 {
		tmp[countIdx] = big.NewInt(i)
		cur, err := HashCommit(code, tmp)
		if err != nil {
			return nil, err
		}
		cur.Lsh(cur, k)
		res.Add(res, cur)
	}
	return res.Mod(res, q), nil
}
