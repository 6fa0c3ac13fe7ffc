// Package keys contains Schnorr key pairs: a secret exponent x in [1, q-1] and the public
// value y = g^x mod p.
package keys

import (
	"io"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/cbor"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
)

type (
	// PublicKey is the public half y = g^x mod p of a key pair, along with its group.
	PublicKey struct {
		Params *group.Params `json:"params"`
		Y      *big.Int      `json:"y"`
	}

	// PrivateKey holds the secret exponent x. It must never leave the prover.
	PrivateKey struct {
		PublicKey
		X *big.Int `json:"x"`
	}
)

// GenerateKey draws x uniformly from [1, q-1] and computes y = g^x mod p.
func GenerateKey(rand io.Reader, params *group.Params) (*PrivateKey, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	x, err := common.RandomNonZero(rand, params.Q)
	if err != nil {
		return nil, err
	}
	return newPrivateKey(params, x), nil
}

// NewPrivateKey returns the key pair with the given secret exponent, which must be in [1, q-1].
func NewPrivateKey(params *group.Params, x *big.Int) (*PrivateKey, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if x == nil || x.Sign() <= 0 || x.Cmp(params.Q) >= 0 {
		return nil, group.Invalid("secret exponent out of range [1, q-1]")
	}
	return newPrivateKey(params, new(big.Int).Set(x)), nil
}

func newPrivateKey(params *group.Params, x *big.Int) *PrivateKey {
	return &PrivateKey{
		PublicKey: PublicKey{Params: params, Y: params.Exp(new(big.Int), x)},
		X:         x,
	}
}

// Public returns the public half of the key pair.
func (privk *PrivateKey) Public() *PublicKey {
	return &privk.PublicKey
}

// Validate checks that the group parameters are valid and that y is an element of the
// subgroup other than 1.
func (pubk *PublicKey) Validate() error {
	if pubk == nil {
		return group.Invalid("missing public key")
	}
	if err := pubk.Params.Validate(); err != nil {
		return err
	}
	if !pubk.Params.IsElement(pubk.Y) || pubk.Y.Cmp(big.NewInt(1)) == 0 {
		return group.Invalid("y is not a generator of the subgroup")
	}
	return nil
}

// Validate additionally checks that y = g^x.
func (privk *PrivateKey) Validate() error {
	if err := privk.PublicKey.Validate(); err != nil {
		return err
	}
	if privk.X == nil || privk.X.Sign() <= 0 || privk.X.Cmp(privk.Params.Q) >= 0 {
		return group.Invalid("secret exponent out of range [1, q-1]")
	}
	if privk.Params.Exp(new(big.Int), privk.X).Cmp(privk.Y) != 0 {
		return group.Invalid("y != g^x")
	}
	return nil
}

// Equal reports whether both keys have the same group and public value.
func (pubk *PublicKey) Equal(other *PublicKey) bool {
	if pubk == nil || other == nil {
		return pubk == other
	}
	return pubk.Params.Equal(other.Params) && pubk.Y.Cmp(other.Y) == 0
}

// Version of the binary public key encoding.
const Version = 1

type publicKeyWire struct {
	_       struct{} `cbor:",toarray"`
	Version uint
	P       *big.Int
	Q       *big.Int
	G       *big.Int
	Y       *big.Int
}

// MarshalBinary encodes the public key as a CBOR array [version, p, q, g, y].
func (pubk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(publicKeyWire{
		Version: Version,
		P:       pubk.Params.P,
		Q:       pubk.Params.Q,
		G:       pubk.Params.G,
		Y:       pubk.Y,
	})
}

// UnmarshalBinary decodes and validates a public key encoded by MarshalBinary.
func (pubk *PublicKey) UnmarshalBinary(data []byte) error {
	var w publicKeyWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Version != Version {
		return cbor.Malformed("public key", "unsupported version %d", w.Version)
	}
	if w.P == nil || w.Q == nil || w.G == nil || w.Y == nil {
		return cbor.Malformed("public key", "missing field")
	}
	params, err := group.New(w.P, w.Q, w.G)
	if err != nil {
		return err
	}
	key := PublicKey{Params: params, Y: w.Y}
	if err = key.Validate(); err != nil {
		return err
	}
	*pubk = key
	return nil
}
