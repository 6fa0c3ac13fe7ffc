// Package fiatshamir makes the Schnorr protocol non-interactive: the verifier's challenge is
// replaced by a hash of the public parameters, the public value, the commitment and any
// additional bound data, so that a proof is a single message that anyone can verify.
package fiatshamir

import (
	"bytes"
	"io"

	"github.com/multiformats/go-multihash"

	"github.com/privacybydesign/sigma"
	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/keys"
)

const (
	// Version of the proof format and challenge derivation.
	Version = 1

	challengeTag = "sigma/fiat-shamir/v1"
	nonceTag     = "sigma/fiat-shamir/nonce/v1"
)

// Proof is a non-interactive proof of knowledge of the discrete logarithm of PublicKey.
// It is immutable and can be verified any number of times.
type Proof struct {
	Version    uint     `json:"version"`
	Hash       uint64   `json:"hash"`
	Commitment *big.Int `json:"t"`
	Challenge  *big.Int `json:"c"`
	Response   *big.Int `json:"s"`
	PublicKey  *big.Int `json:"y"`

	// Content is the optional multihash digest bound into the challenge.
	Content multihash.Multihash `json:"content,omitempty"`
}

// Binding is the public data that a proof is bound to, in addition to the group parameters,
// the public value and the commitment, which are always bound.
type Binding struct {
	// Content is an optional content digest. On verification, when set, it must equal the
	// digest in the proof.
	Content multihash.Multihash
	// PublicKey is ignored when proving. On verification, when set, it is the public value
	// the proof must be for.
	PublicKey *big.Int
}

// Config selects the hash function used to derive challenges.
type Config struct {
	Hash uint64
}

// DefaultConfig derives challenges with SHA2-256.
var DefaultConfig = Config{Hash: common.DefaultHash}

// Challenge computes the challenge H(tag, p, q, g, y, t, content) mod q. All fields are
// length-prefixed before hashing.
func Challenge(code uint64, params *group.Params, y, t *big.Int, content []byte) (*big.Int, error) {
	return common.HashToScalar(code, params.Q, []interface{}{
		[]byte(challengeTag), params.P, params.Q, params.G, y, t, content,
	})
}

// Prove creates a proof with a fresh random nonce.
func (cfg Config) Prove(rand io.Reader, key *keys.PrivateKey, binding Binding) (*Proof, error) {
	if err := key.Params.Validate(); err != nil {
		return nil, err
	}
	r, err := common.RandomModulo(rand, key.Params.Q)
	if err != nil {
		return nil, err
	}
	return cfg.ProveWithNonce(key, r, binding)
}

// ProveWithNonce creates the proof for the given nonce r, which is fully determined by the
// key, r and the binding. Never use the same r for two different bindings.
func (cfg Config) ProveWithNonce(key *keys.PrivateKey, r *big.Int, binding Binding) (*Proof, error) {
	if err := key.Params.Validate(); err != nil {
		return nil, err
	}
	if !key.Params.IsScalar(r) {
		return nil, group.Invalid("nonce out of range [0, q-1]")
	}
	t := sigma.CommitWithNonce(key.Params, r)
	c, err := Challenge(cfg.Hash, key.Params, key.Y, t, binding.Content)
	if err != nil {
		return nil, err
	}
	return &Proof{
		Version:    Version,
		Hash:       cfg.Hash,
		Commitment: t,
		Challenge:  c,
		Response:   sigma.Respond(key.X, r, c, key.Params.Q),
		PublicKey:  new(big.Int).Set(key.Y),
		Content:    binding.Content,
	}, nil
}

// ProveDeterministic creates a proof whose nonce is derived from the secret and the binding
// through a seeded CPRNG. Equal inputs give equal proofs, different bindings give
// independent nonces, and no entropy source is needed.
func (cfg Config) ProveDeterministic(key *keys.PrivateKey, binding Binding) (*Proof, error) {
	if err := key.Params.Validate(); err != nil {
		return nil, err
	}
	seed, err := cfg.nonceSeed(key, binding)
	if err != nil {
		return nil, err
	}
	rng, err := common.NewCPRNG(&seed)
	if err != nil {
		return nil, err
	}
	r, err := common.RandomModulo(rng, key.Params.Q)
	if err != nil {
		return nil, err
	}
	return cfg.ProveWithNonce(key, r, binding)
}

// nonceSeed hashes the group, the key pair and the binding into the CPRNG seed of
// ProveDeterministic.
func (cfg Config) nonceSeed(key *keys.PrivateKey, binding Binding) (seed [32]byte, err error) {
	params := key.Params
	seedInt, err := common.HashCommit(cfg.Hash, []interface{}{
		[]byte(nonceTag), params.P, params.Q, params.G, key.X, key.Y, []byte(binding.Content),
	})
	if err != nil {
		return seed, err
	}
	seedInt.FillBytes(seed[:])
	return seed, nil
}

// Prove creates a proof using DefaultConfig.
func Prove(rand io.Reader, key *keys.PrivateKey, binding Binding) (*Proof, error) {
	return DefaultConfig.Prove(rand, key, binding)
}

// ProveWithNonce creates a proof for a given nonce using DefaultConfig.
func ProveWithNonce(key *keys.PrivateKey, r *big.Int, binding Binding) (*Proof, error) {
	return DefaultConfig.ProveWithNonce(key, r, binding)
}

// ProveDeterministic creates a deterministic proof using DefaultConfig.
func ProveDeterministic(key *keys.PrivateKey, binding Binding) (*Proof, error) {
	return DefaultConfig.ProveDeterministic(key, binding)
}

// Verify recomputes the challenge and checks the Schnorr verification equation. It returns
// false when the proof does not match the binding, or is malformed in any way.
func Verify(proof *Proof, params *group.Params, binding Binding) bool {
	if proof == nil || proof.Version != Version {
		return false
	}
	if err := params.Validate(); err != nil {
		sigma.Logger.Debugf("refusing to verify under invalid parameters: %v", err)
		return false
	}
	if binding.PublicKey != nil && (proof.PublicKey == nil || binding.PublicKey.Cmp(proof.PublicKey) != 0) {
		return false
	}
	if binding.Content != nil && !bytes.Equal(binding.Content, proof.Content) {
		return false
	}
	if proof.PublicKey == nil || proof.Commitment == nil || proof.Challenge == nil {
		return false
	}
	c, err := Challenge(proof.Hash, params, proof.PublicKey, proof.Commitment, proof.Content)
	if err != nil {
		sigma.Logger.Debugf("cannot recompute challenge: %v", err)
		return false
	}
	if c.Cmp(proof.Challenge) != 0 {
		return false
	}
	return sigma.Verify(params, proof.PublicKey, proof.Commitment, proof.Challenge, proof.Response)
}
