// Package fileproof proves possession of a secret key together with a piece of content: the
// content digest is bound into a Fiat-Shamir proof and carried inside it, so that a verifier
// holding the content can detect both tampering with the content and forged proofs.
package fileproof

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"

	"github.com/privacybydesign/sigma"
	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/fiatshamir"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/keys"
)

// Outcome of verifying a possession proof.
type Outcome int

const (
	// Rejected means that the proof is not valid for the content's digest.
	Rejected Outcome = iota
	// Accepted means that the content matches and the proof is valid.
	Accepted
	// ContentMismatch means that the content does not match the digest in the proof, which
	// was detected before checking the proof itself.
	ContentMismatch
)

// Valid collapses the outcome to a single yes or no for end users.
func (o Outcome) Valid() bool {
	return o == Accepted
}

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case ContentMismatch:
		return "content mismatch"
	default:
		return "rejected"
	}
}

// Digest is a self-describing content hash.
type Digest multihash.Multihash

// ContentDigest hashes the content read from r with the hash function with the given
// multihash code.
func ContentDigest(r io.Reader, code uint64) (Digest, error) {
	if _, err := common.NewHash(code); err != nil {
		return nil, err
	}
	h, err := multihash.SumStream(r, code, -1)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to hash content", 0)
	}
	return Digest(h), nil
}

// Int returns the digest as a number modulo q.
func (d Digest) Int(q *big.Int) (*big.Int, error) {
	decoded, err := multihash.Decode(d)
	if err != nil {
		return nil, err
	}
	i := new(big.Int).SetBytes(decoded.Digest)
	return i.Mod(i, q), nil
}

// Code returns the multihash code of the hash function.
func (d Digest) Code() (uint64, error) {
	decoded, err := multihash.Decode(d)
	if err != nil {
		return 0, err
	}
	return decoded.Code, nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Service creates possession proofs.
type Service struct {
	// Config selects the hash function for challenges.
	Config fiatshamir.Config
	// Digest is the multihash code of the content hash function.
	Digest uint64
}

// Default hashes content and challenges with SHA2-256.
var Default = Service{Config: fiatshamir.DefaultConfig, Digest: common.DefaultHash}

// ProvePossession proves knowledge of the key's secret, bound to the digest of content.
func (svc Service) ProvePossession(rand io.Reader, content []byte, key *keys.PrivateKey) (*fiatshamir.Proof, error) {
	return svc.ProvePossessionReader(rand, bytes.NewReader(content), key)
}

// ProvePossessionReader is like ProvePossession, hashing the content as it is read from r.
func (svc Service) ProvePossessionReader(rand io.Reader, r io.Reader, key *keys.PrivateKey) (*fiatshamir.Proof, error) {
	digest, err := ContentDigest(r, svc.Digest)
	if err != nil {
		return nil, err
	}
	sigma.Logger.Debugf("proving possession of content %s", digest)
	return svc.Config.Prove(rand, key, fiatshamir.Binding{Content: multihash.Multihash(digest)})
}

// ProvePossession proves possession using the Default service.
func ProvePossession(rand io.Reader, content []byte, key *keys.PrivateKey) (*fiatshamir.Proof, error) {
	return Default.ProvePossession(rand, content, key)
}

// ProvePossessionReader proves possession of streamed content using the Default service.
func ProvePossessionReader(rand io.Reader, r io.Reader, key *keys.PrivateKey) (*fiatshamir.Proof, error) {
	return Default.ProvePossessionReader(rand, r, key)
}

// VerifyPossession recomputes the digest of content with the hash function named in the
// proof. If it differs from the digest in the proof, ContentMismatch is returned without
// checking the proof; otherwise the proof is verified.
func VerifyPossession(proof *fiatshamir.Proof, content []byte, params *group.Params) Outcome {
	outcome, err := VerifyPossessionReader(proof, bytes.NewReader(content), params, nil)
	if err != nil {
		// a bytes.Reader never fails
		return Rejected
	}
	return outcome
}

// VerifyPossessionReader is like VerifyPossession, hashing the content as it is read from r.
// If y is not nil, the proof must be for that public value. An error is only returned when
// reading the content fails.
func VerifyPossessionReader(proof *fiatshamir.Proof, r io.Reader, params *group.Params, y *big.Int) (Outcome, error) {
	if proof == nil || len(proof.Content) == 0 {
		return Rejected, nil
	}
	code, err := Digest(proof.Content).Code()
	if err != nil {
		return Rejected, nil
	}
	if _, err = common.NewHash(code); err != nil {
		return Rejected, nil
	}
	digest, err := ContentDigest(r, code)
	if err != nil {
		return Rejected, err
	}
	if !bytes.Equal(digest, proof.Content) {
		sigma.Logger.Debugf("content digest %s does not match proof", digest)
		return ContentMismatch, nil
	}
	if !fiatshamir.Verify(proof, params, fiatshamir.Binding{Content: multihash.Multihash(digest), PublicKey: y}) {
		return Rejected, nil
	}
	return Accepted, nil
}

// VerifyPossessionOf is like VerifyPossession, additionally requiring that the proof was made
// with the given public key.
func VerifyPossessionOf(proof *fiatshamir.Proof, content []byte, pubk *keys.PublicKey) Outcome {
	if pubk == nil {
		return Rejected
	}
	outcome, err := VerifyPossessionReader(proof, bytes.NewReader(content), pubk.Params, pubk.Y)
	if err != nil {
		return Rejected
	}
	return outcome
}
