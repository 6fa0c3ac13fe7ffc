// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sigma

import (
	"io"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/keys"
)

var bigONE = big.NewInt(1)

// Transcript is the public record (t, c, s) of one protocol run.
type Transcript struct {
	Commitment *big.Int `json:"t"`
	Challenge  *big.Int `json:"c"`
	Response   *big.Int `json:"s"`
}

// Verify reports whether the transcript is accepting for the given public key.
func (tr *Transcript) Verify(pubk *keys.PublicKey) bool {
	if tr == nil || pubk == nil {
		return false
	}
	return Verify(pubk.Params, pubk.Y, tr.Commitment, tr.Challenge, tr.Response)
}

// Commit draws a nonce r uniformly from [0, q) and returns it along with the commitment
// t = g^r mod p. The nonce must be used for exactly one response and then discarded;
// see Prover, which enforces this.
func Commit(rand io.Reader, params *group.Params) (r, t *big.Int, err error) {
	if err = params.Validate(); err != nil {
		return nil, nil, err
	}
	if r, err = common.RandomModulo(rand, params.Q); err != nil {
		return nil, nil, err
	}
	return r, CommitWithNonce(params, r), nil
}

// CommitWithNonce returns the commitment g^r mod p for a given nonce.
func CommitWithNonce(params *group.Params, r *big.Int) *big.Int {
	return params.Exp(new(big.Int), r)
}

// NewChallenge draws the verifier's challenge uniformly from [0, q).
func NewChallenge(rand io.Reader, params *group.Params) (*big.Int, error) {
	return common.RandomModulo(rand, params.Q)
}

// Respond computes the response s = r + c*x mod q.
func Respond(x, r, c, q *big.Int) *big.Int {
	s := new(big.Int).Mul(c, x)
	s.Add(s, r)
	return s.Mod(s, q)
}

// Verify reports whether g^s = t * y^c (mod p). It returns false, instead of failing, when the
// parameters are not a valid group, when any argument is missing, when c or s lie outside
// [0, q), or when t or y are not elements of the subgroup of order q. The identity is not
// accepted as public value.
func Verify(params *group.Params, y, t, c, s *big.Int) bool {
	if err := params.Validate(); err != nil {
		Logger.Debugf("refusing to verify under invalid parameters: %v", err)
		return false
	}
	if !params.IsScalar(c) || !params.IsScalar(s) {
		return false
	}
	if !params.IsElement(t) || !params.IsElement(y) || y.Cmp(bigONE) == 0 {
		return false
	}
	lhs := params.Exp(new(big.Int), s)
	rhs := params.Mul(t, new(big.Int).Exp(y, c, params.P))
	return lhs.Cmp(rhs) == 0
}

// Simulate produces an accepting transcript for challenge c without knowledge of the secret,
// by drawing s uniformly and solving for t = g^s * y^-c. Simulated transcripts are distributed
// identically to honest ones, which is why a transcript alone convinces no third party.
func Simulate(rand io.Reader, params *group.Params, y, c *big.Int) (*Transcript, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !params.IsElement(y) {
		return nil, group.Invalid("public value is not in the subgroup")
	}
	if !params.IsScalar(c) {
		return nil, group.Invalid("challenge out of range [0, q-1]")
	}
	s, err := common.RandomModulo(rand, params.Q)
	if err != nil {
		return nil, err
	}
	t := params.Mul(params.Exp(new(big.Int), s), params.ExpMod(y, new(big.Int).Neg(c)))
	return &Transcript{
		Commitment: t,
		Challenge:  new(big.Int).Set(c),
		Response:   s,
	}, nil
}

// ExtractSecret recovers x = (s1 - s2) / (c1 - c2) mod q from two accepting responses to
// distinct challenges for the same commitment. This is what makes nonce reuse fatal, and
// the reason a Prover refuses to respond twice.
func ExtractSecret(q, c1, s1, c2, s2 *big.Int) (*big.Int, error) {
	dc := new(big.Int).Sub(c1, c2)
	dc.Mod(dc, q)
	inv, ok := common.ModInverse(dc, q)
	if !ok || dc.Sign() == 0 {
		return nil, common.ErrNoModInverse
	}
	x := new(big.Int).Sub(s1, s2)
	x.Mul(x, inv)
	return x.Mod(x, q), nil
}
