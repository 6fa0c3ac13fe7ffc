package group

import (
	"context"
	cryptorand "crypto/rand"
	"io"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/safeprime"
)

// MaxAttempts bounds the number of cofactor candidates Generate tries before giving up.
var MaxAttempts = 1 << 16

// Generate returns fresh parameters with a pBits-bit prime p and a qBits-bit prime q.
// It draws a random prime q, then random even cofactors k until p = k*q + 1 is prime,
// and finally derives g = h^((p-1)/q) for the first h = 2, 3, ... for which g != 1.
func Generate(ctx context.Context, rand io.Reader, pBits, qBits int) (*Params, error) {
	if qBits < 3 || pBits <= qBits+1 {
		return nil, generationError(nil, "need 3 <= qBits < pBits-1, got pBits=%d qBits=%d", pBits, qBits)
	}

	q, err := common.RandomPrime(rand, uint(qBits))
	if err != nil {
		return nil, generationError(err, "failed to generate q")
	}
	Logger.Debugf("generated %d-bit q, searching for %d-bit p", qBits, pBits)

	kBits := uint(pBits - qBits)
	var k *big.Int
	p := new(big.Int)
	rem := new(big.Int)
	for i := 0; i < MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, generationError(err, "cancelled")
		}
		if k, err = common.RandomBigInt(rand, kBits); err != nil {
			return nil, generationError(err, "failed to draw cofactor")
		}
		k.SetBit(k, 0, 0) // p = k*q + 1 must be odd
		if k.Sign() == 0 {
			continue
		}
		// Keep q^2 from dividing p-1
		if rem.Mod(k, q).Sign() == 0 {
			continue
		}
		p.Mul(k, q).Add(p, bigONE)
		if p.BitLen() != pBits || !p.ProbablyPrime(20) {
			continue
		}
		Logger.Debugf("found p after %d candidates", i+1)
		return withGenerator(p, q)
	}
	return nil, generationError(nil, "no prime p found within %d attempts", MaxAttempts)
}

// GenerateSafe returns parameters over a bits-bit safe prime p = 2q + 1, with g = 4 generating
// the subgroup of quadratic residues. When rand is crypto/rand.Reader the search runs on all
// CPU cores.
func GenerateSafe(ctx context.Context, rand io.Reader, bits int) (*Params, error) {
	var p *big.Int
	var err error
	if rand == cryptorand.Reader {
		p, err = safeprime.GenerateConcurrent(ctx, bits)
	} else {
		p, err = safeprime.Generate(ctx, rand, bits)
	}
	if err != nil {
		return nil, generationError(err, "failed to generate safe prime")
	}
	q := new(big.Int).Rsh(p, 1)
	return withGenerator(p, q)
}

// Search returns the first parameters found by exhaustive search over the primes p in
// [lo, hi]: for each p, the prime divisors q of p-1 are tried largest first, and for each
// q the candidates g = 2, 3, ..., p-1. Only suitable for demonstration-sized parameters, which
// are insecure.
func Search(lo, hi int64) (*Params, error) {
	if lo < 2 || hi < lo {
		return nil, generationError(nil, "invalid search range [%d, %d]", lo, hi)
	}
	for p := lo; p <= hi; p++ {
		bp := big.NewInt(p)
		if !bp.ProbablyPrime(20) {
			continue
		}
		factors := common.PrimeFactors(p - 1)
		for i := len(factors) - 1; i >= 0; i-- {
			bq := big.NewInt(factors[i])
			for g := int64(2); g < p; g++ {
				bg := big.NewInt(g)
				if Validate(bp, bq, bg) {
					params := &Params{P: bp, Q: bq, G: bg}
					Logger.Warnf("using insecure demonstration parameters %s", params)
					return params, nil
				}
			}
		}
	}
	return nil, generationError(nil, "no parameters in range [%d, %d]", lo, hi)
}

func withGenerator(p, q *big.Int) (*Params, error) {
	cofactor := new(big.Int).Sub(p, bigONE)
	cofactor.Quo(cofactor, q)
	g := new(big.Int)
	for h := big.NewInt(2); h.Cmp(p) < 0; h.Add(h, bigONE) {
		g.Exp(h, cofactor, p)
		if g.Cmp(bigONE) != 0 {
			break
		}
	}
	params, err := New(p, q, g)
	if err != nil {
		return nil, generationError(err, "generated parameters are invalid")
	}
	return params, nil
}
