// Package safeprime computes safe primes, i.e. primes of the form 2q+1 where q is also prime.
package safeprime

import (
	"context"
	"crypto/rand"
	"io"
	"runtime"

	"github.com/go-errors/errors"
	"golang.org/x/sync/errgroup"

	"github.com/privacybydesign/sigma/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// GenerateConcurrent generates a safe prime on all CPU cores, returning the first one found.
// Cancelling ctx stops all goroutines, in which case the context's error is returned.
func GenerateConcurrent(ctx context.Context, bitsize int) (*big.Int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan *big.Int, 1)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < runtime.GOMAXPROCS(0); i++ {
		g.Go(func() error {
			x, err := Generate(ctx, rand.Reader, bitsize)
			if err != nil {
				return err
			}
			select {
			case found <- x:
				cancel() // the others are no longer needed
			default:
			}
			return nil
		})
	}
	err := g.Wait()
	select {
	case x := <-found:
		return x, nil
	default:
		return nil, err
	}
}

// Generate a safe prime of the given size, using the fact that:
//
//	If q is prime and 2^(2q) = 1 mod (2q+1), then 2q+1 is a safe prime.
//
// We take a random bigint q; if the above formula holds and q is prime, then we return 2q+1.
// (See https://www.ijipbangalore.org/abstracts_2(1)/p5.pdf and
// https://groups.google.com/group/sci.crypt/msg/34c4abf63568a8eb)
//
// The context is polled periodically; if it is done, its error is returned.
func Generate(ctx context.Context, rnd io.Reader, bitsize int) (*big.Int, error) {
	if bitsize < 3 {
		return nil, errors.New("safe prime size must be at least 3 bits")
	}
	var (
		max        = new(big.Int).Lsh(one, uint(bitsize)) // 2^bitsize, len bitsize+1
		twoq       = new(big.Int)
		twoqone    = new(big.Int)
		twoexptwoq = new(big.Int)
		q          *big.Int
		bitlen     int
		err        error
	)

	for i := 0; ; i++ {
		// Every 100 iterations, check if we have been asked to stop
		if i%100 == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}

		if q, err = big.RandInt(rnd, max); err != nil {
			return nil, err
		}

		bitlen = q.BitLen() // q < max = 2^bitsize, so bitlen <= bitsize

		if q.Bit(0) != uint(1) || // q is not odd
			bitlen < bitsize-1 { // q is too small
			continue
		}

		// bitlen now equals either bitsize or bitsize - 1. We want the latter.
		// If bitlen == bitsize we use (q-1)/2 instead of q in the remainder of the algorithm.
		if bitlen == bitsize {
			q.Rsh(q, 1)
			if q.Bit(0) != uint(1) { // ensure again that q is odd
				continue
			}
		}

		twoq.Mul(two, q)
		twoqone.Add(twoq, one)
		twoexptwoq.Exp(two, twoq, twoqone) // 2^(2q) mod (2q+1)

		if twoexptwoq.Cmp(one) == 0 && q.ProbablyPrime(40) {
			break
		}
	}

	if !ProbablySafePrime(twoqone, 40) {
		return nil, errors.New("safeprime generation returned non-safeprime")
	}
	return twoqone, nil
}

// ProbablySafePrime reports whether x is probably safe prime, by calling big.Int.ProbablyPrime(n)
// on x as well as on (x-1)/2.
//
// If x is safe prime, ProbablySafePrime returns true.
// If x is chosen randomly and not safe prime, ProbablyPrime probably returns false.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 {
		return false
	}
	if !x.ProbablyPrime(n) {
		return false
	}
	y := new(big.Int).Rsh(x, 1)
	return y.ProbablyPrime(n)
}
