// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/sigma/big"
)

// Some utility code (mostly math stuff) useful in various places in this
// module.

// Often we need to refer to the same small constant big numbers, no point in
// creating them again and again.
var (
	bigONE  = big.NewInt(1)
	bigTWO  = big.NewInt(2)
)

// ModInverse returns ia, the inverse of a modulo n. It requires that a and n be coprime.
// This function was taken from Go's RSA implementation
func ModInverse(a, n *big.Int) (ia *big.Int, ok bool) {
	g := new(big.Int)
	x := new(big.Int)
	y := new(big.Int)
	g.GCD(x, y, new(big.Int).Mod(a, n), n)
	if g.Cmp(bigONE) != 0 {
		// In this case, a and n aren't coprime and we cannot calculate
		// the inverse.
		return
	}

	if x.Cmp(bigONE) < 0 {
		// 0 is not the multiplicative inverse of any element so, if x
		// < 1, then x is negative.
		x.Add(x, n)
	}

	return x, true
}

var ErrNoModInverse = errors.New("modular inverse does not exist")

// RandomBigInt returns a random big integer value in the range
// [0,(2^numBits)-1], inclusive.
func RandomBigInt(rand io.Reader, numBits uint) (*big.Int, error) {
	t := new(big.Int).Lsh(bigONE, numBits)
	return big.RandInt(rand, t)
}

// RandomModulo returns a uniformly random value in [0, n).
func RandomModulo(rand io.Reader, n *big.Int) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, errors.New("modulus must be positive")
	}
	return big.RandInt(rand, n)
}

// RandomNonZero returns a uniformly random value in [1, n).
func RandomNonZero(rand io.Reader, n *big.Int) (*big.Int, error) {
	if n == nil || n.Cmp(bigTWO) < 0 {
		return nil, errors.New("modulus must be at least 2")
	}
	r, err := big.RandInt(rand, new(big.Int).Sub(n, bigONE))
	if err != nil {
		return nil, err
	}
	return r.Add(r, bigONE), nil
}

// PrimeFactors returns the distinct prime factors of n > 1 in increasing order, by trial
// division. Only intended for the small moduli of toy parameter searches.
func PrimeFactors(n int64) []int64 {
	var factors []int64
	for d := int64(2); d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		factors = append(factors, d)
		for n%d == 0 {
			n /= d
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}
