// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sigma implements the Schnorr identification protocol, a three-move Sigma protocol
// in which a prover convinces a verifier that it knows the discrete logarithm x of a public
// value y = g^x in a group of prime order q, without revealing anything else about x:
//
//	prover                           verifier
//	r random, t = g^r     --- t -->
//	                      <-- c ---  c random in [0, q)
//	s = r + c*x mod q     --- s -->  accept iff g^s = t * y^c
//
// Group parameters live in package group, key pairs in package keys. The non-interactive
// variant, in which c is derived by hashing, lives in package fiatshamir, and package
// fileproof builds proofs of content possession on top of it.
package sigma
