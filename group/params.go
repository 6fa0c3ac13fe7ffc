// Package group contains Schnorr groups: the subgroup of prime order q of the multiplicative
// group modulo a prime p, generated by g. Parameters are immutable once constructed and may be
// shared between goroutines.
package group

import (
	"fmt"
	"sync"

	"github.com/bwesterb/go-exptable"
	"github.com/sirupsen/logrus"

	"github.com/privacybydesign/sigma/big"
)

// Minimum sizes for parameters to be considered secure.
const (
	SecurePBits = 2048
	SecureQBits = 256

	// Below this modulus size, fixed-base tables are not worth computing.
	tableMinBits = 256
	tableWindow  = 7
)

var Logger = logrus.StandardLogger()

var (
	bigONE = big.NewInt(1)
	bigTWO = big.NewInt(2)
)

// Params are the public parameters (p, q, g) shared by all parties.
type Params struct {
	P *big.Int `json:"p"`
	Q *big.Int `json:"q"`
	G *big.Int `json:"g"`

	once  sync.Once
	table *exptable.Table

	checkOnce sync.Once
	checkErr  error
}

// New returns the parameters (p, q, g) after checking all group invariants.
// The arguments are copied.
func New(p, q, g *big.Int) (*Params, error) {
	if err := check(p, q, g); err != nil {
		return nil, err
	}
	return &Params{
		P: new(big.Int).Set(p),
		Q: new(big.Int).Set(q),
		G: new(big.Int).Set(g),
	}, nil
}

// Toy returns the demonstration group p = 89, q = 11, g = 2. It is far too small to offer any
// security and must only be used in tests and demos.
func Toy() *Params {
	return &Params{P: big.NewInt(89), Q: big.NewInt(11), G: big.NewInt(2)}
}

// Validate reports whether (p, q, g) satisfy the group invariants: p and q are prime,
// q divides p-1, 1 < g < p, g^q = 1 (mod p) and g^((p-1)/q) != 1 (mod p).
func Validate(p, q, g *big.Int) bool {
	return check(p, q, g) == nil
}

// Validate checks the group invariants, returning an *InvalidParametersError if one fails.
// The outcome is cached, as parameters are immutable.
func (gp *Params) Validate() error {
	if gp == nil {
		return Invalid("missing parameters")
	}
	gp.checkOnce.Do(func() {
		gp.checkErr = check(gp.P, gp.Q, gp.G)
	})
	return gp.checkErr
}

func check(p, q, g *big.Int) error {
	if p == nil || q == nil || g == nil {
		return Invalid("p, q and g must all be present")
	}
	if q.Cmp(bigTWO) < 0 || !q.ProbablyPrime(40) {
		return Invalid("q is not prime")
	}
	if !p.ProbablyPrime(40) {
		return Invalid("p is not prime")
	}
	pminus1 := new(big.Int).Sub(p, bigONE)
	cofactor, rem := new(big.Int).QuoRem(pminus1, q, new(big.Int))
	if rem.Sign() != 0 {
		return Invalid("q does not divide p-1")
	}
	if g.Cmp(bigONE) <= 0 || g.Cmp(p) >= 0 {
		return Invalid("g is not in (1, p)")
	}
	if new(big.Int).Exp(g, q, p).Cmp(bigONE) != 0 {
		return Invalid("g^q != 1 (mod p)")
	}
	if new(big.Int).Exp(g, cofactor, p).Cmp(bigONE) == 0 {
		return Invalid("g^((p-1)/q) = 1 (mod p)")
	}
	return nil
}

// Secure reports whether the parameters are large enough for cryptographic use.
func (gp *Params) Secure() bool {
	return gp.P.BitLen() >= SecurePBits && gp.Q.BitLen() >= SecureQBits
}

func (gp *Params) String() string {
	s := fmt.Sprintf("(p=%s, q=%s, g=%s)", gp.P, gp.Q, gp.G)
	if !gp.Secure() {
		s += " [INSECURE]"
	}
	return s
}

// Equal reports whether both parameter sets describe the same group.
func (gp *Params) Equal(other *Params) bool {
	if gp == nil || other == nil {
		return gp == other
	}
	return gp.P.Cmp(other.P) == 0 && gp.Q.Cmp(other.Q) == 0 && gp.G.Cmp(other.G) == 0
}

func (gp *Params) computeTable() {
	if gp.P.BitLen() < tableMinBits {
		return
	}
	gp.table = new(exptable.Table)
	gp.table.Compute(gp.G.Go(), gp.P.Go(), tableWindow)
	Logger.Debugf("computed fixed-base table for %d-bit group", gp.P.BitLen())
}

// Exp sets ret to g^exp mod p and returns it. Negative exponents are allowed.
func (gp *Params) Exp(ret, exp *big.Int) *big.Int {
	e := new(big.Int).Mod(exp, gp.Q)
	gp.once.Do(gp.computeTable)
	if gp.table == nil {
		return ret.Exp(gp.G, e, gp.P)
	}
	gp.table.Exp(ret.Go(), e.Go())
	return ret
}

// ExpMod computes base^exp mod p for an element base of the subgroup. Negative exponents
// are allowed.
func (gp *Params) ExpMod(base, exp *big.Int) *big.Int {
	e := new(big.Int).Mod(exp, gp.Q)
	return new(big.Int).Exp(base, e, gp.P)
}

// Mul computes a*b mod p.
func (gp *Params) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, gp.P)
}

// IsElement reports whether x is an element of the subgroup of order q, i.e. 1 <= x < p
// and x^q = 1 (mod p).
func (gp *Params) IsElement(x *big.Int) bool {
	if x == nil || x.Sign() <= 0 || x.Cmp(gp.P) >= 0 {
		return false
	}
	return new(big.Int).Exp(x, gp.Q, gp.P).Cmp(bigONE) == 0
}

// IsScalar reports whether 0 <= x < q.
func (gp *Params) IsScalar(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(gp.Q) < 0
}
