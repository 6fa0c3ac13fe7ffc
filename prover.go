package sigma

import (
	"io"
	"sync"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/keys"
)

// State of a protocol run, as seen by either party.
type State int

const (
	StateInit State = iota
	StateCommitted
	StateChallenged
	StateResponded
	StateVerified
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCommitted:
		return "committed"
	case StateChallenged:
		return "challenged"
	case StateResponded:
		return "responded"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

var (
	// ErrNonceUsed is returned when a Prover is asked to commit or respond after it already
	// responded. Answering a second challenge for the same commitment would reveal the secret.
	ErrNonceUsed = errors.New("nonce already used; start a new protocol run")
	// ErrState is returned when a protocol step is taken out of order.
	ErrState = errors.New("protocol step out of order")
)

// Party is the prover's side of the protocol.
type Party interface {
	Commit() (*big.Int, error)
	Respond(c *big.Int) (*big.Int, error)
}

// Prover runs the prover's side of a single protocol run. It owns the nonce, which is
// erased as soon as the response has been computed.
type Prover struct {
	sync.Mutex

	key   *keys.PrivateKey
	rand  io.Reader
	r     *big.Int
	t     *big.Int
	state State
}

// NewProver returns a prover for a single run of the protocol.
func NewProver(rand io.Reader, key *keys.PrivateKey) *Prover {
	return &Prover{key: key, rand: rand}
}

// Commit draws a fresh nonce and returns the commitment t.
func (p *Prover) Commit() (*big.Int, error) {
	p.Lock()
	defer p.Unlock()

	switch p.state {
	case StateInit:
	case StateResponded:
		Logger.Warn("refusing to commit with a used prover")
		return nil, ErrNonceUsed
	default:
		return nil, ErrState
	}

	r, t, err := Commit(p.rand, p.key.Params)
	if err != nil {
		return nil, err
	}
	p.r, p.t, p.state = r, t, StateCommitted
	return new(big.Int).Set(t), nil
}

// Respond returns the response s = r + c*x mod q to the challenge c, and erases the nonce.
func (p *Prover) Respond(c *big.Int) (*big.Int, error) {
	p.Lock()
	defer p.Unlock()

	switch p.state {
	case StateCommitted:
	case StateResponded:
		Logger.Warn("refusing to answer a second challenge for the same commitment")
		return nil, ErrNonceUsed
	default:
		return nil, ErrState
	}
	if !p.key.Params.IsScalar(c) {
		return nil, errors.New("challenge out of range [0, q-1]")
	}

	s := Respond(p.key.X, p.r, c, p.key.Params.Q)
	zeroize(p.r)
	p.r, p.state = nil, StateResponded
	return s, nil
}

// State returns the current state of the prover.
func (p *Prover) State() State {
	p.Lock()
	defer p.Unlock()
	return p.state
}

// zeroize overwrites the limbs of x before it is released.
func zeroize(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Go().Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}

// Verifier runs the verifier's side of a single protocol run.
type Verifier struct {
	pubk  *keys.PublicKey
	rand  io.Reader
	tr    Transcript
	state State
}

// NewVerifier returns a verifier for a single run of the protocol.
func NewVerifier(rand io.Reader, pubk *keys.PublicKey) *Verifier {
	return &Verifier{pubk: pubk, rand: rand}
}

// Challenge records the commitment t and returns a fresh random challenge.
func (v *Verifier) Challenge(t *big.Int) (*big.Int, error) {
	if v.state != StateInit {
		return nil, ErrState
	}
	if t == nil {
		return nil, errors.New("missing commitment")
	}
	c, err := NewChallenge(v.rand, v.pubk.Params)
	if err != nil {
		return nil, err
	}
	v.tr.Commitment = new(big.Int).Set(t)
	v.tr.Challenge = c
	v.state = StateChallenged
	return new(big.Int).Set(c), nil
}

// Verify checks the response s, moving to StateVerified or StateRejected.
func (v *Verifier) Verify(s *big.Int) (bool, error) {
	if v.state != StateChallenged {
		return false, ErrState
	}
	v.tr.Response = s
	ok := v.tr.Verify(v.pubk)
	if ok {
		v.state = StateVerified
	} else {
		v.state = StateRejected
	}
	return ok, nil
}

// State returns the current state of the verifier.
func (v *Verifier) State() State {
	return v.state
}

// Transcript returns the messages exchanged so far.
func (v *Verifier) Transcript() Transcript {
	return v.tr
}
