package sigma

import (
	"io"

	"github.com/privacybydesign/sigma/keys"
)

// Run executes one protocol run between the given prover and a fresh verifier.
func Run(rand io.Reader, pubk *keys.PublicKey, prover Party) (*Transcript, bool, error) {
	verifier := NewVerifier(rand, pubk)
	t, err := prover.Commit()
	if err != nil {
		return nil, false, err
	}
	c, err := verifier.Challenge(t)
	if err != nil {
		return nil, false, err
	}
	s, err := prover.Respond(c)
	if err != nil {
		return nil, false, err
	}
	ok, err := verifier.Verify(s)
	if err != nil {
		return nil, false, err
	}
	tr := verifier.Transcript()
	return &tr, ok, nil
}

// RunRounds executes the protocol the given number of times in sequence, each with a fresh
// prover obtained from newProver, and accepts only if every round accepts. A prover that
// does not know the secret is accepted with probability at most q^-rounds. Execution stops
// at the first rejected round.
func RunRounds(rand io.Reader, pubk *keys.PublicKey, rounds int, newProver func() Party) ([]*Transcript, bool, error) {
	transcripts := make([]*Transcript, 0, rounds)
	for i := 0; i < rounds; i++ {
		tr, ok, err := Run(rand, pubk, newProver())
		if err != nil {
			return transcripts, false, err
		}
		transcripts = append(transcripts, tr)
		if !ok {
			Logger.Debugf("round %d of %d rejected", i+1, rounds)
			return transcripts, false, nil
		}
	}
	return transcripts, rounds > 0, nil
}

// Identify runs rounds sequential repetitions of the protocol for the given key pair.
func Identify(rand io.Reader, key *keys.PrivateKey, rounds int) ([]*Transcript, bool, error) {
	return RunRounds(rand, key.Public(), rounds, func() Party {
		return NewProver(rand, key)
	})
}
