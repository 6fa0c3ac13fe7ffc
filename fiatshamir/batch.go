package fiatshamir

import (
	"context"
	"runtime"

	"github.com/go-errors/errors"
	"golang.org/x/sync/errgroup"

	"github.com/privacybydesign/sigma"
	"github.com/privacybydesign/sigma/group"
)

// VerifyBatch verifies independent proofs in parallel, each against the binding with the same
// index. The returned slice holds the outcome per proof. An error is only returned when the
// arguments do not line up or ctx is done before all proofs were checked.
func VerifyBatch(ctx context.Context, params *group.Params, proofs []*Proof, bindings []Binding) ([]bool, error) {
	if bindings != nil && len(bindings) != len(proofs) {
		return nil, errors.Errorf("got %d proofs but %d bindings", len(proofs), len(bindings))
	}

	results := make([]bool, len(proofs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range proofs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var binding Binding
			if bindings != nil {
				binding = bindings[i]
			}
			results[i] = Verify(proofs[i], params, binding)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sigma.Logger.Debugf("verified batch of %d proofs", len(proofs))
	return results, nil
}
