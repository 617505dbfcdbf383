package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
	"github.com/san-kum/sdesim/internal/sde"
	"github.com/san-kum/sdesim/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent trajectories of one model concurrently. Member
// i owns a sampler seeded with noise.MemberSeed(seedStart, i), so results
// do not depend on scheduling.
type Ensemble struct {
	dyn        dynamo.System
	integrator sde.Integrator
	numRuns    int
	seedStart  int64
}

func NewEnsemble(dyn dynamo.System, integrator sde.Integrator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{dyn: dyn, integrator: integrator, numRuns: numRuns, seedStart: seedStart}
}

// Run starts every member from x0.
func (e *Ensemble) Run(ctx context.Context, x0 dynamo.State, cfg Config) ([]*Result, error) {
	x0s := make([]dynamo.State, e.numRuns)
	for i := range x0s {
		x0s[i] = x0
	}
	return e.RunFrom(ctx, x0s, cfg)
}

// RunFrom starts member i from x0s[i]. The first member error cancels the
// remaining members and is returned.
func (e *Ensemble) RunFrom(ctx context.Context, x0s []dynamo.State, cfg Config) ([]*Result, error) {
	if len(x0s) != e.numRuns {
		return nil, fmt.Errorf("%w: %d initial states for %d members", dynamo.ErrInvalidArgument, len(x0s), e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	log := telemetry.FromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = noise.MemberSeed(e.seedStart, idx)

			mctx := telemetry.WithLogger(gctx, telemetry.WithMember(log, idx))
			res, err := New(e.dyn, e.integrator).Run(mctx, x0s[idx], cfgCopy)
			if err != nil {
				return fmt.Errorf("member %d: %w", idx, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
