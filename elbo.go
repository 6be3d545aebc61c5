package anyenn

import (
	"math"

	"github.com/unixpickle/anydiff"
)

// ElboLoss is the negation of the evidence lower bound,
// the standard variational-inference training objective.
//
// Given a latent variable u with learned density q(u),
// prior density p0(u), and likelihood p(D|u), the bound is
//
//	ELBO(q) = E[log p(D|u)] - KL(q(u) || p0(u))
//
// so maximizing it is regularized likelihood maximization,
// where the regularizer pulls the learned latent
// distribution toward the prior.
// Evaluate computes a one-sample Monte Carlo estimate of
// the negated bound.
type ElboLoss struct {
	// LogLikelihood evaluates log p(D|u) for a network
	// output on a batch of data.
	LogLikelihood func(out Output, batch *Batch) anydiff.Res

	// ModelPriorKL evaluates KL(q(u) || p0(u)) for a
	// network output.
	ModelPriorKL func(out Output, params []*anydiff.Var, index Index) anydiff.Res

	// Temperature and InputDim, when both are set, scale
	// the KL term by sqrt(Temperature) * InputDim.
	Temperature float64
	InputDim    int
}

// Evaluate computes the negative ELBO for one index.
func (e *ElboLoss) Evaluate(apply ApplyFunc[anydiff.Res],
	params []*anydiff.Var, state State, batch *Batch,
	index Index) *LossOutput {
	out, newState := apply(params, state, batch.X, index)
	logLikelihood := e.LogLikelihood(out, batch)
	kl := e.ModelPriorKL(out, params, index)
	assertEqualLen("model prior KL", kl.Output().Len(),
		"log likelihood", logLikelihood.Output().Len())
	if e.Temperature > 0 && e.InputDim > 0 {
		scaler := math.Sqrt(e.Temperature) * float64(e.InputDim)
		kl = anydiff.Scale(kl, kl.Output().Creator().MakeNumeric(scaler))
	}
	return &LossOutput{
		Loss:    anydiff.Sub(kl, logLikelihood),
		State:   newState,
		Metrics: Metrics{},
	}
}

// VaeLoss is the training loss for a variational
// autoencoder.
type VaeLoss struct {
	// LogLikelihood evaluates the reconstruction term for a
	// network output on a batch of data.
	LogLikelihood func(out Output, batch *Batch) anydiff.Res

	// LatentKL evaluates the KL divergence of the latent
	// distribution from its prior.
	LatentKL func(out Output) anydiff.Res
}

// Evaluate computes the VAE loss for one index.
func (v *VaeLoss) Evaluate(apply ApplyFunc[anydiff.Res],
	params []*anydiff.Var, state State, batch *Batch,
	index Index) *LossOutput {
	out, newState := apply(params, state, batch.X, index)
	kl := v.LatentKL(out)
	logLikelihood := v.LogLikelihood(out, batch)
	return &LossOutput{
		Loss:    anydiff.Sub(kl, logLikelihood),
		State:   newState,
		Metrics: Metrics{},
	}
}
