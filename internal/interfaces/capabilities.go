package interfaces

import "context"

// Sentimenter scores a piece of text with a polarity in [-1,1].
type Sentimenter interface {
	Polarity(text string) float64
}

// Optimizer refines position sizing into a normalized weight from a return
// series. Implementations must return an error rather than panic on solver
// failure; the pipeline degrades to an undefined weight.
type Optimizer interface {
	Optimize(ctx context.Context, returns []float64) (float64, error)
}
