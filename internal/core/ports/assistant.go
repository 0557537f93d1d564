package ports

import "context"

// DeathSummaryProvider answers lookups about how a famous person died.
// Backed by a hosted language model upstream.
type DeathSummaryProvider interface {
	// FamousDeath returns a short factual summary for the given person.
	// Returns domain.ErrAssistantUnavailable while the upstream model is
	// still loading and domain.ErrAssistantFailed on any other upstream
	// failure.
	FamousDeath(ctx context.Context, personName string) (string, error)
}
