package quota

import (
	"context"

	"github.com/rs/zerolog/log"
)

// UsageRPC is the pair of remote procedures owning the per-user monthly
// counter. The store layer implements it against Supabase.
type UsageRPC interface {
	CheckUsageLimit(ctx context.Context, userUUID string) (bool, error)
	IncrementUsage(ctx context.Context, userUUID string) error
}

type Gate struct {
	rpc UsageRPC
}

func NewGate(rpc UsageRPC) *Gate {
	return &Gate{rpc: rpc}
}

// Allowed reports whether the user may ask another question this month.
// A failing RPC fails OPEN: availability is preferred over strictness.
func (g *Gate) Allowed(ctx context.Context, userUUID string) bool {
	allowed, err := g.rpc.CheckUsageLimit(ctx, userUUID)
	if err != nil {
		log.Warn().Err(err).Str("user", userUUID).Msg("Usage check failed, allowing request")
		return true
	}
	return allowed
}

// Increment bumps the user's monthly counter. Errors are logged and
// swallowed so a flaky counter never blocks an answer.
func (g *Gate) Increment(ctx context.Context, userUUID string) {
	if err := g.rpc.IncrementUsage(ctx, userUUID); err != nil {
		log.Warn().Err(err).Str("user", userUUID).Msg("Usage increment failed")
	}
}
