package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRPC struct {
	allowed    bool
	checkErr   error
	incErr     error
	checks     int
	increments int
}

func (f *fakeRPC) CheckUsageLimit(ctx context.Context, userUUID string) (bool, error) {
	f.checks++
	return f.allowed, f.checkErr
}

func (f *fakeRPC) IncrementUsage(ctx context.Context, userUUID string) error {
	f.increments++
	return f.incErr
}

func TestAllowedPassesThrough(t *testing.T) {
	rpc := &fakeRPC{allowed: true}
	g := NewGate(rpc)
	require.True(t, g.Allowed(context.Background(), "user-1"))

	rpc.allowed = false
	require.False(t, g.Allowed(context.Background(), "user-1"))
	require.Equal(t, 2, rpc.checks)
}

func TestAllowedFailsOpenOnRPCError(t *testing.T) {
	rpc := &fakeRPC{allowed: false, checkErr: errors.New("rpc down")}
	g := NewGate(rpc)
	require.True(t, g.Allowed(context.Background(), "user-1"))
}

func TestIncrementSwallowsErrors(t *testing.T) {
	rpc := &fakeRPC{incErr: errors.New("rpc down")}
	g := NewGate(rpc)
	g.Increment(context.Background(), "user-1")
	require.Equal(t, 1, rpc.increments)
}
