package bootstrap

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nearft/relay/internal/near"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fakeSubmitter struct {
	calls      atomic.Int64
	failEveryN int64
}

func (f *fakeSubmitter) SubmitActions(_ context.Context, _ near.Signer, _ []near.Action) (string, error) {
	n := f.calls.Add(1)
	if f.failEveryN > 0 && n%f.failEveryN == 0 {
		return "", assertErr
	}
	return "fakehash", nil
}

var assertErr = &fakeError{"submit failed"}

type fakeError struct{ msg string }

func (e *fakeError) Error() string { return e.msg }

func TestProvisionPool_AllSucceed(t *testing.T) {
	log := zap.NewNop().Sugar()
	sub := &fakeSubmitter{}

	pool, master, err := ProvisionPool(context.Background(), sub, testMnemonic, 5, log)
	require.NoError(t, err)
	assert.Equal(t, 5, pool.Len())
	assert.NotNil(t, master)
}

func TestProvisionPool_PartialFailureStillReturnsPool(t *testing.T) {
	log := zap.NewNop().Sugar()
	sub := &fakeSubmitter{failEveryN: 2}

	pool, _, err := ProvisionPool(context.Background(), sub, testMnemonic, 4, log)
	require.NoError(t, err)
	assert.True(t, pool.Len() > 0 && pool.Len() < 4)
}

func TestProvisionPool_RejectsZeroKeys(t *testing.T) {
	log := zap.NewNop().Sugar()
	sub := &fakeSubmitter{}

	_, _, err := ProvisionPool(context.Background(), sub, testMnemonic, 0, log)
	require.Error(t, err)
}

func TestProvisionPool_InvalidMnemonic(t *testing.T) {
	log := zap.NewNop().Sugar()
	sub := &fakeSubmitter{}

	_, _, err := ProvisionPool(context.Background(), sub, "not a real mnemonic", 3, log)
	require.Error(t, err)
}
