package ingress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nearft/relay/internal/model"
	"github.com/nearft/relay/internal/store"
)

// failingPutStore fails every Put, to exercise ingress's fire-and-forget
// persistence: admission must still succeed and enqueue the item.
type failingPutStore struct {
	store.Store
}

func (failingPutStore) Put(context.Context, *model.TransactionRecord) error {
	return errors.New("put failed")
}

func TestIngress_Submit_Success(t *testing.T) {
	st := store.NewMemory()
	queue := make(chan model.QueueItem, 10)
	ing := New(st, queue, "relay.near", zap.NewNop().Sugar(), nil)

	resp, err := ing.Submit(context.Background(), model.TransferRequest{RecieverID: "alice.near", Amount: "100"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.TransactionID)

	rec, err := st.Get(context.Background(), resp.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, rec.Status)

	assert.Len(t, queue, 1)
}

func TestIngress_Submit_RejectsMissingReceiver(t *testing.T) {
	st := store.NewMemory()
	queue := make(chan model.QueueItem, 10)
	ing := New(st, queue, "relay.near", zap.NewNop().Sugar(), nil)

	resp, err := ing.Submit(context.Background(), model.TransferRequest{Amount: "100"})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.TransactionID)
}

func TestIngress_Submit_RejectsInvalidAmount(t *testing.T) {
	st := store.NewMemory()
	queue := make(chan model.QueueItem, 10)
	ing := New(st, queue, "relay.near", zap.NewNop().Sugar(), nil)

	resp, err := ing.Submit(context.Background(), model.TransferRequest{RecieverID: "alice.near", Amount: "-5"})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.TransactionID)
}

func TestIngress_Submit_AcceptsZeroAmount(t *testing.T) {
	st := store.NewMemory()
	queue := make(chan model.QueueItem, 10)
	ing := New(st, queue, "relay.near", zap.NewNop().Sugar(), nil)

	resp, err := ing.Submit(context.Background(), model.TransferRequest{RecieverID: "alice.near", Amount: "0"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestIngress_Submit_PersistFailureIsFireAndForget(t *testing.T) {
	queue := make(chan model.QueueItem, 10)
	ing := New(failingPutStore{}, queue, "relay.near", zap.NewNop().Sugar(), nil)

	resp, err := ing.Submit(context.Background(), model.TransferRequest{RecieverID: "alice.near", Amount: "100"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, queue, 1)
}

func TestIngress_Submit_QueueFullReturnsEnqueueFailed(t *testing.T) {
	st := store.NewMemory()
	queue := make(chan model.QueueItem, 1)
	ing := New(st, queue, "relay.near", zap.NewNop().Sugar(), nil)

	_, err := ing.Submit(context.Background(), model.TransferRequest{RecieverID: "alice.near", Amount: "100"})
	require.NoError(t, err)

	_, err = ing.Submit(context.Background(), model.TransferRequest{RecieverID: "bob.near", Amount: "100"})
	require.Error(t, err)
}
