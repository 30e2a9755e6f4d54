package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/model"
)

func TestMemory_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	rec := &model.TransactionRecord{
		ID:        "txn-1",
		SenderID:  "relay.near",
		Status:    model.StatusQueued,
		Request:   model.TransferRequest{RecieverID: "alice.near", Amount: "1000"},
		CreatedAt: time.Now(),
	}

	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, model.StatusQueued, got.Status)

	// Mutating the returned record must not affect the store's copy.
	got.Status = model.StatusFailure
	reread, err := s.Get(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, reread.Status)
}

func TestMemory_Get_Missing(t *testing.T) {
	s := NewMemory()
	_, err := s.Get(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.StoreMissing))
}

func TestMemory_ListByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	now := time.Now()
	for i, status := range []model.TransactionStatus{model.StatusQueued, model.StatusSuccess, model.StatusFailure, model.StatusSuccess} {
		require.NoError(t, s.Put(ctx, &model.TransactionRecord{
			ID:        "txn-" + string(rune('a'+i)),
			Status:    status,
			Request:   model.TransferRequest{RecieverID: "bob.near"},
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	recs, err := s.ListByStatus(ctx, model.StatusSuccess, model.Pagination{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, model.StatusSuccess, r.Status)
	}
}

func TestMemory_ListBySender_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Put(ctx, &model.TransactionRecord{
			ID:        "txn-" + string(rune('a'+i)),
			Status:    model.StatusQueued,
			Request:   model.TransferRequest{RecieverID: "dave.near"},
			CreatedAt: time.Now(),
		}))
	}

	recs, _, err := s.ListBySender(ctx, "dave.near", model.ScanPagination{Count: 10})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"txn-c", "txn-b", "txn-a"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
}

func TestMemory_Scan_CoversEveryReceiverNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Put(ctx, &model.TransactionRecord{ID: "txn-a", Request: model.TransferRequest{RecieverID: "alice.near"}}))
	require.NoError(t, s.Put(ctx, &model.TransactionRecord{ID: "txn-b", Request: model.TransferRequest{RecieverID: "bob.near"}}))

	recs, cursor, err := s.Scan(ctx, model.ScanPagination{Count: 10})
	require.NoError(t, err)
	assert.Empty(t, cursor)
	require.Len(t, recs, 2)
	assert.Equal(t, "txn-b", recs[0].ID)
	assert.Equal(t, "txn-a", recs[1].ID)
}

func TestMemory_ListBySender_Paging(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Put(ctx, &model.TransactionRecord{
			ID:        "txn-" + string(rune('a'+i)),
			Status:    model.StatusQueued,
			Request:   model.TransferRequest{RecieverID: "carol.near"},
			CreatedAt: time.Now(),
		}))
	}

	page1, cursor1, err := s.ListBySender(ctx, "carol.near", model.ScanPagination{Count: 2})
	require.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.NotEmpty(t, cursor1)

	page2, cursor2, err := s.ListBySender(ctx, "carol.near", model.ScanPagination{Cursor: cursor1, Count: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.NotEmpty(t, cursor2)

	page3, cursor3, err := s.ListBySender(ctx, "carol.near", model.ScanPagination{Cursor: cursor2, Count: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.Empty(t, cursor3)
}
