package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/model"
)

// Memory is an in-process Store. It copies records on both read and write
// so callers can never mutate shared state through a returned pointer.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*model.TransactionRecord
	byUser  map[string][]string // receiver_id -> ordered txn ids, newest first
	allIDs  []string            // every txn id ever put, newest first
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]*model.TransactionRecord),
		byUser:  make(map[string][]string),
	}
}

func copyRecord(rec *model.TransactionRecord) *model.TransactionRecord {
	cp := *rec
	return &cp
}

func (m *Memory) Put(_ context.Context, rec *model.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, existed := m.records[rec.ID]
	m.records[rec.ID] = copyRecord(rec)
	if !existed {
		m.byUser[rec.Request.RecieverID] = prependID(m.byUser[rec.Request.RecieverID], rec.ID)
		m.allIDs = prependID(m.allIDs, rec.ID)
	}
	return nil
}

func prependID(ids []string, id string) []string {
	return append([]string{id}, ids...)
}

func (m *Memory) Get(_ context.Context, id string) (*model.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, apperr.New(apperr.StoreMissing, "no record with id "+id)
	}
	return copyRecord(rec), nil
}

func (m *Memory) ListByStatus(_ context.Context, status model.TransactionStatus, page model.Pagination) ([]model.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]model.TransactionRecord, 0)
	for _, rec := range m.records {
		if rec.Status == status {
			matched = append(matched, *copyRecord(rec))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return paginateSlice(matched, page), nil
}

func paginateSlice(all []model.TransactionRecord, page model.Pagination) []model.TransactionRecord {
	pageSize := page.PageSize
	if pageSize <= 0 {
		pageSize = len(all)
	}
	pageNum := page.Page
	if pageNum <= 0 {
		pageNum = 1
	}

	start := (pageNum - 1) * pageSize
	if start >= len(all) {
		return []model.TransactionRecord{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (m *Memory) ListBySender(_ context.Context, receiverID string, scan model.ScanPagination) ([]model.TransactionRecord, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.scanIDs(m.byUser[receiverID], scan)
}

// Scan walks every record ever put, newest first, independent of status or
// receiver.
func (m *Memory) Scan(_ context.Context, scan model.ScanPagination) ([]model.TransactionRecord, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.scanIDs(m.allIDs, scan)
}

// scanIDs pages through ids (already in the desired order) using the same
// offset-as-cursor convention ListBySender and Scan both expose. Callers
// must hold at least m.mu.RLock.
func (m *Memory) scanIDs(ids []string, scan model.ScanPagination) ([]model.TransactionRecord, string, error) {
	offset := 0
	if scan.Cursor != "" {
		parsed, err := strconv.Atoi(scan.Cursor)
		if err != nil {
			return nil, "", apperr.Wrap(apperr.InvalidInput, "invalid cursor", err)
		}
		offset = parsed
	}

	count := scan.Count
	if count <= 0 {
		count = int64(len(ids))
	}

	if offset >= len(ids) {
		return []model.TransactionRecord{}, "", nil
	}

	end := offset + int(count)
	if end > len(ids) {
		end = len(ids)
	}

	out := make([]model.TransactionRecord, 0, end-offset)
	for _, id := range ids[offset:end] {
		if rec, ok := m.records[id]; ok {
			out = append(out, *copyRecord(rec))
		}
	}

	nextCursor := ""
	if end < len(ids) {
		nextCursor = strconv.Itoa(end)
	}

	return out, nextCursor, nil
}
