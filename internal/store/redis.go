package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/model"
)

const (
	txnKeyPrefix  = "txn:"
	userKeyPrefix = "user_txns:"
)

// Redis is the production Store, backed by a single Redis instance.
// Records are JSON blobs at "txn:<id>"; "user_txns:<receiver>" is a Redis
// list of ids, newest first.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis store from a connection URL such as
// "redis://localhost:6379/0".
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "invalid REDIS_URL", err)
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

func txnKey(id string) string  { return txnKeyPrefix + id }
func userKey(id string) string { return userKeyPrefix + id }

func (r *Redis) Put(ctx context.Context, rec *model.TransactionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return apperr.Wrap(apperr.StorePutFailed, "failed to marshal record", err)
	}

	existed, err := r.client.Exists(ctx, txnKey(rec.ID)).Result()
	if err != nil {
		return apperr.Wrap(apperr.StorePutFailed, "failed to check existing record", err)
	}

	if err := r.client.Set(ctx, txnKey(rec.ID), data, 0).Err(); err != nil {
		return apperr.Wrap(apperr.StorePutFailed, "redis SET failed", err)
	}

	if existed == 0 {
		if err := r.client.LPush(ctx, userKey(rec.Request.RecieverID), rec.ID).Err(); err != nil {
			return apperr.Wrap(apperr.StorePutFailed, "redis LPUSH failed", err)
		}
	}

	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*model.TransactionRecord, error) {
	data, err := r.client.Get(ctx, txnKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperr.New(apperr.StoreMissing, "no record with id "+id)
		}
		return nil, apperr.Wrap(apperr.StoreReadFailed, "redis GET failed", err)
	}

	var rec model.TransactionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperr.Wrap(apperr.StoreReadFailed, "failed to unmarshal record", err)
	}
	return &rec, nil
}

// ListByStatus scans every "txn:*" key with Redis' cursor-based SCAN and
// filters client-side. It is O(N) in the number of stored records by
// design; there is no secondary status index.
func (r *Redis) ListByStatus(ctx context.Context, status model.TransactionStatus, page model.Pagination) ([]model.TransactionRecord, error) {
	matched := make([]model.TransactionRecord, 0)

	iter := r.client.Scan(ctx, 0, txnKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var rec model.TransactionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if rec.Status == status {
			matched = append(matched, rec)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, apperr.Wrap(apperr.StoreReadFailed, "redis SCAN failed", err)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginateSlice(matched, page), nil
}

func (r *Redis) ListBySender(ctx context.Context, receiverID string, scan model.ScanPagination) ([]model.TransactionRecord, string, error) {
	offset := int64(0)
	if scan.Cursor != "" {
		parsed, err := strconv.ParseInt(scan.Cursor, 10, 64)
		if err != nil {
			return nil, "", apperr.Wrap(apperr.InvalidInput, "invalid cursor", err)
		}
		offset = parsed
	}

	count := scan.Count
	if count <= 0 {
		count = 100
	}

	ids, err := r.client.LRange(ctx, userKey(receiverID), offset, offset+count-1).Result()
	if err != nil {
		return nil, "", apperr.Wrap(apperr.StoreReadFailed, "redis LRANGE failed", err)
	}

	out := make([]model.TransactionRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *rec)
	}

	nextCursor := ""
	if int64(len(ids)) == count {
		nextCursor = strconv.FormatInt(offset+count, 10)
	}

	return out, nextCursor, nil
}

// Scan walks the full "txn:*" keyspace using Redis' native cursor-based
// SCAN, independent of status or receiver. Unlike ListByStatus, which
// drives SCAN to exhaustion internally and sorts client-side, Scan hands
// the caller Redis' own opaque uint64 cursor directly: there is no
// ordering guarantee across pages, only the guarantee that a full set of
// cursor calls starting from "" visits every key at least once.
func (r *Redis) Scan(ctx context.Context, scan model.ScanPagination) ([]model.TransactionRecord, string, error) {
	cursor := uint64(0)
	if scan.Cursor != "" {
		parsed, err := strconv.ParseUint(scan.Cursor, 10, 64)
		if err != nil {
			return nil, "", apperr.Wrap(apperr.InvalidInput, "invalid cursor", err)
		}
		cursor = parsed
	}

	count := scan.Count
	if count <= 0 {
		count = 100
	}

	keys, nextCursor, err := r.client.Scan(ctx, cursor, txnKeyPrefix+"*", count).Result()
	if err != nil {
		return nil, "", apperr.Wrap(apperr.StoreReadFailed, "redis SCAN failed", err)
	}

	out := make([]model.TransactionRecord, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var rec model.TransactionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}

	next := ""
	if nextCursor != 0 {
		next = strconv.FormatUint(nextCursor, 10)
	}

	return out, next, nil
}

// Close releases the underlying Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
