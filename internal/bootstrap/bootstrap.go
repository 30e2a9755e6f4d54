// Package bootstrap provisions the relay's signing key pool at startup:
// it derives the master account's key from the configured seed phrase,
// then generates and registers num_pool_keys fresh access keys on-chain
// in parallel, mirroring the prototype's spawn-then-join-all fan-out.
package bootstrap

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/keypool"
	"github.com/nearft/relay/internal/near"
)

// Submitter is the subset of near.Submitter bootstrap needs, so this
// package does not depend on the rpc transport directly.
type Submitter interface {
	SubmitActions(ctx context.Context, signer near.Signer, actions []near.Action) (string, error)
}

// ProvisionPool derives the master signer from seedPhrase, then
// concurrently generates and registers numPoolKeys fresh access keys
// against the master account, each via its own AddKey transaction signed
// by the master key. It returns a Pool over exactly the keys that were
// successfully registered; if none were, it returns an error instead of
// an empty pool.
func ProvisionPool(ctx context.Context, submitter Submitter, seedPhrase string, numPoolKeys int, log *zap.SugaredLogger) (*keypool.Pool, *keypool.SigningKey, error) {
	masterPub, masterPriv, err := keypool.DeriveMasterKey(seedPhrase)
	if err != nil {
		return nil, nil, err
	}
	masterKey := keypool.NewSigningKey(masterPub, masterPriv, 0)

	if numPoolKeys <= 0 {
		return nil, nil, apperr.New(apperr.BootstrapKeyFailed, "num_pool_keys must be positive")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		pooled  = make([]*keypool.SigningKey, 0, numPoolKeys)
		lastErr error
	)

	for i := 0; i < numPoolKeys; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			key, err := keypool.GenerateSigningKey()
			if err != nil {
				mu.Lock()
				lastErr = err
				mu.Unlock()
				log.Errorw("failed to generate pool key", "index", i, "error", err)
				return
			}

			addKey := &near.AddKeyAction{PublicKey: key.PublicKeyBytes(), Nonce: 0}
			txHash, err := submitter.SubmitActions(ctx, masterKey, []near.Action{addKey})
			if err != nil {
				mu.Lock()
				lastErr = err
				mu.Unlock()
				log.Errorw("failed to register pool key", "index", i, "error", err)
				return
			}

			log.Infow("registered pool key", "index", i, "public_key", key.PublicKeyString(), "txn_hash", txHash)

			mu.Lock()
			pooled = append(pooled, key)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if len(pooled) == 0 {
		return nil, nil, apperr.Wrap(apperr.BootstrapKeyFailed, "no pool keys could be registered", lastErr)
	}

	pool, err := keypool.NewPool(pooled)
	if err != nil {
		return nil, nil, err
	}
	return pool, masterKey, nil
}
