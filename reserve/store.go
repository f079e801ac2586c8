// Package reserve keeps short-lived reservations of coins and messages in
// Redis so that concurrent funding calls for one owner, possibly in
// different processes, do not select the same resources.
package reserve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/libfund-go/coin"
)

// DefaultTTL is how long a reservation lives when Options.TTL is zero.
const DefaultTTL = 2 * time.Minute

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "libfund:"

// Options configures a Store.
type Options struct {
	Prefix string
	TTL    time.Duration
	Logger zerolog.Logger
}

// Store implements wallet.Reserver on Redis.
//
// Each reserved resource is a key holding the lock id, set with NX and a
// TTL. The lock id maps to the set of keys it holds so Release can find
// them again.
type Store struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

// releaseScript deletes KEYS[i] only while it still holds ARGV[1].
var releaseScript = goredis.NewScript(`
local n = 0
for _, k in ipairs(KEYS) do
	if redis.call("GET", k) == ARGV[1] then
		n = n + redis.call("DEL", k)
	end
end
return n
`)

// NewStore creates a Store on client.
func NewStore(client goredis.UniversalClient, opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Store{
		client: client,
		prefix: opts.Prefix,
		ttl:    opts.TTL,
		log:    opts.Logger.With().Str("component", "reserve").Logger(),
	}
}

// resourcePrefix is the key prefix of every reservation of owner.
func (s *Store) resourcePrefix(owner coin.Address) string {
	return s.prefix + "res:" + owner.String() + ":"
}

func (s *Store) resourceKey(owner coin.Address, r coin.Resource) string {
	return s.resourcePrefix(owner) + r.ResourceKind().String() + ":" + r.ResourceID()
}

func (s *Store) lockKey(owner coin.Address, lockID string) string {
	return s.prefix + "lock:" + owner.String() + ":" + lockID
}

// Reserve takes every resource in rs under a new lock id. If any resource
// is already held, the ones taken by this call are released and
// ErrAlreadyReserved is returned.
func (s *Store) Reserve(ctx context.Context, owner coin.Address, rs []coin.Resource) (string, error) {
	lockID := uuid.NewString()
	keys := make([]string, 0, len(rs))
	for _, r := range rs {
		key := s.resourceKey(owner, r)
		ok, err := s.client.SetArgs(ctx, key, lockID, goredis.SetArgs{Mode: "NX", TTL: s.ttl}).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			s.rollback(ctx, lockID, keys)
			return "", fmt.Errorf("reserve: set %s: %w", r.ResourceID(), err)
		}
		if ok != "OK" {
			s.rollback(ctx, lockID, keys)
			return "", fmt.Errorf("%w: %s %s", ErrAlreadyReserved, r.ResourceKind(), r.ResourceID())
		}
		keys = append(keys, key)
	}
	if len(keys) > 0 {
		lk := s.lockKey(owner, lockID)
		members := make([]interface{}, len(keys))
		for i, k := range keys {
			members[i] = k
		}
		pipe := s.client.TxPipeline()
		pipe.SAdd(ctx, lk, members...)
		pipe.Expire(ctx, lk, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			s.rollback(ctx, lockID, keys)
			return "", fmt.Errorf("reserve: record lock: %w", err)
		}
	}
	s.log.Debug().Str("owner", owner.String()).Str("lock_id", lockID).Int("resources", len(keys)).Msg("reserved")
	return lockID, nil
}

// rollback frees keys taken by a failed Reserve.
func (s *Store) rollback(ctx context.Context, lockID string, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := releaseScript.Run(ctx, s.client, keys, lockID).Err(); err != nil {
		s.log.Warn().Err(err).Str("lock_id", lockID).Msg("rollback reservation")
	}
}

// Release frees every resource held under lockID. Keys that expired or
// were taken over by another lock are left alone.
func (s *Store) Release(ctx context.Context, owner coin.Address, lockID string) error {
	lk := s.lockKey(owner, lockID)
	keys, err := s.client.SMembers(ctx, lk).Result()
	if err != nil {
		return fmt.Errorf("reserve: read lock: %w", err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownLock, lockID)
	}
	if err := releaseScript.Run(ctx, s.client, keys, lockID).Err(); err != nil {
		return fmt.Errorf("reserve: release: %w", err)
	}
	if err := s.client.Del(ctx, lk).Err(); err != nil {
		return fmt.Errorf("reserve: delete lock: %w", err)
	}
	s.log.Debug().Str("owner", owner.String()).Str("lock_id", lockID).Msg("released")
	return nil
}

// Excluded returns every resource of owner currently reserved.
func (s *Store) Excluded(ctx context.Context, owner coin.Address) (*coin.ExcludedIDs, error) {
	prefix := s.resourcePrefix(owner)
	out := &coin.ExcludedIDs{UTXOs: []coin.UTXOID{}, Messages: []coin.Nonce{}}
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		kind, id, ok := strings.Cut(strings.TrimPrefix(iter.Val(), prefix), ":")
		if !ok {
			continue
		}
		switch kind {
		case coin.KindCoin.String():
			u, err := coin.ParseUTXOID(id)
			if err != nil {
				return nil, fmt.Errorf("reserve: key %q: %w", iter.Val(), err)
			}
			out.UTXOs = append(out.UTXOs, u)
		case coin.KindMessage.String():
			n, err := coin.ParseNonce(id)
			if err != nil {
				return nil, fmt.Errorf("reserve: key %q: %w", iter.Val(), err)
			}
			out.Messages = append(out.Messages, n)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reserve: scan: %w", err)
	}
	return out, nil
}
