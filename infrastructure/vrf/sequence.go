// Package vrf implements domain/interfaces.RandomSource, standing in for
// the host chain's VRF bound to the executing transaction (SPEC_FULL.md
// section 0): crypto/rand supplies unpredictability, a Redis INCR-backed
// counter supplies the monotonic sequence entropy ledger.sequence() would
// have provided on-chain.
package vrf

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSequenceSource implements interfaces.RandomSource against a Redis
// INCR counter, one sequence key per pool.
type RedisSequenceSource struct {
	rdb *redis.Client
}

// NewRedisSequenceSource creates a new Redis-backed random source.
func NewRedisSequenceSource(rdb *redis.Client) *RedisSequenceSource {
	return &RedisSequenceSource{rdb: rdb}
}

// Seed returns the commit-time timestamp and the next value of the pool's
// monotonic sequence counter. The sequence counter guarantees two draws in
// the same second still mix distinct entropy into the seed; crypto/rand
// folds in unpredictability no external observer could anticipate ahead of
// the call.
func (s *RedisSequenceSource) Seed(ctx context.Context, poolID int64) (int64, uint64, error) {
	key := fmt.Sprintf("pool:%d:seq", poolID)

	seq, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment sequence counter for pool %d: %w", poolID, err)
	}

	var entropy [8]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		return 0, 0, fmt.Errorf("failed to read random entropy: %w", err)
	}

	sequence := uint64(seq)<<32 ^ binary.BigEndian.Uint64(entropy[:])
	return time.Now().Unix(), sequence, nil
}
