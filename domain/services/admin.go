package services

import (
	"github.com/luckystake/pool-engine/domain/entities"
)

// requireAdmin re-expresses the Rust source's Admin.require_auth() check:
// every admin-gated entry point must be called by the exact address stored
// in PoolState.Admin at initialize time (spec section 4.7).
func requireAdmin(pool *entities.PoolState, caller string) error {
	if !pool.IsInitialized() {
		return entities.ErrNotInitialized
	}
	if !pool.IsAdmin(caller) {
		return entities.ErrUnauthorized
	}
	return nil
}
