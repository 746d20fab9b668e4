package keeper

import (
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// Keeper of the amm store. All pools share the single store; pool records
// are namespaced by the pool id inside each key prefix.
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	logger     log.Logger

	// extensions are registered in-process; the store holds only their
	// declared call points so pool keys can be validated after restarts.
	extensions map[string]types.Extension

	// session is the active flash accounting session, nil outside a lock.
	session *LockSession

	metrics *Metrics
}

// NewKeeper creates a new amm Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		logger:     logger.With("module", "x/"+types.ModuleName),
		extensions: make(map[string]types.Extension),
		metrics:    newMetrics(),
	}
}

// Logger returns the module logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// getStore returns the KVStore for the amm module
func (k *Keeper) getStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}
