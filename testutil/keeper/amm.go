package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/keeper"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// AmmKeeper creates a test keeper for the AMM module backed by an in-memory
// store and a mock bank keeper.
func AmmKeeper(t testing.TB) (*keeper.Keeper, *MockBankKeeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bank := NewMockBankKeeper()
	k := keeper.NewKeeper(storeKey, bank, log.NewNopLogger())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	return k, bank, ctx
}

// MockBankKeeper is an in-memory bank with just the surface the AMM keeper
// settles against.
type MockBankKeeper struct {
	balances map[string]sdk.Coins
}

func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{balances: make(map[string]sdk.Coins)}
}

// FundAccount credits an address, bypassing transfer checks.
func (m *MockBankKeeper) FundAccount(addr sdk.AccAddress, amt sdk.Coins) {
	m.balances[addr.String()] = m.balances[addr.String()].Add(amt...)
}

func (m *MockBankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balances[addr.String()].AmountOf(denom))
}

func (m *MockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.send(senderAddr.String(), moduleAddr(recipientModule).String(), amt)
}

func (m *MockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.send(moduleAddr(senderModule).String(), recipientAddr.String(), amt)
}

func (m *MockBankKeeper) send(from, to string, amt sdk.Coins) error {
	fromBalance, hasNeg := m.balances[from].SafeSub(amt...)
	if hasNeg {
		return types.ErrInvalidAmount.Wrapf("insufficient funds in %s", from)
	}
	m.balances[from] = fromBalance
	m.balances[to] = m.balances[to].Add(amt...)
	return nil
}

func moduleAddr(name string) sdk.AccAddress {
	return authtypes.NewModuleAddress(name)
}

// TestAddr returns a deterministic bech32 address for tests.
func TestAddr(index byte) string {
	bz := make([]byte, 20)
	bz[0] = index
	return sdk.AccAddress(bz).String()
}

// Liquidity is shorthand for building sdkmath.Int liquidity values.
func Liquidity(v int64) sdkmath.Int {
	return sdkmath.NewInt(v)
}
