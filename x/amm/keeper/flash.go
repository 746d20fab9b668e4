package keeper

import (
	"encoding/binary"
	"fmt"
	"sort"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// LockSession is the flash accounting context of one lock. Every pool
// operation inside the lock adjusts per-token debts; the lock commits only
// when all debts return to zero.
type LockSession struct {
	id     uint64
	locker string

	// delegate is the forwarded identity, empty outside a Forward call.
	delegate string

	// debts maps token to the signed amount the session owes the module.
	debts map[string]sdkmath.Int

	// payment tracks an open BeginPayment, nil otherwise.
	payment *pendingPayment
}

type pendingPayment struct {
	token         string
	balanceBefore sdkmath.Int
}

// ID returns the session's unique identifier.
func (s *LockSession) ID() uint64 { return s.id }

// Locker returns the address that opened the lock.
func (s *LockSession) Locker() string { return s.locker }

// ActiveIdentity returns the identity pool operations act as: the forward
// delegate when one is set, otherwise the locker.
func (s *LockSession) ActiveIdentity() string {
	if s.delegate != "" {
		return s.delegate
	}
	return s.locker
}

// Debt returns the session's outstanding debt in the given token.
func (s *LockSession) Debt(token string) sdkmath.Int {
	if d, ok := s.debts[token]; ok {
		return d
	}
	return sdkmath.ZeroInt()
}

// accountDelta adds a signed amount to the session's debt in token. Positive
// means owed to the module. Debts must stay within the signed container.
func (s *LockSession) accountDelta(token string, amount sdkmath.Int) error {
	if amount.IsZero() {
		return nil
	}
	d := s.Debt(token).Add(amount)
	if !ammmath.FitsI128(d.BigInt()) {
		return types.ErrAmountOverflow.Wrapf("session %d debt in %s", s.id, token)
	}
	if d.IsZero() {
		delete(s.debts, token)
		return nil
	}
	s.debts[token] = d
	return nil
}

func (s *LockSession) outstandingTokens() []string {
	tokens := make([]string, 0, len(s.debts))
	for token := range s.debts {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Lock opens a flash accounting session for locker and runs fn inside it.
// All state written by fn lands on a branched store and is discarded unless
// fn succeeds with every token debt settled to zero. Locks do not nest.
func (k *Keeper) Lock(ctx sdk.Context, locker string, fn func(ctx sdk.Context) error) error {
	if k.session != nil {
		return types.ErrLockActive.Wrapf("session %d held by %s", k.session.id, k.session.locker)
	}
	if locker == "" {
		return types.ErrNotLocker.Wrap("empty locker address")
	}

	id := k.nextSessionID(ctx)
	session := &LockSession{
		id:     id,
		locker: locker,
		debts:  make(map[string]sdkmath.Int),
	}
	k.session = session
	defer func() { k.session = nil }()

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeLockAcquired,
		sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", id)),
		sdk.NewAttribute(types.AttributeKeyLocker, locker),
	))

	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		k.metrics.LocksReverted.Inc()
		return err
	}
	if session.payment != nil {
		k.metrics.LocksReverted.Inc()
		return types.ErrPaymentInProgress.Wrapf("token %s", session.payment.token)
	}
	if len(session.debts) != 0 {
		k.metrics.LocksReverted.Inc()
		return types.ErrDebtsNotZeroed.Wrapf("tokens %v", session.outstandingTokens())
	}

	write()
	ctx.EventManager().EmitEvents(cacheCtx.EventManager().Events())
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeLockReleased,
		sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", id)),
		sdk.NewAttribute(types.AttributeKeyLocker, locker),
	))
	k.metrics.LocksCommitted.Inc()
	return nil
}

// Forward runs fn with pool operations acting as delegate instead of the
// locker. Forwarding does not nest.
func (k *Keeper) Forward(ctx sdk.Context, delegate string, fn func(ctx sdk.Context) error) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	if session.delegate != "" {
		return types.ErrForwardDepthExceeded.Wrapf("already forwarded to %s", session.delegate)
	}
	if delegate == "" {
		return types.ErrNotLocker.Wrap("empty delegate address")
	}
	session.delegate = delegate
	defer func() { session.delegate = "" }()
	return fn(ctx)
}

// Session returns the active lock session, nil when no lock is held.
func (k *Keeper) Session() *LockSession {
	return k.session
}

// activeSession returns the current lock session or an error when no lock is
// held.
func (k *Keeper) activeSession() (*LockSession, error) {
	if k.session == nil {
		return nil, types.ErrNoActiveLock
	}
	return k.session, nil
}

// Pay settles debt in token by pulling amount from the session's active
// identity into the module account.
func (k *Keeper) Pay(ctx sdk.Context, token string, amount sdkmath.Int) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("payment amount %s", amount)
	}
	if err := checkU128(amount); err != nil {
		return err
	}
	payer, err := sdk.AccAddressFromBech32(session.ActiveIdentity())
	if err != nil {
		return types.ErrNotLocker.Wrapf("invalid payer address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(token, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, payer, types.ModuleName, coins); err != nil {
		return err
	}
	return session.accountDelta(token, amount.Neg())
}

// BeginPayment snapshots the module's balance in token so a transfer made
// outside the keeper can be credited with CompletePayment.
func (k *Keeper) BeginPayment(ctx sdk.Context, token string) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	if session.payment != nil {
		return types.ErrPaymentInProgress.Wrapf("token %s", session.payment.token)
	}
	moduleAddr := k.moduleAddress()
	balance := k.bankKeeper.GetBalance(ctx, moduleAddr, token)
	session.payment = &pendingPayment{token: token, balanceBefore: balance.Amount}
	return nil
}

// CompletePayment credits the session with the module balance gained since
// BeginPayment and returns the credited amount.
func (k *Keeper) CompletePayment(ctx sdk.Context) (sdkmath.Int, error) {
	session, err := k.activeSession()
	if err != nil {
		return sdkmath.Int{}, err
	}
	if session.payment == nil {
		return sdkmath.Int{}, types.ErrPaymentNotStarted
	}
	payment := session.payment
	session.payment = nil

	balance := k.bankKeeper.GetBalance(ctx, k.moduleAddress(), payment.token)
	paid := balance.Amount.Sub(payment.balanceBefore)
	if paid.IsNegative() {
		return sdkmath.Int{}, types.ErrInvalidAmount.Wrapf("module balance decreased during payment of %s", payment.token)
	}
	if err := checkU128(paid); err != nil {
		return sdkmath.Int{}, err
	}
	if err := session.accountDelta(payment.token, paid.Neg()); err != nil {
		return sdkmath.Int{}, err
	}
	return paid, nil
}

// Withdraw sends amount of token from the module to recipient, increasing
// the session's debt.
func (k *Keeper) Withdraw(ctx sdk.Context, token string, amount sdkmath.Int, recipient string) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("withdrawal amount %s", amount)
	}
	if err := checkU128(amount); err != nil {
		return err
	}
	to, err := sdk.AccAddressFromBech32(recipient)
	if err != nil {
		return types.ErrNotLocker.Wrapf("invalid recipient address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(token, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
		return err
	}
	return session.accountDelta(token, amount)
}

func (k *Keeper) moduleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// nextSessionID increments the persistent lock counter. Ids stay unique even
// when the lock body reverts since the counter bumps on the parent store.
func (k *Keeper) nextSessionID(ctx sdk.Context) uint64 {
	store := k.getStore(ctx)
	var id uint64
	if bz := store.Get(types.LockCounterKey); bz != nil {
		id = binary.BigEndian.Uint64(bz)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id+1)
	store.Set(types.LockCounterKey, buf[:])
	return id
}
