// Command ammsim explores AMM pool math from the command line: tick/price
// conversions and swap quotes against a synthetic in-memory pool.
package main

import (
	"context"
	"fmt"
	"os"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/keeper"
	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ammsim",
		Short: "AMM pool math explorer",
	}
	cmd.AddCommand(tickCmd(), ratioCmd(), quoteCmd())
	return cmd
}

func tickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick <tick>",
		Short: "Convert a tick to its sqrt price ratio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tick, err := cast.ToInt32E(args[0])
			if err != nil {
				return err
			}
			ratio, err := ammmath.TickToRatio(tick)
			if err != nil {
				return err
			}
			cmd.Printf("tick:       %d\n", tick)
			cmd.Printf("compact:    %d\n", uint64(ratio))
			cmd.Printf("fixed64128: %s\n", ratio.Fixed())
			return nil
		},
	}
}

func ratioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratio <compact>",
		Short: "Convert a compact sqrt price ratio back to a tick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := cast.ToUint64E(args[0])
			if err != nil {
				return err
			}
			tick, err := ammmath.RatioToTick(ammmath.SqrtRatio(raw))
			if err != nil {
				return err
			}
			cmd.Printf("compact: %d\n", raw)
			cmd.Printf("tick:    %d\n", tick)
			return nil
		},
	}
}

func quoteCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("AMMSIM")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against a synthetic single-position pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return runQuote(cmd, v)
		},
	}
	flags := cmd.Flags()
	flags.Uint64("fee", 0, "swap fee rate in Q0.64 fixed point")
	flags.Uint32("spacing", 1, "tick spacing, 0 for a stableswap pool")
	flags.Int32("tick", 0, "initial pool tick")
	flags.Int32("lower", -1000, "position lower bound")
	flags.Int32("upper", 1000, "position upper bound")
	flags.Int64("liquidity", 1_000_000_000, "position liquidity")
	flags.String("amount", "1000", "specified amount, negative for exact output")
	flags.Bool("token1", false, "specify the amount in token1 instead of token0")
	return cmd
}

func runQuote(cmd *cobra.Command, v *viper.Viper) error {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return err
	}
	k := keeper.NewKeeper(storeKey, simBank{}, log.NewNopLogger())
	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	amount, ok := sdkmath.NewIntFromString(v.GetString("amount"))
	if !ok {
		return fmt.Errorf("invalid amount %q", v.GetString("amount"))
	}
	key := types.PoolKey{
		Token0: "token0",
		Token1: "token1",
		Config: types.PoolConfig{
			Fee:         v.GetUint64("fee"),
			TickSpacing: cast.ToUint32(v.GetUint("spacing")),
		},
	}
	if _, err := k.InitializePool(ctx, key, cast.ToInt32(v.GetInt("tick"))); err != nil {
		return err
	}

	bounds := types.Bounds{
		Lower: cast.ToInt32(v.GetInt("lower")),
		Upper: cast.ToInt32(v.GetInt("upper")),
	}
	if key.Config.IsStable() {
		bounds = key.Config.ActiveRange()
	}
	owner := sdk.AccAddress(make([]byte, 20)).String()
	err := k.Lock(ctx, owner, func(ctx sdk.Context) error {
		delta, err := k.UpdatePosition(ctx, key, nil, bounds, sdkmath.NewInt(v.GetInt64("liquidity")))
		if err != nil {
			return err
		}
		if delta.Amount0.IsPositive() {
			if err := k.Pay(ctx, key.Token0, delta.Amount0); err != nil {
				return err
			}
		}
		if delta.Amount1.IsPositive() {
			return k.Pay(ctx, key.Token1, delta.Amount1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	result, err := k.QuoteSwap(ctx, key, types.SwapParams{
		Amount:   amount,
		IsToken1: v.GetBool("token1"),
	})
	if err != nil {
		return err
	}
	cmd.Printf("delta token0: %s\n", result.Delta.Amount0)
	cmd.Printf("delta token1: %s\n", result.Delta.Amount1)
	cmd.Printf("fees paid:    %s\n", result.FeesPaid)
	cmd.Printf("end tick:     %d\n", result.StateAfter.Tick)
	cmd.Printf("end ratio:    %d\n", uint64(result.StateAfter.SqrtRatio))
	return nil
}

// simBank grants every transfer so quotes never fail on funding.
type simBank struct{}

func (simBank) GetBalance(_ context.Context, _ sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, sdkmath.ZeroInt())
}

func (simBank) SendCoinsFromAccountToModule(context.Context, sdk.AccAddress, string, sdk.Coins) error {
	return nil
}

func (simBank) SendCoinsFromModuleToAccount(context.Context, string, sdk.AccAddress, sdk.Coins) error {
	return nil
}
