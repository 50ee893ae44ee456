package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	vcmath "github.com/launchcurve/launchcurve-go/virtualcurve/math"
	"github.com/launchcurve/launchcurve-go/virtualcurve/provider"
	"github.com/launchcurve/launchcurve-go/virtualcurve/shared"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	root := &cobra.Command{
		Use:          "curvequote",
		Short:        "Quote swaps against a bonding curve pool snapshot",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("snapshot", "", "pool snapshot JSON path")
	root.PersistentFlags().String("pool", "", "pool address (base58)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	exactInCmd := &cobra.Command{
		Use:   "exact-in",
		Short: "Quote an exact-input swap",
		RunE:  runQuote(shared.SwapModeExactIn),
	}
	partialFillCmd := &cobra.Command{
		Use:   "partial-fill",
		Short: "Quote an exact-input swap that may leave input unspent",
		RunE:  runQuote(shared.SwapModePartialFill),
	}
	exactOutCmd := &cobra.Command{
		Use:   "exact-out",
		Short: "Quote an exact-output swap",
		RunE:  runQuote(shared.SwapModeExactOut),
	}
	for _, cmd := range []*cobra.Command{exactInCmd, partialFillCmd, exactOutCmd} {
		cmd.Flags().String("direction", "quote-to-base", "trade direction (base-to-quote or quote-to-base)")
		cmd.Flags().String("amount", "", "swap amount in lamports")
		cmd.Flags().Uint16("slippage-bps", 0, "slippage tolerance in basis points")
		cmd.Flags().Bool("referral", false, "include a referral fee in the quote")
		root.AddCommand(cmd)
	}

	remainingCmd := &cobra.Command{
		Use:   "remaining-curve",
		Short: "Quote the input needed to reach the migration threshold",
		RunE:  runRemainingCurve,
	}
	remainingCmd.Flags().Uint16("slippage-bps", 0, "slippage tolerance in basis points")
	remainingCmd.Flags().Bool("referral", false, "include a referral fee in the quote")
	root.AddCommand(remainingCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runQuote(mode shared.SwapMode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		state, logger, err := loadState(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		direction, err := parseDirection(cmd)
		if err != nil {
			return err
		}
		amountStr, _ := cmd.Flags().GetString("amount")
		amount, ok := new(big.Int).SetString(amountStr, 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("amount must be a positive integer, got %q", amountStr)
		}
		slippageBps, _ := cmd.Flags().GetUint16("slippage-bps")
		hasReferral, _ := cmd.Flags().GetBool("referral")

		logger.Debug("quoting swap",
			zap.Uint8("mode", uint8(mode)),
			zap.Uint8("direction", uint8(direction)),
			zap.String("amount", amount.String()),
			zap.Uint16("slippage_bps", slippageBps),
		)

		var result shared.SwapQuoteResult
		switch mode {
		case shared.SwapModeExactIn:
			result, err = vcmath.SwapQuoteExactIn(state.pool, state.config, direction, amount, slippageBps, hasReferral, state.currentPoint)
		case shared.SwapModePartialFill:
			result, err = vcmath.SwapQuotePartialFill(state.pool, state.config, direction, amount, slippageBps, hasReferral, state.currentPoint)
		case shared.SwapModeExactOut:
			result, err = vcmath.SwapQuoteExactOut(state.pool, state.config, direction, amount, slippageBps, hasReferral, state.currentPoint)
		}
		if err != nil {
			return err
		}
		return printQuote(result)
	}
}

func runRemainingCurve(cmd *cobra.Command, _ []string) error {
	state, logger, err := loadState(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slippageBps, _ := cmd.Flags().GetUint16("slippage-bps")
	hasReferral, _ := cmd.Flags().GetBool("referral")

	result, err := vcmath.SwapQuoteRemainingCurve(state.pool, state.config, slippageBps, hasReferral, state.currentPoint)
	if err != nil {
		return err
	}
	return printQuote(result)
}

type poolState struct {
	config       *shared.PoolConfig
	pool         *shared.VirtualPool
	currentPoint *big.Int
}

func loadState(cmd *cobra.Command) (*poolState, *zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(level)
	if err != nil {
		return nil, nil, err
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	if snapshotPath == "" {
		return nil, nil, fmt.Errorf("snapshot path is required")
	}
	poolStr, _ := cmd.Flags().GetString("pool")
	poolAddress, err := solana.PublicKeyFromBase58(poolStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid pool address %q: %w", poolStr, err)
	}

	snapshot, err := provider.NewSnapshotProvider(snapshotPath, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	config, err := snapshot.PoolConfig(ctx, poolAddress)
	if err != nil {
		return nil, nil, err
	}
	pool, err := snapshot.VirtualPool(ctx, poolAddress)
	if err != nil {
		return nil, nil, err
	}
	currentPoint, err := snapshot.CurrentPoint(ctx, shared.ActivationType(config.ActivationType))
	if err != nil {
		return nil, nil, err
	}

	return &poolState{config: config, pool: pool, currentPoint: currentPoint}, logger, nil
}

func parseDirection(cmd *cobra.Command) (shared.TradeDirection, error) {
	raw, _ := cmd.Flags().GetString("direction")
	switch strings.ToLower(raw) {
	case "base-to-quote":
		return shared.TradeDirectionBaseToQuote, nil
	case "quote-to-base":
		return shared.TradeDirectionQuoteToBase, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", raw)
	}
}

type quoteOutput struct {
	AmountLeft             string `json:"amountLeft"`
	IncludedFeeInputAmount string `json:"includedFeeInputAmount"`
	ExcludedFeeInputAmount string `json:"excludedFeeInputAmount"`
	OutputAmount           string `json:"outputAmount"`
	NextSqrtPrice          string `json:"nextSqrtPrice"`
	TradingFee             string `json:"tradingFee"`
	ProtocolFee            string `json:"protocolFee"`
	ReferralFee            string `json:"referralFee"`
	MinimumAmountOut       string `json:"minimumAmountOut,omitempty"`
	MaximumAmountIn        string `json:"maximumAmountIn,omitempty"`
}

func printQuote(result shared.SwapQuoteResult) error {
	out := quoteOutput{
		AmountLeft:             bigString(result.AmountLeft),
		IncludedFeeInputAmount: bigString(result.IncludedFeeInputAmount),
		ExcludedFeeInputAmount: bigString(result.ExcludedFeeInputAmount),
		OutputAmount:           bigString(result.OutputAmount),
		NextSqrtPrice:          bigString(result.NextSqrtPrice),
		TradingFee:             bigString(result.TradingFee),
		ProtocolFee:            bigString(result.ProtocolFee),
		ReferralFee:            bigString(result.ReferralFee),
	}
	if result.MinimumAmountOut != nil {
		out.MinimumAmountOut = result.MinimumAmountOut.String()
	}
	if result.MaximumAmountIn != nil {
		out.MaximumAmountIn = result.MaximumAmountIn.String()
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
