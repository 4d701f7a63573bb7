package whirlpool

import (
	"context"
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"

	solanax "github.com/krazyTry/whirlpool-go/solana"
	"github.com/krazyTry/whirlpool-go/whirlpool/helpers"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
	"github.com/krazyTry/whirlpool-go/whirlpool/state"
)

// SwapQuoteParams drives GetSwapQuote.
type SwapQuoteParams struct {
	Pool solanago.PublicKey

	// Amount is the input amount for exact-in, the desired output for
	// exact-out, before transfer-fee adjustment.
	Amount   *big.Int
	SwapMode shared.SwapMode
	AToB     bool

	// SqrtPriceLimit of nil means no limit beyond the price domain.
	SqrtPriceLimit *big.Int
	SlippageBps    uint16

	// OtherAmountThreshold, when set, re-checks the fresh quote against a
	// bound the caller pinned from an earlier one: a minimum output for
	// exact-in, a maximum input for exact-out.
	OtherAmountThreshold *big.Int
}

// SwapQuoteResult bundles the quote with the chain state it was computed
// from, so the caller can build the matching instruction without refetching.
type SwapQuoteResult struct {
	Quote     *shared.SwapQuote
	Params    *SwapQuoteParams
	PoolState *state.Whirlpool

	TickArrayAddresses []solanago.PublicKey
	InputTokenInfo     *helpers.TokenInfo
	OutputTokenInfo    *helpers.TokenInfo
	Timestamp          uint64
}

// GetSwapQuote fetches everything a swap simulation needs and runs it.
func (c *Client) GetSwapQuote(ctx context.Context, params *SwapQuoteParams) (*SwapQuoteResult, error) {
	pool, err := c.GetWhirlpool(ctx, params.Pool)
	if err != nil {
		return nil, err
	}

	oracle, err := c.GetOracle(ctx, params.Pool)
	if err != nil {
		return nil, err
	}
	var adaptiveFee *shared.AdaptiveFeeInfo
	if oracle != nil {
		adaptiveFee = oracle.AdaptiveFeeInfo()
	}

	arrays, addresses, err := c.GetTickArraysForSwap(ctx, params.Pool, pool, params.AToB)
	if err != nil {
		return nil, err
	}
	sequence, err := math.NewTickArraySequence(arrays, pool.TickSpacing)
	if err != nil {
		return nil, err
	}

	tokenInfoA, err := helpers.GetTokenInfo(ctx, c.Client, pool.TokenMintA)
	if err != nil {
		return nil, err
	}
	tokenInfoB, err := helpers.GetTokenInfo(ctx, c.Client, pool.TokenMintB)
	if err != nil {
		return nil, err
	}

	timestamp, err := solanax.CurrentTimestamp(ctx, c.Client, c.Commitment)
	if err != nil {
		return nil, err
	}

	inputInfo, outputInfo := tokenInfoA, tokenInfoB
	if !params.AToB {
		inputInfo, outputInfo = tokenInfoB, tokenInfoA
	}

	facade := pool.Facade(adaptiveFee)

	var quote *shared.SwapQuote
	switch params.SwapMode {
	case shared.SwapModeExactIn:
		quote, err = math.SwapQuoteExactInput(facade, sequence, params.Amount, params.AToB, params.SqrtPriceLimit, params.SlippageBps, timestamp, inputInfo, outputInfo, tokenInfoA.Decimals, tokenInfoB.Decimals)
	case shared.SwapModeExactOut:
		quote, err = math.SwapQuoteExactOutput(facade, sequence, params.Amount, params.AToB, params.SqrtPriceLimit, params.SlippageBps, timestamp, inputInfo, outputInfo, tokenInfoA.Decimals, tokenInfoB.Decimals)
	default:
		return nil, fmt.Errorf("unknown swap mode %d", params.SwapMode)
	}
	if err != nil {
		return nil, err
	}
	if err := math.ValidateQuoteThreshold(quote, params.OtherAmountThreshold, params.SwapMode); err != nil {
		return nil, err
	}

	return &SwapQuoteResult{
		Quote:              quote,
		Params:             params,
		PoolState:          pool,
		TickArrayAddresses: addresses,
		InputTokenInfo:     inputInfo,
		OutputTokenInfo:    outputInfo,
		Timestamp:          timestamp,
	}, nil
}

// GetIncreaseLiquidityQuote quotes a deposit into the given tick range,
// sized either by liquidity delta or by a single-token budget.
func (c *Client) GetIncreaseLiquidityQuote(ctx context.Context, poolAddress solanago.PublicKey, lowerTick, upperTick int32, liquidityDelta *big.Int, slippageBps uint16) (*shared.IncreaseLiquidityQuote, *state.Whirlpool, error) {
	pool, tokenInfoA, tokenInfoB, err := c.poolWithTokenInfos(ctx, poolAddress)
	if err != nil {
		return nil, nil, err
	}
	quote, err := math.IncreaseLiquidityQuoteByLiquidity(liquidityDelta, slippageBps, pool.SqrtPrice.BigInt(), lowerTick, upperTick, pool.TickSpacing, tokenInfoA, tokenInfoB)
	if err != nil {
		return nil, nil, err
	}
	return quote, pool, nil
}

// GetIncreaseLiquidityQuoteByInputToken sizes the deposit by how much of one
// token the caller is willing to spend.
func (c *Client) GetIncreaseLiquidityQuoteByInputToken(ctx context.Context, poolAddress solanago.PublicKey, lowerTick, upperTick int32, inputAmount *big.Int, inputIsTokenA bool, slippageBps uint16) (*shared.IncreaseLiquidityQuote, *state.Whirlpool, error) {
	pool, tokenInfoA, tokenInfoB, err := c.poolWithTokenInfos(ctx, poolAddress)
	if err != nil {
		return nil, nil, err
	}
	quote, err := math.IncreaseLiquidityQuoteByInputToken(inputAmount, inputIsTokenA, slippageBps, pool.SqrtPrice.BigInt(), lowerTick, upperTick, pool.TickSpacing, tokenInfoA, tokenInfoB)
	if err != nil {
		return nil, nil, err
	}
	return quote, pool, nil
}

// GetDecreaseLiquidityQuote quotes a withdrawal from an existing position.
func (c *Client) GetDecreaseLiquidityQuote(ctx context.Context, positionAddress solanago.PublicKey, liquidityDelta *big.Int, slippageBps uint16) (*shared.DecreaseLiquidityQuote, *state.Position, *state.Whirlpool, error) {
	position, err := c.GetPosition(ctx, positionAddress)
	if err != nil {
		return nil, nil, nil, err
	}
	pool, tokenInfoA, tokenInfoB, err := c.poolWithTokenInfos(ctx, position.Whirlpool)
	if err != nil {
		return nil, nil, nil, err
	}
	quote, err := math.DecreaseLiquidityQuoteByLiquidity(liquidityDelta, slippageBps, pool.SqrtPrice.BigInt(), position.TickLowerIndex, position.TickUpperIndex, pool.TickSpacing, tokenInfoA, tokenInfoB)
	if err != nil {
		return nil, nil, nil, err
	}
	return quote, position, pool, nil
}

// GetCollectFeesQuote computes the fees a position could collect right now.
// Amounts are net of each mint's transfer fee.
func (c *Client) GetCollectFeesQuote(ctx context.Context, positionAddress solanago.PublicKey) (*shared.CollectFeesQuote, error) {
	position, pool, lowerTick, upperTick, err := c.positionWithBoundaryTicks(ctx, positionAddress)
	if err != nil {
		return nil, err
	}

	quote := math.CollectFeesQuote(position.Facade(), pool.TickCurrentIndex, pool.FeeGrowthGlobalA.BigInt(), pool.FeeGrowthGlobalB.BigInt(), lowerTick, upperTick)

	tokenInfoA, err := helpers.GetTokenInfo(ctx, c.Client, pool.TokenMintA)
	if err != nil {
		return nil, err
	}
	tokenInfoB, err := helpers.GetTokenInfo(ctx, c.Client, pool.TokenMintB)
	if err != nil {
		return nil, err
	}
	quote.FeeOwedA = math.CalculateTransferFeeExcludedAmount(quote.FeeOwedA, tokenInfoA).Amount
	quote.FeeOwedB = math.CalculateTransferFeeExcludedAmount(quote.FeeOwedB, tokenInfoB).Amount
	return quote, nil
}

// GetCollectRewardsQuote computes claimable rewards per slot, extrapolating
// emissions from the pool's last update to the current chain time.
func (c *Client) GetCollectRewardsQuote(ctx context.Context, positionAddress solanago.PublicKey) (*shared.CollectRewardsQuote, error) {
	position, pool, lowerTick, upperTick, err := c.positionWithBoundaryTicks(ctx, positionAddress)
	if err != nil {
		return nil, err
	}

	timestamp, err := solanax.CurrentTimestamp(ctx, c.Client, c.Commitment)
	if err != nil {
		return nil, err
	}

	facade := pool.Facade(nil)
	return math.CollectRewardsQuote(position.Facade(), pool.TickCurrentIndex, lowerTick, upperTick, facade.Rewards, facade.Liquidity, pool.RewardLastUpdatedTimestamp, timestamp), nil
}

func (c *Client) poolWithTokenInfos(ctx context.Context, poolAddress solanago.PublicKey) (*state.Whirlpool, *helpers.TokenInfo, *helpers.TokenInfo, error) {
	pool, err := c.GetWhirlpool(ctx, poolAddress)
	if err != nil {
		return nil, nil, nil, err
	}
	tokenInfoA, err := helpers.GetTokenInfo(ctx, c.Client, pool.TokenMintA)
	if err != nil {
		return nil, nil, nil, err
	}
	tokenInfoB, err := helpers.GetTokenInfo(ctx, c.Client, pool.TokenMintB)
	if err != nil {
		return nil, nil, nil, err
	}
	return pool, tokenInfoA, tokenInfoB, nil
}

func (c *Client) positionWithBoundaryTicks(ctx context.Context, positionAddress solanago.PublicKey) (*state.Position, *state.Whirlpool, *math.Tick, *math.Tick, error) {
	position, err := c.GetPosition(ctx, positionAddress)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pool, err := c.GetWhirlpool(ctx, position.Whirlpool)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	lowerArray, err := c.GetTickArrayForTick(ctx, position.Whirlpool, position.TickLowerIndex, pool.TickSpacing)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	upperArray := lowerArray
	if math.TickArrayStartIndex(position.TickUpperIndex, pool.TickSpacing) != lowerArray.StartTickIndex {
		upperArray, err = c.GetTickArrayForTick(ctx, position.Whirlpool, position.TickUpperIndex, pool.TickSpacing)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	lowerTick, err := tickFromArray(lowerArray, position.TickLowerIndex, pool.TickSpacing)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	upperTick, err := tickFromArray(upperArray, position.TickUpperIndex, pool.TickSpacing)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return position, pool, lowerTick, upperTick, nil
}

func tickFromArray(array *math.TickArray, tickIndex int32, tickSpacing uint16) (*math.Tick, error) {
	offset := (tickIndex - array.StartTickIndex) / int32(tickSpacing)
	if offset < 0 || offset >= int32(len(array.Ticks)) {
		return nil, shared.ErrTickArraySequenceInvalid
	}
	return &array.Ticks[offset], nil
}
