package whirlpool

import (
	"context"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	solanax "github.com/krazyTry/whirlpool-go/solana"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
	"github.com/krazyTry/whirlpool-go/whirlpool/state"
)

// Client talks to the whirlpool program over RPC: account fetch, quote
// assembly and instruction building.
type Client struct {
	Client     *rpc.Client
	Commitment rpc.CommitmentType
	ProgramID  solanago.PublicKey
}

type Option func(*Client)

func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) { c.Commitment = commitment }
}

// WithProgramID points the client at a fork of the program.
func WithProgramID(programID solanago.PublicKey) Option {
	return func(c *Client) { c.ProgramID = programID }
}

func NewClient(rpcClient *rpc.Client, opts ...Option) *Client {
	c := &Client{
		Client:     rpcClient,
		Commitment: rpc.CommitmentFinalized,
		ProgramID:  ProgramID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetWhirlpool fetches and decodes a pool account.
func (c *Client) GetWhirlpool(ctx context.Context, pool solanago.PublicKey) (*state.Whirlpool, error) {
	out, err := solanax.GetAccountInfo(ctx, c.Client, c.Commitment, pool)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("whirlpool %s not found", pool)
	}
	return state.ParseWhirlpool(out.Value.Data.GetBinary())
}

// GetOracle fetches the pool's adaptive-fee oracle. Pools on a static fee
// tier have none; that is returned as (nil, nil).
func (c *Client) GetOracle(ctx context.Context, pool solanago.PublicKey) (*state.Oracle, error) {
	addr := DeriveOracleAddress(pool)
	out, err := solanax.GetAccountInfo(ctx, c.Client, c.Commitment, addr)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, nil
	}
	return state.ParseOracle(out.Value.Data.GetBinary())
}

// GetPosition fetches and decodes a position account.
func (c *Client) GetPosition(ctx context.Context, position solanago.PublicKey) (*state.Position, error) {
	out, err := solanax.GetAccountInfo(ctx, c.Client, c.Commitment, position)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("position %s not found", position)
	}
	return state.ParsePosition(out.Value.Data.GetBinary())
}

// GetFeeTier fetches the fee tier for a config and tick spacing.
func (c *Client) GetFeeTier(ctx context.Context, whirlpoolsConfig solanago.PublicKey, tickSpacing uint16) (*state.FeeTier, error) {
	addr := DeriveFeeTierAddress(whirlpoolsConfig, tickSpacing)
	out, err := solanax.GetAccountInfo(ctx, c.Client, c.Commitment, addr)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("fee tier %s not found", addr)
	}
	return state.ParseFeeTier(out.Value.Data.GetBinary())
}

// swapTickArrayStartIndexes is the window of arrays one swap can traverse,
// beginning with the array holding the current tick and continuing in trade
// direction.
func swapTickArrayStartIndexes(tickCurrentIndex int32, tickSpacing uint16, aToB bool) []int32 {
	span := shared.FullTickArraySpan(tickSpacing)
	start := math.TickArrayStartIndex(tickCurrentIndex, tickSpacing)

	out := make([]int32, 0, tickArraysPerSwap)
	for i := 0; i < tickArraysPerSwap; i++ {
		var s int32
		if aToB {
			s = start - int32(i)*span
		} else {
			s = start + int32(i)*span
		}
		if s < math.TickArrayStartIndex(shared.MinTickIndex, tickSpacing) ||
			s > math.TickArrayStartIndex(shared.MaxTickIndex, tickSpacing) {
			break
		}
		out = append(out, s)
	}
	return out
}

// GetTickArraysForSwap fetches the tick arrays a swap in the given direction
// can traverse. Accounts that do not exist on chain come back as nil map
// entries: windows with no initialized ticks, which the walker skips. Every
// fetched array must belong to the pool.
func (c *Client) GetTickArraysForSwap(ctx context.Context, pool solanago.PublicKey, poolState *state.Whirlpool, aToB bool) (map[int32]*math.TickArray, []solanago.PublicKey, error) {
	starts := swapTickArrayStartIndexes(poolState.TickCurrentIndex, poolState.TickSpacing, aToB)

	addresses := make([]solanago.PublicKey, len(starts))
	for i, s := range starts {
		addresses[i] = DeriveTickArrayAddress(pool, s)
	}

	outs, err := solanax.GetMultipleAccountInfo(ctx, c.Client, c.Commitment, addresses)
	if err != nil {
		return nil, nil, err
	}

	arrays := make(map[int32]*math.TickArray, len(starts))
	for i, out := range outs.Value {
		if out == nil {
			arrays[starts[i]] = nil
			continue
		}
		ta, err := state.ParseTickArray(out.Data.GetBinary())
		if err != nil {
			return nil, nil, err
		}
		if !ta.Whirlpool.Equals(pool) {
			return nil, nil, fmt.Errorf("tick array %s: %w", addresses[i], shared.ErrDifferentWhirlpoolTickArray)
		}
		arrays[ta.StartTickIndex] = ta.Facade()
	}
	return arrays, addresses, nil
}

// GetTickArrayForTick fetches the single array window holding one tick,
// used for position boundary lookups.
func (c *Client) GetTickArrayForTick(ctx context.Context, pool solanago.PublicKey, tickIndex int32, tickSpacing uint16) (*math.TickArray, error) {
	start := math.TickArrayStartIndex(tickIndex, tickSpacing)
	addr := DeriveTickArrayAddress(pool, start)
	out, err := solanax.GetAccountInfo(ctx, c.Client, c.Commitment, addr)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("tick array %s not found", addr)
	}
	ta, err := state.ParseTickArray(out.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	if !ta.Whirlpool.Equals(pool) {
		return nil, fmt.Errorf("tick array %s: %w", addr, shared.ErrDifferentWhirlpoolTickArray)
	}
	return ta.Facade(), nil
}

// GetVaultBalances reads both vault token balances in one round trip.
func (c *Client) GetVaultBalances(ctx context.Context, poolState *state.Whirlpool) (amountA, amountB uint64, err error) {
	outs, err := solanax.GetMultipleAccountInfo(ctx, c.Client, c.Commitment, []solanago.PublicKey{poolState.TokenVaultA, poolState.TokenVaultB})
	if err != nil {
		return 0, 0, err
	}
	for i, out := range outs.Value {
		if out == nil {
			return 0, 0, fmt.Errorf("vault account missing")
		}
		acc, err := new(solanax.AccountLayout).Decode(out.Data.GetBinary())
		if err != nil {
			return 0, 0, err
		}
		if i == 0 {
			amountA = acc.Amount
		} else {
			amountB = acc.Amount
		}
	}
	return amountA, amountB, nil
}
