package whirlpool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	solanax "github.com/krazyTry/whirlpool-go/solana"
	"github.com/krazyTry/whirlpool-go/u128"
	"github.com/krazyTry/whirlpool-go/whirlpool/helpers"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// ErrTransferHookNotSupported is returned when a pool mint carries a
// Token-2022 transfer hook. The hook's extra accounts would have to ride in
// the remaining-accounts tail, which this builder does not populate.
var ErrTransferHookNotSupported = errors.New("whirlpool: transfer hook mints require extra accounts")

// SwapV2InstructionParams are the raw arguments and accounts of a swap_v2
// instruction. Use SwapInstructions for the common case; this exists for
// callers that manage their own accounts.
type SwapV2InstructionParams struct {
	Amount                 uint64
	OtherAmountThreshold   uint64
	SqrtPriceLimit         *big.Int
	AmountSpecifiedIsInput bool
	AToB                   bool

	TokenAuthority     solanago.PublicKey
	Whirlpool          solanago.PublicKey
	TokenProgramA      solanago.PublicKey
	TokenProgramB      solanago.PublicKey
	TokenMintA         solanago.PublicKey
	TokenMintB         solanago.PublicKey
	TokenOwnerAccountA solanago.PublicKey
	TokenOwnerAccountB solanago.PublicKey
	TokenVaultA        solanago.PublicKey
	TokenVaultB        solanago.PublicKey
	TickArrays         [tickArraysPerSwap]solanago.PublicKey
	Oracle             solanago.PublicKey
}

// BuildSwapV2Instruction encodes a swap_v2 instruction.
func (c *Client) BuildSwapV2Instruction(params *SwapV2InstructionParams) (solanago.Instruction, error) {
	limit := params.SqrtPriceLimit
	if limit == nil || limit.Sign() == 0 {
		if params.AToB {
			limit = shared.MinSqrtPrice
		} else {
			limit = shared.MaxSqrtPrice
		}
	}
	if limit.BitLen() > 128 {
		return nil, fmt.Errorf("sqrt price limit out of range: %s", limit)
	}
	sqrtPriceLimit := u128.FromBig(limit)

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(swapV2Discriminator, false); err != nil {
		return nil, err
	}
	if err := enc.Encode(params.Amount); err != nil {
		return nil, err
	}
	if err := enc.Encode(params.OtherAmountThreshold); err != nil {
		return nil, err
	}
	if err := enc.Encode(sqrtPriceLimit.Lo); err != nil {
		return nil, err
	}
	if err := enc.Encode(sqrtPriceLimit.Hi); err != nil {
		return nil, err
	}
	if err := enc.Encode(params.AmountSpecifiedIsInput); err != nil {
		return nil, err
	}
	if err := enc.Encode(params.AToB); err != nil {
		return nil, err
	}
	// remaining_accounts_info: None
	if err := enc.WriteOption(false); err != nil {
		return nil, err
	}

	accounts := solanago.AccountMetaSlice{}
	accounts.Append(solanago.NewAccountMeta(params.TokenProgramA, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenProgramB, false, false))
	accounts.Append(solanago.NewAccountMeta(MemoProgramID, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenAuthority, false, true))
	accounts.Append(solanago.NewAccountMeta(params.Whirlpool, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenMintA, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenMintB, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenOwnerAccountA, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenVaultA, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenOwnerAccountB, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenVaultB, true, false))
	for _, tickArray := range params.TickArrays {
		accounts.Append(solanago.NewAccountMeta(tickArray, true, false))
	}
	accounts.Append(solanago.NewAccountMeta(params.Oracle, true, false))

	return solanago.NewInstruction(c.ProgramID, accounts, buf.Bytes()), nil
}

// SwapInstructions turns a quote into the full instruction list: token
// account creation, SOL wrapping when a side is the native mint, the swap
// itself, and unwrap cleanup. The owner pays for any created accounts.
func (c *Client) SwapInstructions(ctx context.Context, owner solanago.PublicKey, result *SwapQuoteResult) ([]solanago.Instruction, error) {
	if result.Quote.TransferHookAccountsRequired {
		return nil, ErrTransferHookNotSupported
	}

	pool := result.PoolState
	params := result.Params

	var tokenInfoA, tokenInfoB *helpers.TokenInfo
	if params.AToB {
		tokenInfoA, tokenInfoB = result.InputTokenInfo, result.OutputTokenInfo
	} else {
		tokenInfoA, tokenInfoB = result.OutputTokenInfo, result.InputTokenInfo
	}

	var instructions []solanago.Instruction

	ataA, createA, err := helpers.GetOrCreateATAInstruction(ctx, c.Client, pool.TokenMintA, owner, owner, tokenInfoA.Owner)
	if err != nil {
		return nil, err
	}
	if createA != nil {
		instructions = append(instructions, createA)
	}
	ataB, createB, err := helpers.GetOrCreateATAInstruction(ctx, c.Client, pool.TokenMintB, owner, owner, tokenInfoB.Owner)
	if err != nil {
		return nil, err
	}
	if createB != nil {
		instructions = append(instructions, createB)
	}

	// fund the wrapped-SOL account when the input side is native
	inputIsA := params.AToB
	if inputIsA && pool.TokenMintA.Equals(helpers.NativeMint) {
		instructions = append(instructions, helpers.WrapSOLInstruction(owner, ataA, result.Quote.EstimatedAmountIn.Uint64())...)
	}
	if !inputIsA && pool.TokenMintB.Equals(helpers.NativeMint) {
		instructions = append(instructions, helpers.WrapSOLInstruction(owner, ataB, result.Quote.EstimatedAmountIn.Uint64())...)
	}

	var tickArrays [tickArraysPerSwap]solanago.PublicKey
	for i := range tickArrays {
		if i < len(result.TickArrayAddresses) {
			tickArrays[i] = result.TickArrayAddresses[i]
		} else {
			// swap_v2 always takes three arrays; repeat the last
			// one when the window hits the tick domain edge
			tickArrays[i] = tickArrays[i-1]
		}
	}

	swapIx, err := c.BuildSwapV2Instruction(&SwapV2InstructionParams{
		Amount:                 params.Amount.Uint64(),
		OtherAmountThreshold:   result.Quote.OtherAmountThreshold.Uint64(),
		SqrtPriceLimit:         params.SqrtPriceLimit,
		AmountSpecifiedIsInput: params.SwapMode == shared.SwapModeExactIn,
		AToB:                   params.AToB,
		TokenAuthority:         owner,
		Whirlpool:              params.Pool,
		TokenProgramA:          tokenInfoA.Owner,
		TokenProgramB:          tokenInfoB.Owner,
		TokenMintA:             pool.TokenMintA,
		TokenMintB:             pool.TokenMintB,
		TokenOwnerAccountA:     ataA,
		TokenOwnerAccountB:     ataB,
		TokenVaultA:            pool.TokenVaultA,
		TokenVaultB:            pool.TokenVaultB,
		TickArrays:             tickArrays,
		Oracle:                 DeriveOracleAddress(params.Pool),
	})
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, swapIx)

	if pool.TokenMintA.Equals(helpers.NativeMint) || pool.TokenMintB.Equals(helpers.NativeMint) {
		closeIx, err := helpers.UnwrapSOLInstruction(owner, owner)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, closeIx)
	}

	return solanax.MergeInstructions(instructions), nil
}
