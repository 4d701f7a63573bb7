package whirlpool

import (
	"bytes"
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	solanax "github.com/krazyTry/whirlpool-go/solana"
	"github.com/krazyTry/whirlpool-go/u128"
	"github.com/krazyTry/whirlpool-go/whirlpool/helpers"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
	"github.com/krazyTry/whirlpool-go/whirlpool/state"
)

// LiquidityInstructionParams are the accounts shared by the
// increase_liquidity_v2 and decrease_liquidity_v2 builders.
type LiquidityInstructionParams struct {
	Whirlpool            solanago.PublicKey
	PositionAuthority    solanago.PublicKey
	Position             solanago.PublicKey
	PositionTokenAccount solanago.PublicKey
	TokenProgramA        solanago.PublicKey
	TokenProgramB        solanago.PublicKey
	TokenMintA           solanago.PublicKey
	TokenMintB           solanago.PublicKey
	TokenOwnerAccountA   solanago.PublicKey
	TokenOwnerAccountB   solanago.PublicKey
	TokenVaultA          solanago.PublicKey
	TokenVaultB          solanago.PublicKey
	TickArrayLower       solanago.PublicKey
	TickArrayUpper       solanago.PublicKey
}

func encodeLiquidityData(discriminator []byte, liquidityDelta bin.Uint128, tokenLimitA, tokenLimitB uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(discriminator, false); err != nil {
		return nil, err
	}
	if err := enc.Encode(liquidityDelta.Lo); err != nil {
		return nil, err
	}
	if err := enc.Encode(liquidityDelta.Hi); err != nil {
		return nil, err
	}
	if err := enc.Encode(tokenLimitA); err != nil {
		return nil, err
	}
	if err := enc.Encode(tokenLimitB); err != nil {
		return nil, err
	}
	// remaining_accounts_info: None
	if err := enc.WriteOption(false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Client) buildLiquidityV2Instruction(discriminator []byte, params *LiquidityInstructionParams, liquidityDelta bin.Uint128, tokenLimitA, tokenLimitB uint64) (solanago.Instruction, error) {
	data, err := encodeLiquidityData(discriminator, liquidityDelta, tokenLimitA, tokenLimitB)
	if err != nil {
		return nil, err
	}

	accounts := solanago.AccountMetaSlice{}
	accounts.Append(solanago.NewAccountMeta(params.Whirlpool, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenProgramA, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenProgramB, false, false))
	accounts.Append(solanago.NewAccountMeta(MemoProgramID, false, false))
	accounts.Append(solanago.NewAccountMeta(params.PositionAuthority, false, true))
	accounts.Append(solanago.NewAccountMeta(params.Position, true, false))
	accounts.Append(solanago.NewAccountMeta(params.PositionTokenAccount, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenMintA, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenMintB, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenOwnerAccountA, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenOwnerAccountB, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenVaultA, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenVaultB, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TickArrayLower, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TickArrayUpper, true, false))

	return solanago.NewInstruction(c.ProgramID, accounts, data), nil
}

// BuildIncreaseLiquidityV2Instruction encodes an increase_liquidity_v2
// instruction. The token limits are the maximum deposits.
func (c *Client) BuildIncreaseLiquidityV2Instruction(params *LiquidityInstructionParams, liquidityDelta bin.Uint128, tokenMaxA, tokenMaxB uint64) (solanago.Instruction, error) {
	return c.buildLiquidityV2Instruction(increaseLiquidityV2Discriminator, params, liquidityDelta, tokenMaxA, tokenMaxB)
}

// BuildDecreaseLiquidityV2Instruction encodes a decrease_liquidity_v2
// instruction. The token limits are the minimum withdrawals.
func (c *Client) BuildDecreaseLiquidityV2Instruction(params *LiquidityInstructionParams, liquidityDelta bin.Uint128, tokenMinA, tokenMinB uint64) (solanago.Instruction, error) {
	return c.buildLiquidityV2Instruction(decreaseLiquidityV2Discriminator, params, liquidityDelta, tokenMinA, tokenMinB)
}

// positionAccounts resolves the account set both liquidity instructions and
// the collect instructions share for one position.
func (c *Client) positionAccounts(ctx context.Context, owner, positionAddress solanago.PublicKey, position *state.Position, pool *state.Whirlpool, tokenInfoA, tokenInfoB *helpers.TokenInfo, instructions *[]solanago.Instruction) (*LiquidityInstructionParams, error) {
	positionTokenProgram, err := c.positionTokenProgram(ctx, position.PositionMint)
	if err != nil {
		return nil, err
	}
	positionTokenAccount, err := helpers.FindAssociatedTokenAddress(owner, position.PositionMint, positionTokenProgram)
	if err != nil {
		return nil, err
	}

	ataA, createA, err := helpers.GetOrCreateATAInstruction(ctx, c.Client, pool.TokenMintA, owner, owner, tokenInfoA.Owner)
	if err != nil {
		return nil, err
	}
	if createA != nil {
		*instructions = append(*instructions, createA)
	}
	ataB, createB, err := helpers.GetOrCreateATAInstruction(ctx, c.Client, pool.TokenMintB, owner, owner, tokenInfoB.Owner)
	if err != nil {
		return nil, err
	}
	if createB != nil {
		*instructions = append(*instructions, createB)
	}

	return &LiquidityInstructionParams{
		Whirlpool:            position.Whirlpool,
		PositionAuthority:    owner,
		Position:             positionAddress,
		PositionTokenAccount: positionTokenAccount,
		TokenProgramA:        tokenInfoA.Owner,
		TokenProgramB:        tokenInfoB.Owner,
		TokenMintA:           pool.TokenMintA,
		TokenMintB:           pool.TokenMintB,
		TokenOwnerAccountA:   ataA,
		TokenOwnerAccountB:   ataB,
		TokenVaultA:          pool.TokenVaultA,
		TokenVaultB:          pool.TokenVaultB,
		TickArrayLower:       DeriveTickArrayAddress(position.Whirlpool, math.TickArrayStartIndex(position.TickLowerIndex, pool.TickSpacing)),
		TickArrayUpper:       DeriveTickArrayAddress(position.Whirlpool, math.TickArrayStartIndex(position.TickUpperIndex, pool.TickSpacing)),
	}, nil
}

// positionTokenProgram determines which token program minted the position
// NFT: newer positions live under Token-2022, older ones under SPL Token.
func (c *Client) positionTokenProgram(ctx context.Context, positionMint solanago.PublicKey) (solanago.PublicKey, error) {
	out, err := solanax.GetAccountInfo(ctx, c.Client, c.Commitment, positionMint)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	if out == nil || out.Value == nil {
		return solanago.PublicKey{}, fmt.Errorf("position mint %s not found", positionMint)
	}
	return out.Value.Owner, nil
}

// IncreaseLiquidityInstructions builds the deposit instruction list for a
// position from a quote.
func (c *Client) IncreaseLiquidityInstructions(ctx context.Context, owner, positionAddress solanago.PublicKey, quote *shared.IncreaseLiquidityQuote) ([]solanago.Instruction, error) {
	position, err := c.GetPosition(ctx, positionAddress)
	if err != nil {
		return nil, err
	}
	pool, tokenInfoA, tokenInfoB, err := c.poolWithTokenInfos(ctx, position.Whirlpool)
	if err != nil {
		return nil, err
	}

	var instructions []solanago.Instruction
	params, err := c.positionAccounts(ctx, owner, positionAddress, position, pool, tokenInfoA, tokenInfoB, &instructions)
	if err != nil {
		return nil, err
	}

	if pool.TokenMintA.Equals(helpers.NativeMint) {
		instructions = append(instructions, helpers.WrapSOLInstruction(owner, params.TokenOwnerAccountA, quote.TokenMaxA.Uint64())...)
	}
	if pool.TokenMintB.Equals(helpers.NativeMint) {
		instructions = append(instructions, helpers.WrapSOLInstruction(owner, params.TokenOwnerAccountB, quote.TokenMaxB.Uint64())...)
	}

	ix, err := c.BuildIncreaseLiquidityV2Instruction(params, u128.FromBig(quote.LiquidityDelta), quote.TokenMaxA.Uint64(), quote.TokenMaxB.Uint64())
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, ix)

	if pool.TokenMintA.Equals(helpers.NativeMint) || pool.TokenMintB.Equals(helpers.NativeMint) {
		closeIx, err := helpers.UnwrapSOLInstruction(owner, owner)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, closeIx)
	}

	return solanax.MergeInstructions(instructions), nil
}

// DecreaseLiquidityInstructions builds the withdrawal instruction list for a
// position from a quote.
func (c *Client) DecreaseLiquidityInstructions(ctx context.Context, owner, positionAddress solanago.PublicKey, quote *shared.DecreaseLiquidityQuote) ([]solanago.Instruction, error) {
	position, err := c.GetPosition(ctx, positionAddress)
	if err != nil {
		return nil, err
	}
	pool, tokenInfoA, tokenInfoB, err := c.poolWithTokenInfos(ctx, position.Whirlpool)
	if err != nil {
		return nil, err
	}

	var instructions []solanago.Instruction
	params, err := c.positionAccounts(ctx, owner, positionAddress, position, pool, tokenInfoA, tokenInfoB, &instructions)
	if err != nil {
		return nil, err
	}

	ix, err := c.BuildDecreaseLiquidityV2Instruction(params, u128.FromBig(quote.LiquidityDelta), quote.TokenMinA.Uint64(), quote.TokenMinB.Uint64())
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, ix)

	if pool.TokenMintA.Equals(helpers.NativeMint) || pool.TokenMintB.Equals(helpers.NativeMint) {
		closeIx, err := helpers.UnwrapSOLInstruction(owner, owner)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, closeIx)
	}

	return solanax.MergeInstructions(instructions), nil
}
