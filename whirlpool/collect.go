package whirlpool

import (
	"bytes"
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	solanax "github.com/krazyTry/whirlpool-go/solana"
	"github.com/krazyTry/whirlpool-go/whirlpool/helpers"
	"github.com/krazyTry/whirlpool-go/whirlpool/math"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// BuildCollectFeesV2Instruction encodes a collect_fees_v2 instruction.
func (c *Client) BuildCollectFeesV2Instruction(params *LiquidityInstructionParams) (solanago.Instruction, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(collectFeesV2Discriminator, false); err != nil {
		return nil, err
	}
	// remaining_accounts_info: None
	if err := enc.WriteOption(false); err != nil {
		return nil, err
	}

	accounts := solanago.AccountMetaSlice{}
	accounts.Append(solanago.NewAccountMeta(params.Whirlpool, false, false))
	accounts.Append(solanago.NewAccountMeta(params.PositionAuthority, false, true))
	accounts.Append(solanago.NewAccountMeta(params.Position, true, false))
	accounts.Append(solanago.NewAccountMeta(params.PositionTokenAccount, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenMintA, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenMintB, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenOwnerAccountA, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenVaultA, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenOwnerAccountB, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenVaultB, true, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenProgramA, false, false))
	accounts.Append(solanago.NewAccountMeta(params.TokenProgramB, false, false))
	accounts.Append(solanago.NewAccountMeta(MemoProgramID, false, false))

	return solanago.NewInstruction(c.ProgramID, accounts, buf.Bytes()), nil
}

// CollectRewardInstructionParams are the accounts of one collect_reward_v2
// call; each initialized reward slot needs its own instruction.
type CollectRewardInstructionParams struct {
	Whirlpool            solanago.PublicKey
	PositionAuthority    solanago.PublicKey
	Position             solanago.PublicKey
	PositionTokenAccount solanago.PublicKey
	RewardOwnerAccount   solanago.PublicKey
	RewardMint           solanago.PublicKey
	RewardVault          solanago.PublicKey
	RewardTokenProgram   solanago.PublicKey
	RewardIndex          uint8
}

// BuildCollectRewardV2Instruction encodes a collect_reward_v2 instruction.
func (c *Client) BuildCollectRewardV2Instruction(params *CollectRewardInstructionParams) (solanago.Instruction, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(collectRewardV2Discriminator, false); err != nil {
		return nil, err
	}
	if err := enc.Encode(params.RewardIndex); err != nil {
		return nil, err
	}
	// remaining_accounts_info: None
	if err := enc.WriteOption(false); err != nil {
		return nil, err
	}

	accounts := solanago.AccountMetaSlice{}
	accounts.Append(solanago.NewAccountMeta(params.Whirlpool, false, false))
	accounts.Append(solanago.NewAccountMeta(params.PositionAuthority, false, true))
	accounts.Append(solanago.NewAccountMeta(params.Position, true, false))
	accounts.Append(solanago.NewAccountMeta(params.PositionTokenAccount, false, false))
	accounts.Append(solanago.NewAccountMeta(params.RewardOwnerAccount, true, false))
	accounts.Append(solanago.NewAccountMeta(params.RewardMint, false, false))
	accounts.Append(solanago.NewAccountMeta(params.RewardVault, true, false))
	accounts.Append(solanago.NewAccountMeta(params.RewardTokenProgram, false, false))
	accounts.Append(solanago.NewAccountMeta(MemoProgramID, false, false))

	return solanago.NewInstruction(c.ProgramID, accounts, buf.Bytes()), nil
}

// BuildUpdateFeesAndRewardsInstruction encodes an update_fees_and_rewards
// instruction, which refreshes a position's accrual checkpoints on chain.
func (c *Client) BuildUpdateFeesAndRewardsInstruction(whirlpool, position, tickArrayLower, tickArrayUpper solanago.PublicKey) (solanago.Instruction, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(updateFeesAndRewardsDiscriminator, false); err != nil {
		return nil, err
	}

	accounts := solanago.AccountMetaSlice{}
	accounts.Append(solanago.NewAccountMeta(whirlpool, true, false))
	accounts.Append(solanago.NewAccountMeta(position, true, false))
	accounts.Append(solanago.NewAccountMeta(tickArrayLower, false, false))
	accounts.Append(solanago.NewAccountMeta(tickArrayUpper, false, false))

	return solanago.NewInstruction(c.ProgramID, accounts, buf.Bytes()), nil
}

// CollectFeesInstructions builds the instruction list to harvest a
// position's accrued trade fees: checkpoint refresh, token account
// creation, the collect, and unwrap cleanup for a native side.
func (c *Client) CollectFeesInstructions(ctx context.Context, owner, positionAddress solanago.PublicKey) ([]solanago.Instruction, error) {
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

	// no checkpoint refresh for an empty position; the program rejects it
	if position.Liquidity.BigInt().Sign() > 0 {
		updateIx, err := c.BuildUpdateFeesAndRewardsInstruction(position.Whirlpool, positionAddress, params.TickArrayLower, params.TickArrayUpper)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, updateIx)
	}

	collectIx, err := c.BuildCollectFeesV2Instruction(params)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, collectIx)

	if pool.TokenMintA.Equals(helpers.NativeMint) || pool.TokenMintB.Equals(helpers.NativeMint) {
		closeIx, err := helpers.UnwrapSOLInstruction(owner, owner)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, closeIx)
	}

	return solanax.MergeInstructions(instructions), nil
}

// CollectRewardsInstructions builds one collect_reward_v2 per initialized
// reward slot, preceded by a single checkpoint refresh.
func (c *Client) CollectRewardsInstructions(ctx context.Context, owner, positionAddress solanago.PublicKey) ([]solanago.Instruction, error) {
	position, err := c.GetPosition(ctx, positionAddress)
	if err != nil {
		return nil, err
	}
	pool, err := c.GetWhirlpool(ctx, position.Whirlpool)
	if err != nil {
		return nil, err
	}

	positionTokenProgram, err := c.positionTokenProgram(ctx, position.PositionMint)
	if err != nil {
		return nil, err
	}
	positionTokenAccount, err := helpers.FindAssociatedTokenAddress(owner, position.PositionMint, positionTokenProgram)
	if err != nil {
		return nil, err
	}

	var instructions []solanago.Instruction

	if position.Liquidity.BigInt().Sign() > 0 {
		tickArrayLower := DeriveTickArrayAddress(position.Whirlpool, math.TickArrayStartIndex(position.TickLowerIndex, pool.TickSpacing))
		tickArrayUpper := DeriveTickArrayAddress(position.Whirlpool, math.TickArrayStartIndex(position.TickUpperIndex, pool.TickSpacing))
		updateIx, err := c.BuildUpdateFeesAndRewardsInstruction(position.Whirlpool, positionAddress, tickArrayLower, tickArrayUpper)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, updateIx)
	}

	var rewardMints []solanago.PublicKey
	for i := 0; i < shared.NumRewards; i++ {
		if pool.RewardInfos[i].Initialized() {
			rewardMints = append(rewardMints, pool.RewardInfos[i].Mint)
		}
	}
	if len(rewardMints) == 0 {
		return nil, fmt.Errorf("whirlpool %s has no initialized rewards", position.Whirlpool)
	}
	rewardTokens, err := solanax.GetMultipleToken(ctx, c.Client, c.Commitment, rewardMints...)
	if err != nil {
		return nil, err
	}
	rewardProgram := make(map[solanago.PublicKey]solanago.PublicKey, len(rewardTokens))
	for i, tok := range rewardTokens {
		if tok == nil {
			return nil, fmt.Errorf("reward mint %s not found", rewardMints[i])
		}
		rewardProgram[rewardMints[i]] = tok.Owner
	}

	for i := 0; i < shared.NumRewards; i++ {
		reward := pool.RewardInfos[i]
		if !reward.Initialized() {
			continue
		}

		rewardATA, createIx, err := helpers.GetOrCreateATAInstruction(ctx, c.Client, reward.Mint, owner, owner, rewardProgram[reward.Mint])
		if err != nil {
			return nil, err
		}
		if createIx != nil {
			instructions = append(instructions, createIx)
		}

		ix, err := c.BuildCollectRewardV2Instruction(&CollectRewardInstructionParams{
			Whirlpool:            position.Whirlpool,
			PositionAuthority:    owner,
			Position:             positionAddress,
			PositionTokenAccount: positionTokenAccount,
			RewardOwnerAccount:   rewardATA,
			RewardMint:           reward.Mint,
			RewardVault:          reward.Vault,
			RewardTokenProgram:   rewardProgram[reward.Mint],
			RewardIndex:          uint8(i),
		})
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ix)
	}

	return solanax.MergeInstructions(instructions), nil
}
