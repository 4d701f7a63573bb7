package helpers

import (
	"context"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// NativeMint is the wrapped SOL mint.
var NativeMint = solanago.WrappedSol

func FindAssociatedTokenAddress(wallet, mint, tokenProgram solanago.PublicKey) (solanago.PublicKey, error) {
	ata, _, err := solanago.FindProgramAddress([][]byte{wallet.Bytes(), tokenProgram.Bytes(), mint.Bytes()}, solanago.SPLAssociatedTokenAccountProgramID)
	return ata, err
}

// GetOrCreateATAInstruction returns the ATA pubkey and a create instruction
// when the account does not exist yet; the instruction is nil otherwise.
func GetOrCreateATAInstruction(ctx context.Context, client *rpc.Client, tokenMint, owner, payer solanago.PublicKey, tokenProgram solanago.PublicKey) (solanago.PublicKey, solanago.Instruction, error) {
	ata, err := FindAssociatedTokenAddress(owner, tokenMint, tokenProgram)
	if err != nil {
		return solanago.PublicKey{}, nil, err
	}
	_, err = client.GetAccountInfo(ctx, ata)
	if err == nil {
		return ata, nil, nil
	}
	ix := CreateAssociatedTokenAccountInstruction(payer, ata, owner, tokenMint, tokenProgram)
	return ata, ix, nil
}

// CreateAssociatedTokenAccountInstruction supports both SPL Token and
// Token-2022 mints.
func CreateAssociatedTokenAccountInstruction(payer, ata, owner, mint, tokenProgram solanago.PublicKey) solanago.Instruction {
	accounts := solanago.AccountMetaSlice{
		solanago.NewAccountMeta(payer, true, true),
		solanago.NewAccountMeta(ata, true, false),
		solanago.NewAccountMeta(owner, false, false),
		solanago.NewAccountMeta(mint, false, false),
		solanago.NewAccountMeta(system.ProgramID, false, false),
		solanago.NewAccountMeta(tokenProgram, false, false),
	}
	return solanago.NewInstruction(solanago.SPLAssociatedTokenAccountProgramID, accounts, nil)
}

func WrapSOLInstruction(from, to solanago.PublicKey, amount uint64) []solanago.Instruction {
	transferIx := system.NewTransferInstructionBuilder().
		SetFundingAccount(from).
		SetRecipientAccount(to).
		SetLamports(amount).
		Build()
	syncIx := token.NewSyncNativeInstructionBuilder().
		SetTokenAccount(to).
		Build()
	return []solanago.Instruction{transferIx, syncIx}
}

func UnwrapSOLInstruction(owner, receiver solanago.PublicKey) (solanago.Instruction, error) {
	ata, err := FindAssociatedTokenAddress(owner, NativeMint, token.ProgramID)
	if err != nil {
		return nil, err
	}
	return token.NewCloseAccountInstructionBuilder().
		SetAccount(ata).
		SetDestinationAccount(receiver).
		SetOwnerAccount(owner).
		Build(), nil
}

// GetTokenInfo resolves the mint's decimals and, for Token-2022 mints, its
// transfer-fee schedule and transfer-hook flag. Legacy SPL mints come back
// with both extension flags unset.
func GetTokenInfo(ctx context.Context, client *rpc.Client, mint solanago.PublicKey) (*TokenInfo, error) {
	out, err := client.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("mint %s not found", mint)
	}

	mintAcc := &token.Mint{}
	if err = mintAcc.Decode(out.GetBinary()); err != nil {
		return nil, err
	}

	info := &TokenInfo{
		Owner:    out.Value.Owner,
		Mint:     mint,
		Decimals: mintAcc.Decimals,
	}
	if !out.Value.Owner.Equals(solanago.Token2022ProgramID) {
		return info, nil
	}

	epochInfo, err := client.GetEpochInfo(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, err
	}
	info.CurrentEpoch = epochInfo.Epoch

	ext, err := ParseMintExtensions(out.GetBinary())
	if err != nil {
		return nil, err
	}
	info.HasTransferHook = ext.HasTransferHook

	if ext.TransferFeeConfig != nil {
		fee := ext.TransferFeeConfig.FeeForEpoch(epochInfo.Epoch)
		info.BasisPoints = fee.FeeBps
		info.MaximumFee = new(big.Int).SetUint64(fee.MaxFee)
		info.HasTransferFee = true
	}
	return info, nil
}

// GetTokenDecimals reads just the decimals off a mint account.
func GetTokenDecimals(ctx context.Context, client *rpc.Client, mint solanago.PublicKey) (uint8, error) {
	acc, err := client.GetAccountInfo(ctx, mint)
	if err != nil {
		return 0, err
	}
	if acc == nil || acc.Value == nil {
		return 0, fmt.Errorf("mint not found")
	}
	dec := bin.NewBinDecoder(acc.Value.Data.GetBinary())
	mintAcc := new(token.Mint)
	if err := mintAcc.UnmarshalWithDecoder(dec); err != nil {
		return 0, err
	}
	return mintAcc.Decimals, nil
}
