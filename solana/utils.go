package solana

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// CurrentTimestamp is the chain clock: the block time of the latest slot.
// Reward extrapolation and adaptive-fee decay both key off it.
func CurrentTimestamp(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType) (uint64, error) {
	currentSlot, err := rpcClient.GetSlot(ctx, commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get slot: %w", err)
	}
	currentTime, err := rpcClient.GetBlockTime(ctx, currentSlot)
	if err != nil {
		return 0, fmt.Errorf("failed to get block time: %w", err)
	}
	return uint64(currentTime.Time().Unix()), nil
}

func GetAccountInfo(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{Commitment: commitment})
}

func GetMultipleAccountInfo(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, accounts []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	return rpcClient.GetMultipleAccountsWithOpts(ctx, accounts, &rpc.GetMultipleAccountsOpts{Commitment: commitment, Encoding: solana.EncodingBase64})
}

// accountDiscriminator is the anchor account discriminator for filters.
func accountDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}

// GenProgramAccountFilter scans a program's accounts of one anchor type,
// optionally narrowed by an owner key at a fixed offset.
func GenProgramAccountFilter(commitment rpc.CommitmentType, accountType string, owner solana.PublicKey, offset uint64) *rpc.GetProgramAccountsOpts {
	opt := &rpc.GetProgramAccountsOpts{
		Commitment: commitment,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  accountDiscriminator(accountType),
				},
			},
		},
	}
	if owner.Equals(solana.PublicKey{}) {
		return opt
	}
	opt.Filters = append(opt.Filters, rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: offset,
			Bytes:  owner[:],
		},
	})
	return opt
}

// GetMultipleToken loads several mint accounts at once; missing accounts
// come back nil.
func GetMultipleToken(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, tokens ...solana.PublicKey) ([]*Token, error) {
	outs, err := GetMultipleAccountInfo(ctx, rpcClient, commitment, tokens)
	if err != nil {
		return nil, err
	}
	list := make([]*Token, len(outs.Value))
	for i, out := range outs.Value {
		if out == nil {
			continue
		}
		tok, err := new(TokenLayout).Decode(out.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		tok.Owner = out.Owner
		list[i] = tok
	}
	return list, nil
}
