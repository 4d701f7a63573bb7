package whirlpool

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	solanax "github.com/krazyTry/whirlpool-go/solana"
	"github.com/krazyTry/whirlpool-go/whirlpool/state"
)

// UserPosition is one position owned by a wallet, keyed by its account
// address.
type UserPosition struct {
	Address       solanago.PublicKey
	PositionState *state.Position
}

// GetUserPositions scans a wallet's token accounts for position NFTs and
// resolves them to position accounts. Both token programs are scanned
// because positions minted before the Token-2022 migration still live under
// the legacy program. An optional pool filter keeps only positions in that
// pool.
func (c *Client) GetUserPositions(ctx context.Context, owner solanago.PublicKey, pool *solanago.PublicKey) ([]*UserPosition, error) {
	var candidates []solanago.PublicKey
	for _, programID := range []solanago.PublicKey{solanago.Token2022ProgramID, solanago.TokenProgramID} {
		programID := programID
		out, err := c.Client.GetTokenAccountsByOwner(
			ctx,
			owner,
			&rpc.GetTokenAccountsConfig{ProgramId: &programID},
			&rpc.GetTokenAccountsOpts{
				Commitment: c.Commitment,
				Encoding:   solanago.EncodingBase64,
			},
		)
		if err != nil {
			return nil, err
		}
		for _, keyedAcc := range out.Value {
			tokenAccount, err := new(solanax.AccountLayout).Decode(keyedAcc.Account.Data.GetBinary())
			if err != nil {
				return nil, err
			}
			// position NFTs are supply-1 tokens
			if tokenAccount.Amount != 1 {
				continue
			}
			candidates = append(candidates, DerivePositionAddress(tokenAccount.Mint))
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	outs, err := solanax.GetMultipleAccountInfo(ctx, c.Client, c.Commitment, candidates)
	if err != nil {
		return nil, err
	}

	var positions []*UserPosition
	for i, out := range outs.Value {
		if out == nil {
			// supply-1 token that is not a position NFT
			continue
		}
		position, err := state.ParsePosition(out.Data.GetBinary())
		if err != nil {
			continue
		}
		if pool != nil && !position.Whirlpool.Equals(*pool) {
			continue
		}
		positions = append(positions, &UserPosition{
			Address:       candidates[i],
			PositionState: position,
		})
	}
	return positions, nil
}

// GetPoolPositions scans the program for every position open in one pool.
// This goes through getProgramAccounts, which many public RPC endpoints
// rate-limit or disable for large programs.
func (c *Client) GetPoolPositions(ctx context.Context, pool solanago.PublicKey) ([]*UserPosition, error) {
	// the pool pubkey sits right behind the discriminator
	opts := solanax.GenProgramAccountFilter(c.Commitment, "Position", pool, 8)
	outs, err := c.Client.GetProgramAccountsWithOpts(ctx, c.ProgramID, opts)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var positions []*UserPosition
	for _, keyed := range outs {
		position, err := state.ParsePosition(keyed.Account.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		positions = append(positions, &UserPosition{
			Address:       keyed.Pubkey,
			PositionState: position,
		})
	}
	return positions, nil
}
