package helpers

import (
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
)

// TokenInfo carries what the quote engine needs to know about a mint:
// decimals plus the Token-2022 transfer-fee parameters already selected for
// the current epoch. A nil TokenInfo (or HasTransferFee false) means the
// mint moves amounts one to one.
type TokenInfo struct {
	Owner           solanago.PublicKey
	Mint            solanago.PublicKey
	CurrentEpoch    uint64
	Decimals        uint8
	BasisPoints     uint16
	MaximumFee      *big.Int
	HasTransferFee  bool
	HasTransferHook bool
}
