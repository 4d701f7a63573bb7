package solana

import (
	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Token is a decoded mint plus the program that owns it, which is how
// callers tell legacy SPL mints from Token-2022 mints.
type Token struct {
	token.Mint
	Owner solana.PublicKey
}

type TokenLayout struct{}

func (l *TokenLayout) Decode(data []byte) (*Token, error) {
	mint := token.Mint{}
	if err := mint.Decode(data); err != nil {
		return nil, err
	}
	return &Token{Mint: mint}, nil
}

// Account is a decoded SPL token account; vault balances come from here.
type Account struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64

	Delegate        *solana.PublicKey
	DelegatedAmount uint64

	IsInitialized bool
	IsFrozen      bool
	IsNative      bool

	RentExemptReserve *uint64
	CloseAuthority    *solana.PublicKey
}

type tokenAccountLayout struct {
	Mint                 solana.PublicKey
	Owner                solana.PublicKey
	Amount               uint64
	DelegateOption       uint32
	Delegate             *solana.PublicKey
	State                uint8
	IsNativeOption       uint32
	IsNative             *uint64
	DelegatedAmount      uint64
	CloseAuthorityOption uint32
	CloseAuthority       *solana.PublicKey
}

type AccountLayout struct{}

func (l *AccountLayout) Decode(data []byte) (*Account, error) {
	raw := &tokenAccountLayout{}
	if err := binary.NewBinDecoder(data).Decode(raw); err != nil {
		return nil, err
	}

	acc := &Account{
		Mint:            raw.Mint,
		Owner:           raw.Owner,
		Amount:          raw.Amount,
		DelegatedAmount: raw.DelegatedAmount,
		IsInitialized:   raw.State != 0,
		IsFrozen:        raw.State == 2,
		IsNative:        raw.IsNativeOption == 1,
	}
	if raw.DelegateOption > 0 {
		acc.Delegate = raw.Delegate
	}
	if raw.IsNativeOption == 1 {
		acc.RentExemptReserve = raw.IsNative
	}
	if raw.CloseAuthorityOption > 0 {
		acc.CloseAuthority = raw.CloseAuthority
	}
	return acc, nil
}
