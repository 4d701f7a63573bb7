package state

import (
	"encoding/binary"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

// FeeTierAccountSize is the full serialized size of a fee-tier account.
const FeeTierAccountSize = 44

// FeeTier maps a tick spacing to its default fee rate under a config.
type FeeTier struct {
	WhirlpoolsConfig solanago.PublicKey
	TickSpacing      uint16
	DefaultFeeRate   uint16
}

// ParseFeeTier decodes a fee-tier account's raw data.
func ParseFeeTier(data []byte) (*FeeTier, error) {
	if len(data) < FeeTierAccountSize {
		return nil, fmt.Errorf("fee tier account too short: got=%d want=%d", len(data), FeeTierAccountSize)
	}
	if err := checkDiscriminator(data, "FeeTier"); err != nil {
		return nil, err
	}
	data = data[accountDiscriminatorSize:]

	return &FeeTier{
		WhirlpoolsConfig: solanago.PublicKeyFromBytes(data[0:32]),
		TickSpacing:      binary.LittleEndian.Uint16(data[32:34]),
		DefaultFeeRate:   binary.LittleEndian.Uint16(data[34:36]),
	}, nil
}
