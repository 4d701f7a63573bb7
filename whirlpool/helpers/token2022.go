package helpers

import (
	"encoding/binary"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

const (
	// mintBaseSize is the legacy SPL mint size; Token-2022 TLV extensions
	// start after it (plus the account-type discriminator byte at 165).
	mintBaseSize      = 82
	mintExtensionsOff = 166

	extUninitialized     uint16 = 0
	extTransferFeeConfig uint16 = 1
	extTransferHook      uint16 = 14
)

// MintExtensions is the decoded subset of a Token-2022 mint's TLV entries
// that affects quoting.
type MintExtensions struct {
	Raw map[uint16][]byte

	TransferFeeConfig *TransferFeeConfig
	HasTransferHook   bool
}

type TransferFee struct {
	Epoch  uint64
	MaxFee uint64
	FeeBps uint16
}

type TransferFeeConfig struct {
	// Authorities are OptionalNonZeroPubkey on chain, a plain 32-byte
	// field whose all-zero value means "None"; nil here mirrors that.
	TransferFeeConfigAuthority *solanago.PublicKey
	WithdrawWithheldAuthority  *solanago.PublicKey

	WithheldAmount uint64

	Older TransferFee
	Newer TransferFee
}

// FeeForEpoch selects the schedule entry in force: the older entry while the
// current epoch has not reached the newer entry's epoch, the newer one after.
func (c *TransferFeeConfig) FeeForEpoch(currentEpoch uint64) TransferFee {
	if currentEpoch < c.Newer.Epoch {
		return c.Older
	}
	return c.Newer
}

// ParseMintExtensions walks the TLV region of a Token-2022 mint account.
// Legacy-sized mints have no extensions and parse to an empty set.
func ParseMintExtensions(data []byte) (*MintExtensions, error) {
	if len(data) < mintBaseSize {
		return nil, fmt.Errorf("mint account too short: got=%d want>=%d", len(data), mintBaseSize)
	}

	exts := &MintExtensions{Raw: make(map[uint16][]byte)}
	if len(data) <= mintExtensionsOff {
		return exts, nil
	}

	off := mintExtensionsOff
	for off+4 <= len(data) {
		typ := binary.LittleEndian.Uint16(data[off : off+2])
		l := binary.LittleEndian.Uint16(data[off+2 : off+4])
		off += 4

		if typ == extUninitialized && l == 0 {
			break
		}
		if off+int(l) > len(data) {
			return nil, fmt.Errorf("invalid TLV entry: type=%d len=%d off=%d total=%d", typ, l, off, len(data))
		}

		val := data[off : off+int(l)]
		off += int(l)
		exts.Raw[typ] = val

		switch typ {
		case extTransferFeeConfig:
			cfg, err := parseTransferFeeConfig(val)
			if err != nil {
				return nil, fmt.Errorf("transfer fee config: %w", err)
			}
			exts.TransferFeeConfig = cfg
		case extTransferHook:
			exts.HasTransferHook = true
		}
	}

	return exts, nil
}

// transferFeeConfigSize is the Pod size of the TransferFeeConfig extension:
// two OptionalNonZeroPubkey fields, the withheld amount, and two packed
// 18-byte TransferFee entries.
const transferFeeConfigSize = 32 + 32 + 8 + 18 + 18

func parseTransferFeeConfig(b []byte) (*TransferFeeConfig, error) {
	if len(b) < transferFeeConfigSize {
		return nil, fmt.Errorf("truncated: got=%d want=%d", len(b), transferFeeConfigSize)
	}

	return &TransferFeeConfig{
		TransferFeeConfigAuthority: readOptionalNonZeroPubkey(b[0:32]),
		WithdrawWithheldAuthority:  readOptionalNonZeroPubkey(b[32:64]),
		WithheldAmount:             binary.LittleEndian.Uint64(b[64:72]),
		Older:                      readTransferFee(b[72:90]),
		Newer:                      readTransferFee(b[90:108]),
	}, nil
}

// readOptionalNonZeroPubkey decodes the Pod option encoding: the all-zero
// pubkey stands for "None".
func readOptionalNonZeroPubkey(b []byte) *solanago.PublicKey {
	pk := solanago.PublicKeyFromBytes(b)
	if pk.IsZero() {
		return nil
	}
	return &pk
}

func readTransferFee(b []byte) TransferFee {
	return TransferFee{
		Epoch:  binary.LittleEndian.Uint64(b[0:8]),
		MaxFee: binary.LittleEndian.Uint64(b[8:16]),
		FeeBps: binary.LittleEndian.Uint16(b[16:18]),
	}
}
