package helpers

import (
	"encoding/binary"
	"testing"
)

// buildMintWithTransferFee serializes a Token-2022 mint account: 82-byte
// base, padding to 165, the mint account-type byte, then TLV entries.
func buildMintWithTransferFee(olderEpoch, olderMax uint64, olderBps uint16, newerEpoch, newerMax uint64, newerBps uint16, withHook bool) []byte {
	data := make([]byte, 166)
	data[165] = 1 // AccountType::Mint

	// Pod layout: two OptionalNonZeroPubkey authorities (all-zero = None),
	// withheld amount, then two packed 18-byte fee entries
	var fee [transferFeeConfigSize]byte
	off := 72
	for _, entry := range []struct {
		epoch, max uint64
		bps        uint16
	}{{olderEpoch, olderMax, olderBps}, {newerEpoch, newerMax, newerBps}} {
		binary.LittleEndian.PutUint64(fee[off:], entry.epoch)
		binary.LittleEndian.PutUint64(fee[off+8:], entry.max)
		binary.LittleEndian.PutUint16(fee[off+16:], entry.bps)
		off += 18
	}

	tlv := make([]byte, 4+len(fee))
	binary.LittleEndian.PutUint16(tlv[0:], 1) // transfer fee config
	binary.LittleEndian.PutUint16(tlv[2:], uint16(len(fee)))
	copy(tlv[4:], fee[:])
	data = append(data, tlv...)

	if withHook {
		hook := make([]byte, 4+64)
		binary.LittleEndian.PutUint16(hook[0:], 14) // transfer hook
		binary.LittleEndian.PutUint16(hook[2:], 64)
		data = append(data, hook...)
	}
	return data
}

func TestParseMintExtensionsLegacySize(t *testing.T) {
	exts, err := ParseMintExtensions(make([]byte, 82))
	if err != nil {
		t.Fatal(err)
	}
	if exts.TransferFeeConfig != nil || exts.HasTransferHook {
		t.Fatal("legacy mint must have no extensions")
	}
}

func TestParseMintExtensionsTooShort(t *testing.T) {
	if _, err := ParseMintExtensions(make([]byte, 10)); err == nil {
		t.Fatal("expected error for truncated mint")
	}
}

func TestParseMintExtensionsTransferFee(t *testing.T) {
	data := buildMintWithTransferFee(100, 5000, 50, 200, 9000, 75, false)
	exts, err := ParseMintExtensions(data)
	if err != nil {
		t.Fatal(err)
	}
	cfg := exts.TransferFeeConfig
	if cfg == nil {
		t.Fatal("transfer fee config not parsed")
	}
	if cfg.Older.Epoch != 100 || cfg.Older.MaxFee != 5000 || cfg.Older.FeeBps != 50 {
		t.Fatalf("older = %+v", cfg.Older)
	}
	if cfg.Newer.Epoch != 200 || cfg.Newer.MaxFee != 9000 || cfg.Newer.FeeBps != 75 {
		t.Fatalf("newer = %+v", cfg.Newer)
	}
	if cfg.TransferFeeConfigAuthority != nil || cfg.WithdrawWithheldAuthority != nil {
		t.Fatal("all-zero authorities must decode as none")
	}
	if exts.HasTransferHook {
		t.Fatal("no hook expected")
	}
}

func TestParseMintExtensionsAuthorityPresent(t *testing.T) {
	data := buildMintWithTransferFee(1, 2, 3, 4, 5, 6, false)
	// the config authority occupies the first 32 bytes of the TLV value
	for i := 0; i < 32; i++ {
		data[166+4+i] = 7
	}
	exts, err := ParseMintExtensions(data)
	if err != nil {
		t.Fatal(err)
	}
	cfg := exts.TransferFeeConfig
	if cfg.TransferFeeConfigAuthority == nil {
		t.Fatal("config authority expected")
	}
	if cfg.WithdrawWithheldAuthority != nil {
		t.Fatal("withdraw authority must stay none")
	}
}

func TestParseMintExtensionsTransferHook(t *testing.T) {
	data := buildMintWithTransferFee(0, 0, 0, 0, 0, 0, true)
	exts, err := ParseMintExtensions(data)
	if err != nil {
		t.Fatal(err)
	}
	if !exts.HasTransferHook {
		t.Fatal("hook extension not detected")
	}
}

func TestFeeForEpochSelection(t *testing.T) {
	cfg := &TransferFeeConfig{
		Older: TransferFee{Epoch: 100, FeeBps: 50},
		Newer: TransferFee{Epoch: 200, FeeBps: 75},
	}
	if got := cfg.FeeForEpoch(150); got.FeeBps != 50 {
		t.Fatalf("epoch 150 selects %d bps", got.FeeBps)
	}
	if got := cfg.FeeForEpoch(200); got.FeeBps != 75 {
		t.Fatalf("epoch 200 selects %d bps", got.FeeBps)
	}
	if got := cfg.FeeForEpoch(500); got.FeeBps != 75 {
		t.Fatalf("epoch 500 selects %d bps", got.FeeBps)
	}
}
