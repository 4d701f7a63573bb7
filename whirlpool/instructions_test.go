package whirlpool

import (
	"encoding/binary"
	"math/big"
	"testing"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

var (
	testConfig = solanago.MustPublicKeyFromBase58("2LecshUwdy9xi7meFgHtFJQNSKk4KdTrcpvaB56dP2NQ")
	testSOL    = solanago.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testUSDC   = solanago.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	// The config/SOL/USDC/64 derivation below must land on this pool.
	testSOLUSDCPool = solanago.MustPublicKeyFromBase58("HJPjoWUrhoZzkNfRpHuieeFk9WcZWjwy6PBjZ81ngndJ")
)

func testKey(seed byte) solanago.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solanago.PublicKeyFromBytes(raw[:])
}

func ixData(t *testing.T, ix solanago.Instruction) []byte {
	t.Helper()
	data, err := ix.Data()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestDeriveWhirlpoolAddress(t *testing.T) {
	got := DeriveWhirlpoolAddress(testConfig, testSOL, testUSDC, 64)
	if !got.Equals(testSOLUSDCPool) {
		t.Fatalf("pool = %s, want %s", got, testSOLUSDCPool)
	}
	if DeriveWhirlpoolAddress(testConfig, testSOL, testUSDC, 128).Equals(got) {
		t.Fatal("tick spacing must change the derivation")
	}
	if DeriveWhirlpoolAddress(testConfig, testUSDC, testSOL, 64).Equals(got) {
		t.Fatal("mint order must change the derivation")
	}
}

func TestDeriveOracleAddress(t *testing.T) {
	want := solanago.MustPublicKeyFromBase58("4GkRbcYg1VKsZropgai4dMf2Nj2PkXNLf43knFpavrSi")
	if got := DeriveOracleAddress(testSOLUSDCPool); !got.Equals(want) {
		t.Fatalf("oracle = %s, want %s", got, want)
	}
}

func TestDeriveTickArrayAddress(t *testing.T) {
	// the seed is the start index in decimal, sign included
	want := solanago.MustPublicKeyFromBase58("A2W6hiA2nf16iqtbZt9vX8FJbiXjv3DBUG3DgTja61HT")
	if got := DeriveTickArrayAddress(testSOLUSDCPool, -28160); !got.Equals(want) {
		t.Fatalf("tick array = %s, want %s", got, want)
	}
	if DeriveTickArrayAddress(testSOLUSDCPool, 28160).Equals(want) {
		t.Fatal("sign must change the derivation")
	}
}

func TestSwapTickArrayStartIndexes(t *testing.T) {
	cases := []struct {
		tick    int32
		spacing uint16
		aToB    bool
		want    []int32
	}{
		{0, 64, true, []int32{0, -5632, -11264}},
		{0, 64, false, []int32{0, 5632, 11264}},
		{-1, 64, true, []int32{-5632, -11264, -16896}},
		{100, 8, false, []int32{0, 704, 1408}},
		// the window stops at the tick domain edge
		{443540, 64, false, []int32{439296}},
		{-443540, 64, true, []int32{-444928}},
	}
	for _, tc := range cases {
		got := swapTickArrayStartIndexes(tc.tick, tc.spacing, tc.aToB)
		if len(got) != len(tc.want) {
			t.Fatalf("tick=%d aToB=%v: got %v, want %v", tc.tick, tc.aToB, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("tick=%d aToB=%v: got %v, want %v", tc.tick, tc.aToB, got, tc.want)
			}
		}
	}
}

func TestBuildSwapV2Instruction(t *testing.T) {
	client := NewClient(nil)
	params := &SwapV2InstructionParams{
		Amount:                 1_000_000,
		OtherAmountThreshold:   950_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		TokenAuthority:         testKey(1),
		Whirlpool:              testKey(2),
		TokenProgramA:          testKey(3),
		TokenProgramB:          testKey(4),
		TokenMintA:             testKey(5),
		TokenMintB:             testKey(6),
		TokenOwnerAccountA:     testKey(7),
		TokenOwnerAccountB:     testKey(8),
		TokenVaultA:            testKey(9),
		TokenVaultB:            testKey(10),
		TickArrays:             [3]solanago.PublicKey{testKey(11), testKey(12), testKey(13)},
		Oracle:                 testKey(14),
	}

	ix, err := client.BuildSwapV2Instruction(params)
	if err != nil {
		t.Fatal(err)
	}
	if !ix.ProgramID().Equals(ProgramID) {
		t.Fatal("program id mismatch")
	}

	data := ixData(t, ix)
	// discriminator + amount + threshold + sqrt limit + two flags + None tail
	if len(data) != 8+8+8+16+1+1+1 {
		t.Fatalf("data length = %d", len(data))
	}
	for i, b := range swapV2Discriminator {
		if data[i] != b {
			t.Fatal("discriminator mismatch")
		}
	}
	if binary.LittleEndian.Uint64(data[8:16]) != 1_000_000 {
		t.Fatal("amount mismatch")
	}
	if binary.LittleEndian.Uint64(data[16:24]) != 950_000 {
		t.Fatal("threshold mismatch")
	}
	// nil limit defaults to the domain edge for the direction
	if binary.LittleEndian.Uint64(data[24:32]) != shared.MinSqrtPrice.Uint64() {
		t.Fatal("sqrt price limit must default to the minimum for a->b")
	}
	if binary.LittleEndian.Uint64(data[32:40]) != 0 {
		t.Fatal("limit high word must be zero")
	}
	if data[40] != 1 || data[41] != 1 || data[42] != 0 {
		t.Fatalf("flag bytes = %v", data[40:])
	}

	accounts := ix.Accounts()
	if len(accounts) != 15 {
		t.Fatalf("accounts = %d", len(accounts))
	}
	if !accounts[2].PublicKey.Equals(MemoProgramID) {
		t.Fatal("memo program expected at slot 2")
	}
	if !accounts[3].IsSigner || !accounts[3].PublicKey.Equals(params.TokenAuthority) {
		t.Fatal("token authority must sign")
	}
	if !accounts[4].IsWritable || !accounts[4].PublicKey.Equals(params.Whirlpool) {
		t.Fatal("whirlpool must be writable")
	}
	if accounts[5].IsWritable || accounts[6].IsWritable {
		t.Fatal("mints must be read only")
	}
	for i := 7; i <= 13; i++ {
		if !accounts[i].IsWritable {
			t.Fatalf("account %d must be writable", i)
		}
	}
	if !accounts[14].IsWritable || !accounts[14].PublicKey.Equals(params.Oracle) {
		t.Fatal("oracle must be writable")
	}

	params.AToB = false
	ix, err = client.BuildSwapV2Instruction(params)
	if err != nil {
		t.Fatal(err)
	}
	data = ixData(t, ix)
	limit := new(big.Int).Or(
		new(big.Int).Lsh(new(big.Int).SetUint64(binary.LittleEndian.Uint64(data[32:40])), 64),
		new(big.Int).SetUint64(binary.LittleEndian.Uint64(data[24:32])),
	)
	if limit.Cmp(shared.MaxSqrtPrice) != 0 {
		t.Fatal("sqrt price limit must default to the maximum for b->a")
	}

	params.SqrtPriceLimit = new(big.Int).Lsh(big.NewInt(1), 129)
	if _, err := client.BuildSwapV2Instruction(params); err == nil {
		t.Fatal("expected error for a limit wider than u128")
	}
}

func TestBuildLiquidityV2Instructions(t *testing.T) {
	client := NewClient(nil)
	params := &LiquidityInstructionParams{
		Whirlpool:            testKey(1),
		PositionAuthority:    testKey(2),
		Position:             testKey(3),
		PositionTokenAccount: testKey(4),
		TokenProgramA:        testKey(5),
		TokenProgramB:        testKey(6),
		TokenMintA:           testKey(7),
		TokenMintB:           testKey(8),
		TokenOwnerAccountA:   testKey(9),
		TokenOwnerAccountB:   testKey(10),
		TokenVaultA:          testKey(11),
		TokenVaultB:          testKey(12),
		TickArrayLower:       testKey(13),
		TickArrayUpper:       testKey(14),
	}
	delta := bin.Uint128{Lo: 123456789, Hi: 1}

	ix, err := client.BuildIncreaseLiquidityV2Instruction(params, delta, 500, 600)
	if err != nil {
		t.Fatal(err)
	}
	data := ixData(t, ix)
	if len(data) != 8+16+8+8+1 {
		t.Fatalf("data length = %d", len(data))
	}
	for i, b := range increaseLiquidityV2Discriminator {
		if data[i] != b {
			t.Fatal("discriminator mismatch")
		}
	}
	if binary.LittleEndian.Uint64(data[8:16]) != 123456789 || binary.LittleEndian.Uint64(data[16:24]) != 1 {
		t.Fatal("liquidity delta words mismatch")
	}
	if binary.LittleEndian.Uint64(data[24:32]) != 500 || binary.LittleEndian.Uint64(data[32:40]) != 600 {
		t.Fatal("token limits mismatch")
	}
	if data[40] != 0 {
		t.Fatal("remaining accounts tail must be None")
	}

	accounts := ix.Accounts()
	if len(accounts) != 15 {
		t.Fatalf("accounts = %d", len(accounts))
	}
	if !accounts[0].IsWritable || !accounts[0].PublicKey.Equals(params.Whirlpool) {
		t.Fatal("whirlpool must lead and be writable")
	}
	if !accounts[3].PublicKey.Equals(MemoProgramID) {
		t.Fatal("memo program expected at slot 3")
	}
	if !accounts[4].IsSigner {
		t.Fatal("position authority must sign")
	}
	if !accounts[13].IsWritable || !accounts[14].IsWritable {
		t.Fatal("tick arrays must be writable")
	}

	decIx, err := client.BuildDecreaseLiquidityV2Instruction(params, delta, 500, 600)
	if err != nil {
		t.Fatal(err)
	}
	decData := ixData(t, decIx)
	for i, b := range decreaseLiquidityV2Discriminator {
		if decData[i] != b {
			t.Fatal("discriminator mismatch")
		}
	}
	// identical args, only the discriminator differs
	if len(decData) != len(data) {
		t.Fatal("length mismatch between increase and decrease")
	}
}

func TestBuildCollectInstructions(t *testing.T) {
	client := NewClient(nil)
	params := &LiquidityInstructionParams{
		Whirlpool:            testKey(1),
		PositionAuthority:    testKey(2),
		Position:             testKey(3),
		PositionTokenAccount: testKey(4),
		TokenProgramA:        testKey(5),
		TokenProgramB:        testKey(6),
		TokenMintA:           testKey(7),
		TokenMintB:           testKey(8),
		TokenOwnerAccountA:   testKey(9),
		TokenOwnerAccountB:   testKey(10),
		TokenVaultA:          testKey(11),
		TokenVaultB:          testKey(12),
	}

	ix, err := client.BuildCollectFeesV2Instruction(params)
	if err != nil {
		t.Fatal(err)
	}
	data := ixData(t, ix)
	if len(data) != 9 || data[8] != 0 {
		t.Fatalf("data = %v", data)
	}
	accounts := ix.Accounts()
	if len(accounts) != 13 {
		t.Fatalf("accounts = %d", len(accounts))
	}
	if accounts[0].IsWritable {
		t.Fatal("whirlpool is read only when collecting fees")
	}
	if !accounts[1].IsSigner {
		t.Fatal("position authority must sign")
	}
	if !accounts[6].IsWritable || !accounts[7].IsWritable {
		t.Fatal("owner account and vault must be writable")
	}
	if !accounts[12].PublicKey.Equals(MemoProgramID) {
		t.Fatal("memo program expected last")
	}

	rewardIx, err := client.BuildCollectRewardV2Instruction(&CollectRewardInstructionParams{
		Whirlpool:            testKey(1),
		PositionAuthority:    testKey(2),
		Position:             testKey(3),
		PositionTokenAccount: testKey(4),
		RewardOwnerAccount:   testKey(5),
		RewardMint:           testKey(6),
		RewardVault:          testKey(7),
		RewardTokenProgram:   testKey(8),
		RewardIndex:          2,
	})
	if err != nil {
		t.Fatal(err)
	}
	rewardData := ixData(t, rewardIx)
	if len(rewardData) != 10 || rewardData[8] != 2 || rewardData[9] != 0 {
		t.Fatalf("reward data = %v", rewardData)
	}
	if len(rewardIx.Accounts()) != 9 {
		t.Fatalf("reward accounts = %d", len(rewardIx.Accounts()))
	}

	updateIx, err := client.BuildUpdateFeesAndRewardsInstruction(testKey(1), testKey(3), testKey(13), testKey(14))
	if err != nil {
		t.Fatal(err)
	}
	updateData := ixData(t, updateIx)
	if len(updateData) != 8 {
		t.Fatalf("update data length = %d", len(updateData))
	}
	updateAccounts := updateIx.Accounts()
	if len(updateAccounts) != 4 {
		t.Fatalf("update accounts = %d", len(updateAccounts))
	}
	if !updateAccounts[0].IsWritable || !updateAccounts[1].IsWritable {
		t.Fatal("whirlpool and position must be writable")
	}
	if updateAccounts[2].IsWritable || updateAccounts[3].IsWritable {
		t.Fatal("tick arrays are read only here")
	}
}
