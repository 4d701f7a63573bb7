package whirlpool

import (
	solanago "github.com/gagliardetto/solana-go"
)

// ProgramID is the deployed whirlpool program.
var ProgramID = solanago.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

// MemoProgramID is the SPL memo v2 program, a required account of the v2
// trade instructions.
var MemoProgramID = solanago.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// tickArraysPerSwap is how many tick-array accounts one swap instruction
// can traverse.
const tickArraysPerSwap = 3

// Instruction discriminators (anchor: sha256("global:<name>")[0:8]).
var (
	swapV2Discriminator               = []byte{43, 4, 237, 11, 26, 201, 30, 98}
	increaseLiquidityV2Discriminator  = []byte{133, 29, 89, 223, 69, 238, 176, 10}
	decreaseLiquidityV2Discriminator  = []byte{58, 127, 188, 62, 79, 82, 196, 96}
	collectFeesV2Discriminator        = []byte{207, 117, 95, 191, 229, 180, 226, 15}
	collectRewardV2Discriminator      = []byte{177, 107, 37, 180, 160, 19, 49, 209}
	updateFeesAndRewardsDiscriminator = []byte{154, 230, 250, 13, 236, 209, 75, 223}
)
