package whirlpool

import (
	"encoding/binary"
	"strconv"

	solanago "github.com/gagliardetto/solana-go"
)

func DeriveWhirlpoolAddress(whirlpoolsConfig, tokenMintA, tokenMintB solanago.PublicKey, tickSpacing uint16) solanago.PublicKey {
	spacing := make([]byte, 2)
	binary.LittleEndian.PutUint16(spacing, tickSpacing)
	pub, _, _ := solanago.FindProgramAddress([][]byte{
		[]byte("whirlpool"),
		whirlpoolsConfig.Bytes(),
		tokenMintA.Bytes(),
		tokenMintB.Bytes(),
		spacing,
	}, ProgramID)
	return pub
}

// DeriveTickArrayAddress seeds with the start index rendered in base 10,
// which is how the program derives it.
func DeriveTickArrayAddress(pool solanago.PublicKey, startTickIndex int32) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{
		[]byte("tick_array"),
		pool.Bytes(),
		[]byte(strconv.FormatInt(int64(startTickIndex), 10)),
	}, ProgramID)
	return pub
}

func DeriveOracleAddress(pool solanago.PublicKey) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("oracle"), pool.Bytes()}, ProgramID)
	return pub
}

func DerivePositionAddress(positionMint solanago.PublicKey) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("position"), positionMint.Bytes()}, ProgramID)
	return pub
}

func DeriveFeeTierAddress(whirlpoolsConfig solanago.PublicKey, tickSpacing uint16) solanago.PublicKey {
	spacing := make([]byte, 2)
	binary.LittleEndian.PutUint16(spacing, tickSpacing)
	pub, _, _ := solanago.FindProgramAddress([][]byte{
		[]byte("fee_tier"),
		whirlpoolsConfig.Bytes(),
		spacing,
	}, ProgramID)
	return pub
}
