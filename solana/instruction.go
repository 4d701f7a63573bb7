package solana

import (
	bin "encoding/binary"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

var (
	ataInstructionTypeID          = binary.NoTypeIDDefaultID
	transferInstructionTypeID     = binary.TypeIDFromUint32(system.Instruction_Transfer, bin.LittleEndian)
	syncNativeInstructionTypeID   = binary.TypeIDFromUint8(token.Instruction_SyncNative)
	closeAccountInstructionTypeID = binary.TypeIDFromUint8(token.Instruction_CloseAccount)
)

// MergeInstructions deduplicates the housekeeping instructions a composed
// transaction tends to accumulate: repeated ATA creates, WSOL wraps for the
// same account pair (their lamports are summed), repeated syncNative and
// closeAccount calls. Everything else passes through in order.
func MergeInstructions(oldInstructions []solana.Instruction) []solana.Instruction {
	var (
		ataCreateInstructions    []*associatedtokenaccount.Create
		transferInstructions     []*system.Transfer
		closeAccountInstructions []*token.CloseAccount
		syncNativeInstructions   []*token.SyncNative

		newInstructions []solana.Instruction
	)

	for _, v := range oldInstructions {
		switch inst := v.(type) {
		case *associatedtokenaccount.Instruction:
			if inst.TypeID != ataInstructionTypeID {
				newInstructions = append(newInstructions, v)
				break
			}
			ataCreate, ok := inst.Impl.(associatedtokenaccount.Create)
			if !ok {
				newInstructions = append(newInstructions, v)
				break
			}
			seen := false
			for _, prior := range ataCreateInstructions {
				if ataCreate.Mint == prior.Mint && ataCreate.Payer == prior.Payer && ataCreate.Wallet == prior.Wallet {
					seen = true
					break
				}
			}
			if !seen {
				ataCreateInstructions = append(ataCreateInstructions, &ataCreate)
				newInstructions = append(newInstructions, v)
			}
		case *system.Instruction:
			if inst.TypeID != transferInstructionTypeID {
				newInstructions = append(newInstructions, v)
				break
			}
			transfer, ok := inst.Impl.(system.Transfer)
			if !ok {
				newInstructions = append(newInstructions, v)
				break
			}
			seen := false
			for _, prior := range transferInstructions {
				if transfer.GetFundingAccount().PublicKey == prior.GetFundingAccount().PublicKey &&
					transfer.GetRecipientAccount().PublicKey == prior.GetRecipientAccount().PublicKey {
					seen = true
					*prior.Lamports += *transfer.Lamports
					break
				}
			}
			if !seen {
				transferInstructions = append(transferInstructions, &transfer)
				newInstructions = append(newInstructions, v)
			}
		case *token.Instruction:
			switch inst.TypeID {
			case syncNativeInstructionTypeID:
				syncNative, ok := inst.Impl.(token.SyncNative)
				if !ok {
					newInstructions = append(newInstructions, v)
					break
				}
				seen := false
				for _, prior := range syncNativeInstructions {
					if syncNative.GetTokenAccount().PublicKey == prior.GetTokenAccount().PublicKey {
						seen = true
						break
					}
				}
				if !seen {
					syncNativeInstructions = append(syncNativeInstructions, &syncNative)
					newInstructions = append(newInstructions, v)
				}
			case closeAccountInstructionTypeID:
				closeAccount, ok := inst.Impl.(token.CloseAccount)
				if !ok {
					newInstructions = append(newInstructions, v)
					break
				}
				seen := false
				for _, prior := range closeAccountInstructions {
					if closeAccount.GetAccount().PublicKey == prior.GetAccount().PublicKey &&
						closeAccount.GetDestinationAccount().PublicKey == prior.GetDestinationAccount().PublicKey &&
						closeAccount.GetOwnerAccount().PublicKey == prior.GetOwnerAccount().PublicKey {
						seen = true
						break
					}
				}
				if !seen {
					closeAccountInstructions = append(closeAccountInstructions, &closeAccount)
					newInstructions = append(newInstructions, v)
				}
			default:
				newInstructions = append(newInstructions, v)
			}
		default:
			newInstructions = append(newInstructions, v)
		}
	}

	return newInstructions
}
