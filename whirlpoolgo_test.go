package whirlpoolgo

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/whirlpool-go/whirlpool"
	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// SOL/USDC 0.30%, the deepest pool on the program.
var (
	testPool = solana.MustPublicKeyFromBase58("HJPjoWUrhoZzkNfRpHuieeFk9WcZWjwy6PBjZ81ngndJ")
	testSOL  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

// testInit connects to the RPC endpoint named in WHIRLPOOL_RPC. The network
// tests are skipped when it is unset.
func testInit(t *testing.T) (*rpc.Client, context.Context, context.CancelFunc) {
	t.Helper()
	endpoint := os.Getenv("WHIRLPOOL_RPC")
	if endpoint == "" {
		t.Skip("WHIRLPOOL_RPC not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	return rpc.New(endpoint), ctx, cancel
}

func testMintBalance(ctx context.Context, rpcClient *rpc.Client, wallet, mint solana.PublicKey) (uint64, error) {
	resp, err := rpcClient.GetTokenAccountsByOwner(ctx, wallet, &rpc.GetTokenAccountsConfig{
		ProgramId: &solana.TokenProgramID,
	}, &rpc.GetTokenAccountsOpts{
		Encoding:   solana.EncodingJSONParsed,
		Commitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return 0, err
	}
	for _, v := range resp.Value {
		got := gjson.GetBytes(v.Account.Data.GetRawJSON(), "parsed.info.mint").String()
		if got != mint.String() {
			continue
		}
		return gjson.GetBytes(v.Account.Data.GetRawJSON(), "parsed.info.tokenAmount.amount").Uint(), nil
	}
	return 0, nil
}

func TestSwapQuoteOnMainnet(t *testing.T) {
	rpcClient, ctx, cancel := testInit(t)
	defer cancel()

	client := NewClient(rpcClient)

	// quote 0.1 SOL into USDC
	result, err := client.GetSwapQuote(ctx, &whirlpool.SwapQuoteParams{
		Pool:        testPool,
		Amount:      big.NewInt(100_000_000),
		SwapMode:    shared.SwapModeExactIn,
		AToB:        true,
		SlippageBps: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	quote := result.Quote
	fmt.Printf("amountIn:%v \t amountOut:%v \t fee:%v \t nextTick:%v \n",
		quote.EstimatedAmountIn, quote.EstimatedAmountOut, quote.TotalFee, quote.NextTickIndex)

	if quote.EstimatedAmountIn.Cmp(big.NewInt(100_000_000)) != 0 {
		t.Fatalf("amount in = %v", quote.EstimatedAmountIn)
	}
	if quote.EstimatedAmountOut.Sign() <= 0 {
		t.Fatal("no output quoted")
	}
	if quote.OtherAmountThreshold.Cmp(quote.EstimatedAmountOut) > 0 {
		t.Fatal("threshold must not exceed the estimate for exact-in")
	}
	if !result.PoolState.TokenMintA.Equals(testSOL) {
		t.Fatalf("token a = %s", result.PoolState.TokenMintA)
	}

	// the same trade sized by output should need roughly the same input
	exactOut, err := client.GetSwapQuote(ctx, &whirlpool.SwapQuoteParams{
		Pool:        testPool,
		Amount:      quote.EstimatedAmountOut,
		SwapMode:    shared.SwapModeExactOut,
		AToB:        true,
		SlippageBps: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	fmt.Printf("exactOut amountIn:%v \n", exactOut.Quote.EstimatedAmountIn)
	if exactOut.Quote.EstimatedAmountIn.Sign() <= 0 {
		t.Fatal("no input quoted")
	}
}

func TestSwapInstructionsOnMainnet(t *testing.T) {
	rpcClient, ctx, cancel := testInit(t)
	defer cancel()

	wallet := os.Getenv("WHIRLPOOL_WALLET")
	if wallet == "" {
		t.Skip("WHIRLPOOL_WALLET not set")
	}
	owner := solana.MustPublicKeyFromBase58(wallet)

	if balance, err := testMintBalance(ctx, rpcClient, owner, testSOL); err == nil {
		fmt.Printf("wallet:%v \t wSOL balance:%v \n", owner, balance)
	}

	client := NewClient(rpcClient)
	result, err := client.GetSwapQuote(ctx, &whirlpool.SwapQuoteParams{
		Pool:        testPool,
		Amount:      big.NewInt(10_000_000),
		SwapMode:    shared.SwapModeExactIn,
		AToB:        true,
		SlippageBps: 250,
	})
	if err != nil {
		t.Fatal(err)
	}

	instructions, err := client.SwapInstructions(ctx, owner, result)
	if err != nil {
		t.Fatal(err)
	}
	if len(instructions) == 0 {
		t.Fatal("no instructions built")
	}
	for i, ix := range instructions {
		fmt.Printf("instruction %d: program %v accounts %d \n", i, ix.ProgramID(), len(ix.Accounts()))
	}
}

func TestUserPositionsOnMainnet(t *testing.T) {
	rpcClient, ctx, cancel := testInit(t)
	defer cancel()

	wallet := os.Getenv("WHIRLPOOL_WALLET")
	if wallet == "" {
		t.Skip("WHIRLPOOL_WALLET not set")
	}
	owner := solana.MustPublicKeyFromBase58(wallet)

	client := NewClient(rpcClient)
	positions, err := client.GetUserPositions(ctx, owner, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range positions {
		fmt.Printf("position:%v \t pool:%v \t liquidity:%v \t range:[%d,%d] \n",
			p.Address, p.PositionState.Whirlpool, p.PositionState.Liquidity.BigInt(),
			p.PositionState.TickLowerIndex, p.PositionState.TickUpperIndex)

		fees, err := client.GetCollectFeesQuote(ctx, p.Address)
		if err != nil {
			t.Fatal(err)
		}
		fmt.Printf("fees owed a:%v \t b:%v \n", fees.FeeOwedA, fees.FeeOwedB)
	}
}
