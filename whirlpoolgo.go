package whirlpoolgo

import (
	"github.com/krazyTry/whirlpool-go/whirlpool"
)

// NewClient creates a whirlpool client.
//
// Example:
//
// client := NewClient(rpcClient, whirlpool.WithCommitment(rpc.CommitmentConfirmed))
//
// client.GetSwapQuote(ctx, &whirlpool.SwapQuoteParams{Pool: pool, Amount: amountIn, SwapMode: shared.SwapModeExactIn, AToB: true, SlippageBps: 250})
//
// client.GetCollectFeesQuote(ctx, position)
var NewClient = whirlpool.NewClient
