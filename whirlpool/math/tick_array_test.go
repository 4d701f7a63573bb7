package math

import (
	"errors"
	"math/big"
	"testing"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

func emptyTickArray(startTickIndex int32) *TickArray {
	arr := &TickArray{StartTickIndex: startTickIndex, Ticks: make([]Tick, shared.TickArraySize)}
	for i := range arr.Ticks {
		arr.Ticks[i] = Tick{
			LiquidityNet:   big.NewInt(0),
			LiquidityGross: big.NewInt(0),
		}
	}
	return arr
}

func initTick(arr *TickArray, tickIndex int32, spacing uint16, liquidityNet int64) {
	offset := (tickIndex - arr.StartTickIndex) / int32(spacing)
	arr.Ticks[offset] = Tick{
		Initialized:       true,
		LiquidityNet:      big.NewInt(liquidityNet),
		LiquidityGross:    big.NewInt(1),
		FeeGrowthOutsideA: big.NewInt(0),
		FeeGrowthOutsideB: big.NewInt(0),
	}
}

func TestNewTickArraySequenceValidation(t *testing.T) {
	if _, err := NewTickArraySequence(nil, 0); !errors.Is(err, shared.ErrTickArraySequenceInvalid) {
		t.Fatalf("zero spacing: %v", err)
	}
	// misaligned start index
	if _, err := NewTickArraySequence(map[int32]*TickArray{7: nil}, 64); !errors.Is(err, shared.ErrTickArraySequenceInvalid) {
		t.Fatalf("misaligned start: %v", err)
	}
	// array key must match its start index
	if _, err := NewTickArraySequence(map[int32]*TickArray{5632: emptyTickArray(0)}, 64); !errors.Is(err, shared.ErrTickArraySequenceInvalid) {
		t.Fatalf("mismatched start: %v", err)
	}
}

func TestNextInitializedTickDirections(t *testing.T) {
	const spacing = 64
	arr := emptyTickArray(0)
	initTick(arr, 128, spacing, 10)
	initTick(arr, 2048, spacing, -5)

	seq, err := NewTickArraySequence(map[int32]*TickArray{0: arr, -5632: nil, 5632: nil}, spacing)
	if err != nil {
		t.Fatal(err)
	}

	// moving up from 0 skips the current tick
	idx, tick, err := seq.NextInitializedTick(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 128 || tick == nil || tick.LiquidityNet.Int64() != 10 {
		t.Fatalf("b to a from 0: idx=%d tick=%v", idx, tick)
	}

	// moving up from 128 must not return 128 again
	idx, _, err = seq.NextInitializedTick(128, false)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2048 {
		t.Fatalf("b to a from 128: idx=%d", idx)
	}

	// moving down is inclusive of the current tick
	idx, tick, err = seq.NextInitializedTick(128, true)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 128 || tick == nil {
		t.Fatalf("a to b from 128: idx=%d", idx)
	}

	// nothing initialized at or below 127 inside the fetched windows; the
	// walk hands back the edge of coverage as an uninitialized candidate
	idx, tick, err = seq.NextInitializedTick(127, true)
	if err != nil {
		t.Fatalf("a to b from 127: %v", err)
	}
	if idx != -5632 || tick != nil {
		t.Fatalf("a to b from 127: idx=%d tick=%v", idx, tick)
	}
}

func TestNextInitializedTickSkipsEmptyWindows(t *testing.T) {
	const spacing = 64
	far := emptyTickArray(11264)
	initTick(far, 11264+128, spacing, 3)

	seq, err := NewTickArraySequence(map[int32]*TickArray{0: nil, 5632: nil, 11264: far}, spacing)
	if err != nil {
		t.Fatal(err)
	}

	idx, tick, err := seq.NextInitializedTick(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 11264+128 || tick == nil {
		t.Fatalf("skip empty windows: idx=%d", idx)
	}
}

func TestNextInitializedTickCoverageEdge(t *testing.T) {
	const spacing = 64
	seq, err := NewTickArraySequence(map[int32]*TickArray{0: emptyTickArray(0)}, spacing)
	if err != nil {
		t.Fatal(err)
	}

	// past the single fetched window the walk yields that window's edge
	idx, tick, err := seq.NextInitializedTick(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 5632 || tick != nil {
		t.Fatalf("b to a coverage edge: idx=%d tick=%v", idx, tick)
	}
	idx, tick, err = seq.NextInitializedTick(100, true)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 || tick != nil {
		t.Fatalf("a to b coverage edge: idx=%d tick=%v", idx, tick)
	}
}

func TestNextInitializedTickMissingStartWindow(t *testing.T) {
	const spacing = 64
	// the window holding the current tick itself was never fetched
	seq, err := NewTickArraySequence(map[int32]*TickArray{5632: nil}, spacing)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := seq.NextInitializedTick(0, false); !errors.Is(err, shared.ErrTickArraySequenceInvalid) {
		t.Fatalf("missing start window up: %v", err)
	}
	if _, _, err := seq.NextInitializedTick(0, true); !errors.Is(err, shared.ErrTickArraySequenceInvalid) {
		t.Fatalf("missing start window down: %v", err)
	}
}

func TestNextInitializedTickDomainEdge(t *testing.T) {
	const spacing = 64
	span := shared.FullTickArraySpan(spacing)

	// cover everything from the current tick down to the domain edge with
	// known-empty windows
	arrays := map[int32]*TickArray{}
	for start := TickArrayStartIndex(0, spacing); start >= TickArrayStartIndex(shared.MinTickIndex, spacing); start -= span {
		arrays[start] = nil
	}
	seq, err := NewTickArraySequence(arrays, spacing)
	if err != nil {
		t.Fatal(err)
	}

	idx, tick, err := seq.NextInitializedTick(0, true)
	if err != nil {
		t.Fatal(err)
	}
	if idx != shared.MinTickIndex || tick != nil {
		t.Fatalf("domain edge: idx=%d tick=%v", idx, tick)
	}
}

func TestTickLookup(t *testing.T) {
	const spacing = 64
	arr := emptyTickArray(0)
	initTick(arr, 128, spacing, 42)
	seq, err := NewTickArraySequence(map[int32]*TickArray{0: arr, -5632: nil}, spacing)
	if err != nil {
		t.Fatal(err)
	}

	tick, err := seq.Tick(128)
	if err != nil {
		t.Fatal(err)
	}
	if !tick.Initialized || tick.LiquidityNet.Int64() != 42 {
		t.Fatalf("tick 128 = %+v", tick)
	}

	// known-empty window reports an uninitialized tick
	tick, err = seq.Tick(-5632 + 64)
	if err != nil {
		t.Fatal(err)
	}
	if tick.Initialized {
		t.Fatal("empty window tick should be uninitialized")
	}

	if _, err := seq.Tick(100); !errors.Is(err, shared.ErrTickOutOfBounds) {
		t.Fatalf("unaligned tick: %v", err)
	}
	if _, err := seq.Tick(11264); !errors.Is(err, shared.ErrTickArraySequenceInvalid) {
		t.Fatalf("unfetched window: %v", err)
	}
}
