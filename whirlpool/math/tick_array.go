package math

import (
	"math/big"

	"github.com/krazyTry/whirlpool-go/whirlpool/shared"
)

// Tick is the per-tick state a swap needs while walking price space.
type Tick struct {
	Initialized          bool
	LiquidityNet         *big.Int
	LiquidityGross       *big.Int
	FeeGrowthOutsideA    *big.Int
	FeeGrowthOutsideB    *big.Int
	RewardGrowthsOutside [shared.NumRewards]*big.Int
}

// TickArray is one fixed-width window of ticks. Ticks holds one slot per
// initializable index starting at StartTickIndex, stepping by the pool's
// tick spacing.
type TickArray struct {
	StartTickIndex int32
	Ticks          []Tick
}

// TickArraySequence walks initialized ticks across a sparse set of arrays.
// A present key with a nil value marks a window known to hold no initialized
// ticks (the account does not exist on chain); a missing key means the
// caller never fetched that window and the walk cannot continue through it.
type TickArraySequence struct {
	arrays      map[int32]*TickArray
	tickSpacing uint16
}

func NewTickArraySequence(arrays map[int32]*TickArray, tickSpacing uint16) (*TickArraySequence, error) {
	if tickSpacing == 0 {
		return nil, shared.ErrTickArraySequenceInvalid
	}
	span := shared.FullTickArraySpan(tickSpacing)
	for start, arr := range arrays {
		if start%span != 0 {
			return nil, shared.ErrTickArraySequenceInvalid
		}
		if arr == nil {
			continue
		}
		if arr.StartTickIndex != start || len(arr.Ticks) != shared.TickArraySize {
			return nil, shared.ErrTickArraySequenceInvalid
		}
	}
	return &TickArraySequence{arrays: arrays, tickSpacing: tickSpacing}, nil
}

// Tick returns the state stored for an initializable tick index. Windows the
// caller marked empty report an uninitialized tick.
func (s *TickArraySequence) Tick(tickIndex int32) (*Tick, error) {
	spacing := int32(s.tickSpacing)
	if tickIndex < shared.MinTickIndex || tickIndex > shared.MaxTickIndex || tickIndex%spacing != 0 {
		return nil, shared.ErrTickOutOfBounds
	}
	start := TickArrayStartIndex(tickIndex, s.tickSpacing)
	arr, ok := s.arrays[start]
	if !ok {
		return nil, shared.ErrTickArraySequenceInvalid
	}
	if arr == nil {
		return &Tick{}, nil
	}
	offset := (tickIndex - start) / spacing
	return &arr.Ticks[offset], nil
}

// NextInitializedTick finds the first initialized tick at or below tickIndex
// when trading A to B, or strictly above it when trading B to A. When the
// walk runs past the tick domain without finding one it returns the domain
// bound with a nil tick; when it runs past the supplied windows it returns
// the coverage edge with a nil tick. Either way the caller decides whether
// stopping there is acceptable.
func (s *TickArraySequence) NextInitializedTick(tickIndex int32, aToB bool) (int32, *Tick, error) {
	spacing := int32(s.tickSpacing)
	span := shared.FullTickArraySpan(s.tickSpacing)

	cur := tickIndex
	if !aToB {
		// the search is exclusive of the current tick when moving up
		cur = tickIndex + 1
	}

	for {
		if cur < shared.MinTickIndex {
			return shared.MinTickIndex, nil, nil
		}
		if cur > shared.MaxTickIndex {
			return shared.MaxTickIndex, nil, nil
		}

		start := TickArrayStartIndex(cur, s.tickSpacing)
		arr, ok := s.arrays[start]
		if !ok {
			// ran past the supplied windows; hand the coverage edge back as
			// an uninitialized candidate
			if aToB {
				if edge := start + span; edge <= tickIndex {
					return edge, nil, nil
				}
			} else if start > tickIndex {
				return start, nil, nil
			}
			return 0, nil, shared.ErrTickArraySequenceInvalid
		}

		if arr != nil {
			if aToB {
				offset := (cur - start) / spacing
				for i := offset; i >= 0; i-- {
					idx := start + i*spacing
					if idx < shared.MinTickIndex {
						break
					}
					if arr.Ticks[i].Initialized {
						return idx, &arr.Ticks[i], nil
					}
				}
			} else {
				offset := (cur - start + spacing - 1) / spacing
				for i := offset; i < int32(shared.TickArraySize); i++ {
					idx := start + i*spacing
					if idx > shared.MaxTickIndex {
						break
					}
					if arr.Ticks[i].Initialized {
						return idx, &arr.Ticks[i], nil
					}
				}
			}
		}

		if aToB {
			cur = start - 1
		} else {
			cur = start + span
		}
	}
}
