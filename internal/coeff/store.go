package coeff

import (
	"fmt"

	"github.com/tphakala/go-fir-engine/internal/fixedpoint"
)

// noShift marks coefficients that are not positive powers of two and must
// take the general multiply path.
const noShift = -1

// write is one latched configuration-port write.
type write struct {
	addr  int
	value int16
}

// Store is the shared half-length coefficient table.
//
// Writes arriving through Queue do not modify the live table immediately;
// they are latched and applied atomically at the next tick boundary via
// Apply. Samples accepted before that tick never observe the new values,
// which is what keeps in-flight results independent of reconfiguration.
//
// Alongside the live table the store caches, per coefficient, whether it is
// a positive power of two and by how many bits to shift. The cache is
// rebuilt whenever the table changes, so the multiply stage's shift-vs-mult
// decision is a table lookup rather than a per-sample predicate.
type Store struct {
	half     []int16
	shifts   []int8
	defaults []int16
	pending  []write

	// reloadOnReset selects whether Reset restores the default table or
	// retains the last runtime-written values.
	reloadOnReset bool
}

// NewStore creates a store seeded with the given half-table. The slice is
// copied; len(defaults) is the pair count N/2.
func NewStore(defaults []int16, reloadOnReset bool) *Store {
	s := &Store{
		half:          make([]int16, len(defaults)),
		shifts:        make([]int8, len(defaults)),
		defaults:      make([]int16, len(defaults)),
		reloadOnReset: reloadOnReset,
	}
	copy(s.half, defaults)
	copy(s.defaults, defaults)
	s.rebuildShiftCache()
	return s
}

// Len returns the number of stored coefficients (N/2).
func (s *Store) Len() int {
	return len(s.half)
}

// At returns the live coefficient at pair index addr.
func (s *Store) At(addr int) int16 {
	return s.half[addr]
}

// Snapshot returns a copy of the live half-table.
func (s *Store) Snapshot() []int16 {
	out := make([]int16, len(s.half))
	copy(out, s.half)
	return out
}

// Queue latches a configuration write. It takes effect at the next Apply
// (tick boundary). Multiple writes queued within the same tick apply in
// call order.
func (s *Store) Queue(addr int, value int16) error {
	if addr < 0 || addr >= len(s.half) {
		return fmt.Errorf("coefficient address %d out of range [0, %d)", addr, len(s.half))
	}
	s.pending = append(s.pending, write{addr: addr, value: value})
	return nil
}

// Apply commits all latched writes to the live table. Called once per tick,
// before any sample is accepted on that tick.
func (s *Store) Apply() {
	if len(s.pending) == 0 {
		return
	}
	for _, w := range s.pending {
		s.half[w.addr] = w.value
	}
	s.pending = s.pending[:0]
	s.rebuildShiftCache()
}

// Product multiplies a pair sum by the coefficient at pair index i, using
// the cached shift when the coefficient is a positive power of two.
func (s *Store) Product(pair int64, i int) int64 {
	if sh := s.shifts[i]; sh >= 0 {
		return fixedpoint.ShiftProduct(pair, uint(sh))
	}
	return pair * int64(s.half[i])
}

// Reset drops latched writes and, when the store was built with
// reloadOnReset, restores the default table. Otherwise the last
// runtime-written values survive reset, matching cold-start-only seeding.
func (s *Store) Reset() {
	s.pending = s.pending[:0]
	if s.reloadOnReset {
		copy(s.half, s.defaults)
		s.rebuildShiftCache()
	}
}

func (s *Store) rebuildShiftCache() {
	for i, c := range s.half {
		if sh, ok := fixedpoint.PowerOfTwoExponent(c); ok {
			s.shifts[i] = int8(sh)
		} else {
			s.shifts[i] = noShift
		}
	}
}
