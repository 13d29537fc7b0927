package engine

// Fixed stage positions at the head of the pipeline. Stages 0-3 model the
// input, history, pair and multiply register delays; their arithmetic is
// latched at acceptance so in-flight samples are immune to coefficient
// writes landing behind them.
const (
	stageInput    = 0
	stageHistory  = 1
	stagePair     = 2
	stageMultiply = 3
	treeStart     = 4
)

// Register stages following the scale stage before a record reaches the
// output holding register.
const outputBufferStages = 1

// inflight is one pipeline slot: the channel tag and frame marker captured
// at acceptance plus the partial reduction state advancing level by level.
type inflight struct {
	valid    bool
	channel  int
	frameEnd bool

	// partial holds the current reduction-tree level, count live elements.
	partial []int64
	count   int

	// result/clamped are filled by the scale stage.
	result  int16
	clamped bool
}

// slotPipeline is the fixed-depth in-flight pipeline. Records shift one
// position per advance; a record's position determines which stage acts on
// it, so tags, markers and partial values stay in lockstep and retire in
// FIFO order. Slots are preallocated and partial buffers rotate from the
// retiring slot back to position zero, so steady-state ticks do not
// allocate.
type slotPipeline struct {
	slots     []inflight
	scalePos  int
	occupancy int
}

// newSlotPipeline builds a pipeline for pairCount partial products with the
// given tree depth.
func newSlotPipeline(pairCount, depth int) *slotPipeline {
	scalePos := treeStart + depth
	total := scalePos + 1 + outputBufferStages

	p := &slotPipeline{
		slots:    make([]inflight, total),
		scalePos: scalePos,
	}
	for i := range p.slots {
		p.slots[i].partial = make([]int64, pairCount)
	}
	return p
}

// depth returns the number of pipeline slots (latency excluding the output
// holding register).
func (p *slotPipeline) depth() int {
	return len(p.slots)
}

// empty reports whether no in-flight record occupies any slot.
func (p *slotPipeline) empty() bool {
	return p.occupancy == 0
}

// shift advances every record one position. It returns the retired final
// slot by value together with its partial buffer. Callers must follow with
// insert or bubble to restore position zero.
func (p *slotPipeline) shift() (inflight, []int64) {
	last := len(p.slots) - 1
	retired := p.slots[last]
	if retired.valid {
		p.occupancy--
	}

	for i := last; i > 0; i-- {
		p.slots[i] = p.slots[i-1]
	}
	return retired, retired.partial
}

// insert places a freshly accepted record at position zero, reusing buf as
// its partial storage. The caller has already filled buf with the stage-one
// products.
func (p *slotPipeline) insert(channel int, frameEnd bool, buf []int64, count int) {
	p.slots[0] = inflight{
		valid:    true,
		channel:  channel,
		frameEnd: frameEnd,
		partial:  buf,
		count:    count,
	}
	p.occupancy++
}

// bubble places an empty record at position zero, keeping buf attached so
// the slot retains its storage.
func (p *slotPipeline) bubble(buf []int64) {
	p.slots[0] = inflight{partial: buf}
}

// step runs the per-position stage functions for records that just arrived
// in the tree and scale regions. Must be called exactly once per shift.
func (p *slotPipeline) step() {
	for i := treeStart; i < p.scalePos; i++ {
		if s := &p.slots[i]; s.valid {
			s.count = reduceStep(s.partial, s.count)
		}
	}
	if s := &p.slots[p.scalePos]; s.valid {
		s.result, s.clamped = scaleSaturate(s.partial[0])
	}
}

// reset discards all in-flight records, keeping slot buffers.
func (p *slotPipeline) reset() {
	for i := range p.slots {
		buf := p.slots[i].partial
		p.slots[i] = inflight{partial: buf}
	}
	p.occupancy = 0
}
