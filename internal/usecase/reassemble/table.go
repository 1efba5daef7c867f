package reassemble

type state int

const (
	stateEmpty state = iota
	stateSingle
	stateRun
)

func (s state) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateSingle:
		return "single"
	case stateRun:
		return "run"
	default:
		return "unknown"
	}
}

// relation describes the next record relative to the current buffer.
type relation int

const (
	relPlain         relation = iota // not a fragment
	relStartSame                     // ordinal 0, same base
	relStartOther                    // ordinal 0, other base
	relContinueSame                  // ordinal > 0, same base
	relContinueOther                 // ordinal > 0, other base
)

func (r relation) String() string {
	switch r {
	case relPlain:
		return "plain"
	case relStartSame:
		return "start-same"
	case relStartOther:
		return "start-other"
	case relContinueSame:
		return "continue-same"
	case relContinueOther:
		return "continue-other"
	default:
		return "unknown"
	}
}

type action int

const (
	actStartSingle action = iota
	actStartRun
	actFlushStartSingle
	actFlushStartRun
	actAppend
)

func (a action) String() string {
	switch a {
	case actStartSingle:
		return "start-single"
	case actStartRun:
		return "start-run"
	case actFlushStartSingle:
		return "flush+start-single"
	case actFlushStartRun:
		return "flush+start-run"
	case actAppend:
		return "append"
	default:
		return "unknown"
	}
}

type transition struct {
	from state
	next relation
}

// transitions is the full stitching policy. End of stream always flushes.
var transitions = map[transition]action{
	{stateEmpty, relPlain}:         actStartSingle,
	{stateEmpty, relStartSame}:     actStartRun,
	{stateEmpty, relStartOther}:    actStartRun,
	{stateEmpty, relContinueSame}:  actStartRun,
	{stateEmpty, relContinueOther}: actStartRun,

	{stateSingle, relPlain}:         actFlushStartSingle,
	{stateSingle, relStartSame}:     actFlushStartRun,
	{stateSingle, relStartOther}:    actFlushStartRun,
	{stateSingle, relContinueSame}:  actFlushStartRun,
	{stateSingle, relContinueOther}: actFlushStartRun,

	{stateRun, relPlain}:         actFlushStartSingle,
	{stateRun, relStartSame}:     actFlushStartRun,
	{stateRun, relStartOther}:    actFlushStartRun,
	{stateRun, relContinueSame}:  actAppend,
	{stateRun, relContinueOther}: actFlushStartSingle,
}
