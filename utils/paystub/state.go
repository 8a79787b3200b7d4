package paystub

type summaryPhase int

const (
	summaryIdle summaryPhase = iota
	summarySeenHeader
	summarySeenCurrent
)

// headerWindow is how many lines after the header sentinel may hold its
// values.
const headerWindow = 2

type taxFlags struct {
	deduction bool // first occurrence bound to the deduction slot
	basis     bool // second occurrence bound to the taxable earnings slot
}

// State is the per-parse classification state. A State must not be shared
// between documents; Parse builds a new one for every call.
type State struct {
	headerArmed int
	taxes       map[string]taxFlags
	summary     summaryPhase
}

func NewState() *State {
	return &State{
		taxes: make(map[string]taxFlags),
	}
}

func (s *State) armHeader() {
	s.headerArmed = headerWindow
}

func (s *State) resetSummary() {
	s.summary = summaryIdle
}
