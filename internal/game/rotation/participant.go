package rotation

// Participant is a read-only view of one member of a Queue. The flags are
// owned by the Queue; values handed out by accessors are copies.
type Participant struct {
	Name     string `json:"name"`
	Playing  bool   `json:"playing"`
	Delaying bool   `json:"delaying"`
}

// handle indexes a participant slot in state.table.
type handle int

// state is the arena: participants live in table, the four containers hold
// handles into it. Removed participants keep their slot but drop out of
// every container.
type state struct {
	table   []Participant
	all     []handle
	current []handle
	waiting []handle
	delayed []handle
}

func (s *state) clone() *state {
	return &state{
		table:   append([]Participant(nil), s.table...),
		all:     append([]handle(nil), s.all...),
		current: append([]handle(nil), s.current...),
		waiting: append([]handle(nil), s.waiting...),
		delayed: append([]handle(nil), s.delayed...),
	}
}

func (s *state) insert(name string) handle {
	s.table = append(s.table, Participant{Name: name})
	return handle(len(s.table) - 1)
}

func (s *state) lookup(name string) (handle, bool) {
	for _, h := range s.all {
		if s.table[h].Name == name {
			return h, true
		}
	}
	return -1, false
}

func (s *state) view(hs []handle) []Participant {
	out := make([]Participant, len(hs))
	for i, h := range hs {
		out[i] = s.table[h]
	}
	return out
}

// hasEligibleWaiter reports whether someone in waiting can be rotated in.
func (s *state) hasEligibleWaiter() bool {
	for _, h := range s.waiting {
		if !s.table[h].Delaying {
			return true
		}
	}
	return false
}

func indexOf(hs []handle, h handle) int {
	for i, x := range hs {
		if x == h {
			return i
		}
	}
	return -1
}

func without(hs []handle, h handle) []handle {
	i := indexOf(hs, h)
	if i < 0 {
		return hs
	}
	out := make([]handle, 0, len(hs)-1)
	out = append(out, hs[:i]...)
	return append(out, hs[i+1:]...)
}
