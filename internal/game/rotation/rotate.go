package rotation

// SwapCount returns how many rotation steps the next Rotate performs, from
// the number of non-delaying members n and the capacity c:
//
//	n <= c            0
//	n == c+1          1
//	c+2 <= n <= 2c-2  2
//	n >= 2c-1         3
//
// The cap of three does not scale with c or n, so large pools rotate
// slowly.
func (q *Queue) SwapCount() int {
	n, c := q.Active(), q.capacity
	switch {
	case n <= c:
		return 0
	case n == c+1:
		return 1
	case n <= 2*c-2:
		return 2
	default:
		return 3
	}
}

// Rotate moves the queue on to the next game and returns the number of
// swaps performed.
func (q *Queue) Rotate() int {
	q.backup()
	want, swaps := q.SwapCount(), 0
	for i := 0; i < want; i++ {
		if !q.rotateOnce() {
			break
		}
		swaps++
	}
	return swaps
}

// rotateOnce pulls the first non-delaying waiter into current and, if that
// overfills current, sends the longest-serving current member to the back of
// waiting. Delaying members at the head of waiting keep their positions.
func (q *Queue) rotateOnce() bool {
	s := q.st
	held := 0
	for held < len(s.waiting) && s.table[s.waiting[held]].Delaying {
		held++
	}
	if held == len(s.waiting) {
		return false
	}

	next := s.waiting[held]
	waiting := make([]handle, 0, len(s.waiting)+1)
	waiting = append(waiting, s.waiting[:held]...)
	waiting = append(waiting, s.waiting[held+1:]...)

	s.current = append(s.current, next)
	s.table[next].Playing = true

	if len(s.current) > q.capacity {
		old := s.current[0]
		s.current = append([]handle(nil), s.current[1:]...)
		waiting = append(waiting, old)
		s.table[old].Playing = false
	}
	s.waiting = waiting
	return true
}
