// Package rotation cycles a bounded set of "current" players through a
// larger pool. The Queue is not safe for concurrent use; callers hold one
// exclusive lock per queue (see manager.Session).
package rotation

import (
	"strings"

	"github.com/pkg/errors"
)

type Queue struct {
	capacity int
	st       *state
	last     *state // pre-mutation copy for Undo
}

// AddResult describes where a newly added participant landed.
type AddResult struct {
	Name     string
	Playing  bool
	Position int // index inside current or waiting
	// Milestone is set when the participant is exactly the 2*capacity-th
	// member, i.e. there are enough people for two games.
	Milestone bool
}

// New creates a queue. The first capacity names start in the current game,
// the rest wait in order.
func New(capacity int, names ...string) (*Queue, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	q := &Queue{capacity: capacity, st: &state{}}
	for _, name := range names {
		if err := validName(name); err != nil {
			return nil, err
		}
		if _, ok := q.st.lookup(name); ok {
			return nil, errors.Wrapf(ErrAlreadyMember, "participant %q", name)
		}
		q.place(q.st.insert(name))
	}
	return q, nil
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func (q *Queue) Capacity() int { return q.capacity }

// Len returns the number of members, delaying ones included.
func (q *Queue) Len() int { return len(q.st.all) }

// Active returns the number of members not delaying.
func (q *Queue) Active() int { return len(q.st.all) - len(q.st.delayed) }

func (q *Queue) Current() []Participant { return q.st.view(q.st.current) }

func (q *Queue) Waiting() []Participant { return q.st.view(q.st.waiting) }

// Names lists every member in join order.
func (q *Queue) Names() []string {
	out := make([]string, len(q.st.all))
	for i, h := range q.st.all {
		out[i] = q.st.table[h].Name
	}
	return out
}

func (q *Queue) Find(name string) (Participant, bool) {
	h, ok := q.st.lookup(name)
	if !ok {
		return Participant{}, false
	}
	return q.st.table[h], true
}

// place appends h to all and seats it in current when there is room.
func (q *Queue) place(h handle) {
	s := q.st
	s.all = append(s.all, h)
	if len(s.current) < q.capacity {
		s.current = append(s.current, h)
		s.table[h].Playing = true
		return
	}
	s.waiting = append(s.waiting, h)
	s.table[h].Playing = false
}

func (q *Queue) Add(name string) (AddResult, error) {
	if err := validName(name); err != nil {
		return AddResult{}, err
	}
	if _, ok := q.st.lookup(name); ok {
		return AddResult{}, errors.Wrapf(ErrAlreadyMember, "participant %q", name)
	}
	q.backup()

	h := q.st.insert(name)
	q.place(h)

	res := AddResult{Name: name, Playing: q.st.table[h].Playing}
	if res.Playing {
		res.Position = len(q.st.current) - 1
	} else {
		res.Position = len(q.st.waiting) - 1
	}
	res.Milestone = len(q.st.all) == 2*q.capacity
	return res, nil
}

// Remove drops a member. A vacated current slot is backfilled by one
// rotation step when a non-delaying waiter exists.
func (q *Queue) Remove(name string) error {
	h, ok := q.st.lookup(name)
	if !ok {
		return notFound(name)
	}
	q.backup()

	s := q.st
	s.all = without(s.all, h)
	s.delayed = without(s.delayed, h)
	if indexOf(s.current, h) >= 0 {
		s.current = without(s.current, h)
		if s.hasEligibleWaiter() {
			q.rotateOnce()
		}
	} else {
		s.waiting = without(s.waiting, h)
	}
	s.table[h].Playing, s.table[h].Delaying = false, false
	return nil
}

// Delay takes a member out of rotation. A current member gives up their
// slot and goes to the front of waiting; a waiting member keeps their place.
func (q *Queue) Delay(name string) error {
	h, ok := q.st.lookup(name)
	if !ok {
		return notFound(name)
	}
	if q.st.table[h].Delaying {
		return errors.Wrapf(ErrAlreadyDelaying, "participant %q", name)
	}
	q.backup()

	s := q.st
	s.table[h].Playing = false
	s.table[h].Delaying = true
	s.delayed = append(s.delayed, h)
	if indexOf(s.current, h) >= 0 {
		s.current = without(s.current, h)
		if s.hasEligibleWaiter() {
			q.rotateOnce()
		}
		s.waiting = append([]handle{h}, s.waiting...)
	}
	return nil
}

// Rejoin ends a delay. The member goes straight into current if a slot is
// free, otherwise stays where they are in waiting.
func (q *Queue) Rejoin(name string) error {
	h, ok := q.st.lookup(name)
	if !ok {
		return notFound(name)
	}
	if !q.st.table[h].Delaying {
		return errors.Wrapf(ErrNotDelaying, "participant %q", name)
	}
	q.backup()

	s := q.st
	s.table[h].Delaying = false
	s.delayed = without(s.delayed, h)
	if len(s.current) < q.capacity {
		s.waiting = without(s.waiting, h)
		s.current = append(s.current, h)
		s.table[h].Playing = true
	}
	return nil
}

// Empty removes everyone. It can be undone like any other mutation.
func (q *Queue) Empty() {
	q.backup()
	q.st = &state{}
}
