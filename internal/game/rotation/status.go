package rotation

import (
	"fmt"
	"strings"
)

const (
	currentHeader  = "The players in the next game are: "
	waitingHeader  = "\n\nThe players in the waiting queue are: "
	delayingSuffix = " (Currently delaying)"
)

// Status lists current members, then waiting members (if any) with
// delaying ones annotated.
func (q *Queue) Status() string {
	var b strings.Builder
	b.WriteString(currentHeader)
	for _, h := range q.st.current {
		b.WriteString("\n\t")
		b.WriteString(q.st.table[h].Name)
	}
	if len(q.st.waiting) > 0 {
		b.WriteString(waitingHeader)
		for _, h := range q.st.waiting {
			p := q.st.table[h]
			b.WriteString("\n\t")
			b.WriteString(p.Name)
			if p.Delaying {
				b.WriteString(delayingSuffix)
			}
		}
	}
	return b.String()
}

// Estimate is the number of games a member has left in current (Playing)
// or still has to wait before entering it.
type Estimate struct {
	Name    string `json:"name"`
	Playing bool   `json:"playing"`
	Index   int    `json:"index"`
	Games   int    `json:"games"`
}

// WaitEstimate halves the member's index in their container. The divisor
// assumes two members rotate per game, which only holds for capacity 6.
func (q *Queue) WaitEstimate(name string) (Estimate, bool) {
	h, ok := q.st.lookup(name)
	if !ok {
		return Estimate{Name: name}, false
	}
	if i := indexOf(q.st.current, h); i >= 0 {
		return Estimate{Name: name, Playing: true, Index: i, Games: i / 2}, true
	}
	i := indexOf(q.st.waiting, h)
	return Estimate{Name: name, Index: i, Games: i / 2}, true
}

// Wait renders WaitEstimate. An unknown name is answered, not rejected.
func (q *Queue) Wait(name string) string {
	e, ok := q.WaitEstimate(name)
	switch {
	case !ok:
		return fmt.Sprintf("%s is not currently in the queue.", name)
	case e.Playing:
		return fmt.Sprintf("%s is currently playing/queuing for a game. They have %d games left after this one.", name, e.Games)
	default:
		return fmt.Sprintf("%s has to wait for %d games after this one.", name, e.Games)
	}
}
