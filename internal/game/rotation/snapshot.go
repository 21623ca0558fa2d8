package rotation

// backup overwrites the single undo snapshot. Called by every mutating
// operation once its input has been accepted.
func (q *Queue) backup() {
	q.last = q.st.clone()
}

// Undo restores the state captured before the most recent mutation. There
// is one snapshot only: a second Undo restores the same state again. It
// returns false when nothing has been mutated yet.
func (q *Queue) Undo() bool {
	if q.last == nil {
		return false
	}
	q.st = q.last.clone()
	return true
}
