package command

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/manager"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/rotation"
)

// join adds the author to a game's queue, creating the queue when needed.
func (d *Dispatcher) join(ctx context.Context, author string, args []string) (Response, error) {
	game := arg(args, 0)
	given, ok := parseCutoff(arg(args, 1))
	if !ok {
		return Response{Text: badCutoff}, nil
	}

	if game == "" {
		s, err := d.sessions.Resolve("", author)
		if err != nil {
			return Response{Text: noGameParam}, nil
		}
		return replied(d.addTo(s, author, ""))
	}
	if s, ok := d.sessions.Get(game); ok {
		return replied(d.addTo(s, author, ""))
	}

	capacity, err := d.cutoffs.Resolve(ctx, manager.Key(game), given)
	if err != nil {
		return Response{}, err
	}
	if capacity == 0 {
		return Response{Text: noCutoffParam}, nil
	}
	s, err := d.sessions.Create(game, capacity)
	if errors.Is(err, manager.ErrSessionExists) {
		// lost a race with another join
		if s, ok := d.sessions.Get(game); ok {
			return replied(d.addTo(s, author, ""))
		}
		return Response{Text: noQueue(d.prefix)}, nil
	}
	if err != nil {
		return Response{}, err
	}
	return replied(d.addTo(s, author, fmt.Sprintf("Queue has been created for %s.\n", s.Game)))
}

// addTo adds name to s, following s's replacement when a switch retired
// it. The error is the queue's rejection, if any; the reply text already
// explains it.
func (d *Dispatcher) addTo(s *manager.Session, name, header string) (Response, error) {
	for {
		resp := Response{Game: s.Key}
		var rejected error
		live := s.Live(func(q *rotation.Queue) {
			res, err := q.Add(name)
			rejected = err
			switch {
			case errors.Is(err, rotation.ErrAlreadyMember):
				resp.Text = fmt.Sprintf("%s is already a player in the queue.", name)
			case err != nil:
				resp.Text = fmt.Sprintf("%q cannot be added to the queue.", name)
			default:
				resp.Text = header + fmt.Sprintf("%s has been added to the queue.", res.Name)
				if res.Milestone {
					resp.Text += fmt.Sprintf("\nOh neat! %s is the %dth player - is it time for two games?", res.Name, 2*q.Capacity())
				}
				resp.Changed = true
			}
		})
		if live {
			return resp, rejected
		}
		next, ok := d.sessions.Get(s.Key)
		if !ok || next == s {
			return Response{Text: noQueue(d.prefix)}, nil
		}
		s, header = next, ""
	}
}

// replied drops a queue rejection that addTo already put into the reply.
func replied(resp Response, _ error) (Response, error) { return resp, nil }

func (d *Dispatcher) leave(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	return d.removeFrom(s, author, fmt.Sprintf("%s is not a member of the queue for %s. Please check and try again.", author, s.Game)), nil
}

func (d *Dispatcher) kick(ctx context.Context, author string, args []string) (Response, error) {
	player := arg(args, 0)
	if player == "" {
		return Response{Text: fmt.Sprintf("Please enter %skick [PLAYERNAME] [GAMENAME].", d.prefix)}, nil
	}
	s, msg := d.resolve(arg(args, 1), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	return d.removeFrom(s, player, fmt.Sprintf("%s is not a member of the queue for %s.", player, s.Game)), nil
}

func (d *Dispatcher) removeFrom(s *manager.Session, name, missing string) Response {
	resp := Response{Game: s.Key}
	s.Do(func(q *rotation.Queue) {
		if err := q.Remove(name); err != nil {
			resp.Text = missing
			return
		}
		resp.Text = fmt.Sprintf("%s has been removed from the queue.\n", name) + q.Status()
		resp.Changed = true
	})
	return resp
}

func (d *Dispatcher) add(ctx context.Context, author string, args []string) (Response, error) {
	player := arg(args, 0)
	if player == "" {
		return Response{Text: fmt.Sprintf("Please enter %sadd [PLAYERNAME] [GAMENAME].", d.prefix)}, nil
	}
	s, msg := d.resolve(arg(args, 1), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp, err := d.addTo(s, player, "")
	if errors.Is(err, rotation.ErrAlreadyMember) {
		resp.Text = fmt.Sprintf("%s is already a member of the queue for %s.", player, s.Game)
	}
	return resp, nil
}

func (d *Dispatcher) next(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp := Response{Game: s.Key, Changed: true}
	s.Do(func(q *rotation.Queue) {
		q.Rotate()
		resp.Text = q.Status()
	})
	return resp, nil
}

func (d *Dispatcher) status(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp := Response{Game: s.Key}
	s.Do(func(q *rotation.Queue) {
		resp.Text = q.Status()
	})
	return resp, nil
}

func (d *Dispatcher) wait(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp := Response{Game: s.Key}
	s.Do(func(q *rotation.Queue) {
		resp.Text = q.Wait(author)
	})
	return resp, nil
}

func (d *Dispatcher) delay(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp := Response{Game: s.Key}
	s.Do(func(q *rotation.Queue) {
		err := q.Delay(author)
		switch {
		case errors.Is(err, rotation.ErrNotFound):
			resp.Text = fmt.Sprintf("%s is not a player in the queue for %s.", author, s.Game)
		case errors.Is(err, rotation.ErrAlreadyDelaying):
			resp.Text = fmt.Sprintf("%s is already delaying their games. Type '%srejoin' to stop.", author, d.prefix)
		default:
			resp.Text = fmt.Sprintf("%s is now delaying their games. Type '%srejoin' to stop.\n\n", author, d.prefix) + q.Status()
			resp.Changed = true
		}
	})
	return resp, nil
}

func (d *Dispatcher) rejoin(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp := Response{Game: s.Key}
	s.Do(func(q *rotation.Queue) {
		err := q.Rejoin(author)
		switch {
		case errors.Is(err, rotation.ErrNotFound):
			resp.Text = fmt.Sprintf("%s is not a player in the queue for %s.", author, s.Game)
		case errors.Is(err, rotation.ErrNotDelaying):
			resp.Text = fmt.Sprintf("%s was not delaying games.", author)
		default:
			resp.Text = fmt.Sprintf("%s is no longer delaying their games.\n\n", author) + q.Status()
			resp.Changed = true
		}
	})
	return resp, nil
}

func (d *Dispatcher) undo(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	resp := Response{Game: s.Key}
	s.Do(func(q *rotation.Queue) {
		if q.Undo() {
			resp.Text = "Previous command has been undone. The status of the queue now is:\n\n" + q.Status()
			resp.Changed = true
			return
		}
		resp.Text = "There is nothing to undo. The status of the queue is:\n\n" + q.Status()
	})
	return resp, nil
}

// switchGame moves the author's current queue over to another game.
func (d *Dispatcher) switchGame(ctx context.Context, author string, args []string) (Response, error) {
	game := arg(args, 0)
	if game == "" {
		return Response{Text: noGameParam}, nil
	}
	given, ok := parseCutoff(arg(args, 1))
	if !ok {
		return Response{Text: badCutoff}, nil
	}
	from, err := d.sessions.Resolve("", author)
	if err != nil {
		return Response{Text: notInAnyQueue}, nil
	}

	capacity, err := d.cutoffs.Resolve(ctx, manager.Key(game), given)
	if err != nil {
		return Response{}, err
	}
	if capacity == 0 {
		return Response{Text: noCutoffParam}, nil
	}
	s, err := d.sessions.Switch(from, game, capacity, author)
	if errors.Is(err, manager.ErrNoSession) {
		// from was switched away by someone else first
		return Response{Text: noQueue(d.prefix)}, nil
	}
	if err != nil {
		return Response{}, err
	}
	resp := Response{Game: s.Key, Changed: true}
	s.Do(func(q *rotation.Queue) {
		resp.Text = fmt.Sprintf("Queue has been created for %s.\n", s.Game) + q.Status()
	})
	return resp, nil
}

func (d *Dispatcher) end(ctx context.Context, author string, args []string) (Response, error) {
	s, msg := d.resolve(arg(args, 0), author)
	if s == nil {
		return Response{Text: msg}, nil
	}
	s.Do(func(q *rotation.Queue) { q.Empty() })
	return Response{Text: queueEnded(d.prefix), Game: s.Key, Changed: true}, nil
}

func (d *Dispatcher) help(ctx context.Context, author string, args []string) (Response, error) {
	return Response{Text: helpText(d.prefix)}, nil
}
