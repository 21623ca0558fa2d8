package manager

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/rotation"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager()
	s, err := m.Create("Overwatch", 6, "ana", "rein")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Overwatch", s.Game)

	got, ok := m.Get("OVERWATCH")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Same(t, s, got)

	_, err = m.Create(" overwatch ", 5)
	assert.ErrorIs(t, err, ErrSessionExists)

	_, err = m.Create("", 5)
	assert.ErrorIs(t, err, ErrInvalidGame)

	_, err = m.Create("chess", 0)
	assert.ErrorIs(t, err, rotation.ErrInvalidCapacity)
}

func TestManagerDeleteAndList(t *testing.T) {
	m := NewManager()
	_, _ = m.Create("valorant", 5)
	_, _ = m.Create("Apex", 3)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "apex", list[0].Key)

	assert.True(t, m.Delete("APEX"))
	assert.False(t, m.Delete("apex"))
	assert.Len(t, m.List(), 1)
}

func TestManagerResolve(t *testing.T) {
	m := NewManager()
	_, err := m.Resolve("", "ana")
	assert.ErrorIs(t, err, ErrNoSession)

	ow, _ := m.Create("overwatch", 6, "ana")
	s, err := m.Resolve("", "nobody")
	require.NoError(t, err)
	assert.Same(t, ow, s, "single session is used")

	val, _ := m.Create("valorant", 5, "jett", "both")
	ow.Do(func(q *rotation.Queue) { _, _ = q.Add("both") })

	s, err = m.Resolve("", "jett")
	require.NoError(t, err)
	assert.Same(t, val, s)

	_, err = m.Resolve("", "both")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = m.Resolve("", "nobody")
	assert.ErrorIs(t, err, ErrAmbiguous)

	s, err = m.Resolve("Valorant", "ana")
	require.NoError(t, err)
	assert.Same(t, val, s)

	_, err = m.Resolve("chess", "ana")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerSwitch(t *testing.T) {
	m := NewManager()
	ow, _ := m.Create("overwatch", 2, "a", "b", "c")

	s, err := m.Switch(ow, "Valorant", 3, "c", "d")
	require.NoError(t, err)
	info := s.Info()
	assert.Equal(t, "Valorant", info.Game)
	assert.Equal(t, 3, info.Capacity)
	assert.Len(t, info.Current, 3)
	assert.Equal(t, "d", info.Waiting[0].Name)

	assert.Empty(t, ow.Info().Current, "old queue is emptied")
	_, ok := m.Get("overwatch")
	assert.False(t, ok, "old game is dropped")
	got, ok := m.Get("valorant")
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestManagerSwitchRetiresOldSessions(t *testing.T) {
	m := NewManager()
	ow, _ := m.Create("overwatch", 2, "a")
	val, _ := m.Create("valorant", 2, "z")

	_, err := m.Switch(ow, "valorant", 2)
	require.NoError(t, err)

	assert.False(t, ow.Live(func(q *rotation.Queue) { t.Fatal("ran on a switched session") }))
	assert.False(t, val.Live(func(q *rotation.Queue) { t.Fatal("ran on a replaced session") }))

	_, err = m.Switch(ow, "chess", 2)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerDeleteRetires(t *testing.T) {
	m := NewManager()
	s, _ := m.Create("overwatch", 2, "a")
	require.True(t, m.Delete("Overwatch"))
	assert.False(t, s.Live(func(q *rotation.Queue) {}))
	assert.False(t, m.Delete("overwatch"))
}

func TestManagerSwitchDuringJoins(t *testing.T) {
	for round := 0; round < 20; round++ {
		m := NewManager()
		ow, _ := m.Create("overwatch", 2, "a")

		added := make(chan string, 50)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				name := fmt.Sprintf("p%d", i)
				ow.Live(func(q *rotation.Queue) {
					if _, err := q.Add(name); err == nil {
						added <- name
					}
				})
			}(i)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Switch(ow, "valorant", 2)
			assert.NoError(t, err)
		}()
		wg.Wait()
		close(added)

		val, ok := m.Get("valorant")
		require.True(t, ok)
		for name := range added {
			assert.True(t, val.Has(name), "%s joined before the switch but was lost", name)
		}
	}
}

func TestSessionInfo(t *testing.T) {
	m := NewManager()
	s, _ := m.Create("overwatch", 1, "a", "b")
	info := s.Info()
	assert.Equal(t, "a", info.Current[0].Name)
	assert.Equal(t, "b", info.Waiting[0].Name)
	assert.Contains(t, info.Status, "The players in the next game are: ")
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("z"))
}

func TestSessionSerialisesCommands(t *testing.T) {
	m := NewManager()
	s, _ := m.Create("overwatch", 6)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Do(func(q *rotation.Queue) {
				_, _ = q.Add(fmt.Sprintf("p%d", i))
				q.Rotate()
			})
		}(i)
	}
	wg.Wait()

	s.Do(func(q *rotation.Queue) {
		assert.Equal(t, 50, q.Len())
		assert.Len(t, q.Current(), 6)
	})
}

func TestManagerConcurrentCreate(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Create("overwatch", 6)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}
