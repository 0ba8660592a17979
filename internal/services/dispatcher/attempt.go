package dispatcher

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

type State string

const (
	StateIdle               State = "Idle"
	StateOrderRequested     State = "OrderRequested"
	StateInstrumentInFlight State = "InstrumentInFlight"
	StateSettling           State = "Settling"
	StateResolved           State = "Resolved"
)

var transitions = map[State][]State{
	StateIdle:               {StateOrderRequested, StateResolved},
	StateOrderRequested:     {StateInstrumentInFlight, StateSettling, StateResolved},
	StateInstrumentInFlight: {StateSettling, StateResolved},
	StateSettling:           {StateResolved},
}

// Attempt is one checkout attempt. It owns its order and outcome; nothing
// is shared between attempts.
type Attempt struct {
	ID    string
	Token models.AccessToken
	Order *models.Order

	mutex   sync.Mutex
	state   State
	history []State
}

func NewAttempt() *Attempt {
	return &Attempt{ID: uuid.NewString(), state: StateIdle, history: []State{StateIdle}}
}

func (a *Attempt) State() State {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state
}

func (a *Attempt) History() []State {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return append([]State(nil), a.history...)
}

func (a *Attempt) Transition(to State) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	for _, allowed := range transitions[a.state] {
		if allowed == to {
			a.state = to
			a.history = append(a.history, to)
			return nil
		}
	}
	return fmt.Errorf("attempt %s: illegal transition %s -> %s", a.ID, a.state, to)
}

// resolve moves to Resolved from any non-terminal state.
func (a *Attempt) resolve() {
	_ = a.Transition(StateResolved)
}
