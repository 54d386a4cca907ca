package game

// Agent chooses a card for a seat. Agents receive an immutable snapshot and
// return a hand index; the engine applies the play.
type Agent interface {
	// ChooseCard returns the hand index to play, or false when the seat has
	// no cards.
	ChooseCard(state TableState, seat int) (int, bool)
}

// AgentFunc adapts a function to Agent
type AgentFunc func(state TableState, seat int) (int, bool)

// ChooseCard calls f(state, seat)
func (f AgentFunc) ChooseCard(state TableState, seat int) (int, bool) { return f(state, seat) }
