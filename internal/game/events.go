package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/bhabhi/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameStart     EventType = "game_start"
	EventTypeCardPlayed    EventType = "card_played"
	EventTypePlayRejected  EventType = "play_rejected"
	EventTypeTrickComplete EventType = "trick_complete"
	EventTypeTrickResolved EventType = "trick_resolved"
	EventTypeSeatFinished  EventType = "seat_finished"
	EventTypeGameEnd       EventType = "game_end"
	EventTypeGamePause     EventType = "game_pause"
	EventTypeGameResume    EventType = "game_resume"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published after the deal
type GameStartEvent struct {
	GameID    string
	Seats     []string
	HandSizes []int
	Leader    int
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// CardPlayedEvent is published for every accepted play
type CardPlayedEvent struct {
	Seat      int
	Name      string
	Card      deck.Card
	Lead      bool
	Tochoo    bool
	timestamp time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// PlayRejectedEvent is published when a play is refused. Reason is one of the
// rule errors in rules.go.
type PlayRejectedEvent struct {
	Seat      int
	CardIndex int
	Reason    error
	timestamp time.Time
}

func (e PlayRejectedEvent) EventType() EventType { return EventTypePlayRejected }
func (e PlayRejectedEvent) Timestamp() time.Time { return e.timestamp }

// TrickCompleteEvent is published when a trick is triggered for resolution,
// before any state has moved.
type TrickCompleteEvent struct {
	Suit      deck.Suit
	Cards     []PlayedCard
	Tochoo    bool
	timestamp time.Time
}

func (e TrickCompleteEvent) EventType() EventType { return EventTypeTrickComplete }
func (e TrickCompleteEvent) Timestamp() time.Time { return e.timestamp }

// TrickResolvedEvent is published once the trick's cards have moved
type TrickResolvedEvent struct {
	Outcome   TrickOutcome
	timestamp time.Time
}

func (e TrickResolvedEvent) EventType() EventType { return EventTypeTrickResolved }
func (e TrickResolvedEvent) Timestamp() time.Time { return e.timestamp }

// SeatFinishedEvent is published when a seat receives its rank
type SeatFinishedEvent struct {
	Finish    Finish
	timestamp time.Time
}

func (e SeatFinishedEvent) EventType() EventType { return EventTypeSeatFinished }
func (e SeatFinishedEvent) Timestamp() time.Time { return e.timestamp }

// GameEndEvent is published when at most one seat remains
type GameEndEvent struct {
	GameID      string
	FinishOrder []Finish
	Tricks      int
	timestamp   time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// GamePauseEvent is published when the controller pauses or resumes
type GamePauseEvent struct {
	Paused    bool
	Phase     Phase
	timestamp time.Time
}

func (e GamePauseEvent) EventType() EventType {
	if e.Paused {
		return EventTypeGamePause
	}
	return EventTypeGameResume
}
func (e GamePauseEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Delivery is synchronous on
// the publishing goroutine.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// SubscriberFunc adapts a function to EventSubscriber. Function values are
// not comparable, so a SubscriberFunc cannot be unsubscribed.
type SubscriberFunc func(GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventFormatter turns events into one-line log entries. Seat names are
// resolved from the events themselves or from the supplied names.
type EventFormatter struct {
	names []string
}

// NewEventFormatter creates a formatter for a table with the given seat names
func NewEventFormatter(names []string) *EventFormatter {
	return &EventFormatter{names: names}
}

func (ef *EventFormatter) name(seat int) string {
	if seat >= 0 && seat < len(ef.names) {
		return ef.names[seat]
	}
	return fmt.Sprintf("P%d", seat+1)
}

// Format renders event, returning "" for events that have no log line
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case GameStartEvent:
		parts := make([]string, len(e.Seats))
		for i, n := range e.Seats {
			parts[i] = fmt.Sprintf("%s(%d)", n, e.HandSizes[i])
		}
		return fmt.Sprintf("*** NEW GAME *** %s; %s leads", strings.Join(parts, " "), ef.name(e.Leader))
	case CardPlayedEvent:
		switch {
		case e.Lead:
			return fmt.Sprintf("%s: leads %s", e.Name, e.Card)
		case e.Tochoo:
			return fmt.Sprintf("%s: tochoo! plays %s", e.Name, e.Card)
		default:
			return fmt.Sprintf("%s: plays %s", e.Name, e.Card)
		}
	case TrickResolvedEvent:
		o := e.Outcome
		if o.Tochoo {
			return fmt.Sprintf("%s picks up %d cards (%s)", ef.name(o.Recipient), len(o.Cards), o.Suit.Name())
		}
		return fmt.Sprintf("%s wins the trick, %d cards discarded", ef.name(o.Recipient), len(o.Cards))
	case SeatFinishedEvent:
		return fmt.Sprintf("%s is out in position %d", e.Finish.Name, e.Finish.Rank)
	case GameEndEvent:
		if len(e.FinishOrder) == 0 {
			return "*** GAME OVER ***"
		}
		loser := e.FinishOrder[len(e.FinishOrder)-1]
		return fmt.Sprintf("*** GAME OVER *** %s is the bhabhi", loser.Name)
	case GamePauseEvent:
		if e.Paused {
			return "Game paused"
		}
		return "Game resumed"
	}
	return ""
}
