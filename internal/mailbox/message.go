package mailbox

import (
	"errors"
	"fmt"
)

// Message is the intent held by a Mailbox.
type Message uint32

const (
	// MessageDraw asks the UI to recompute and redisplay its content.
	// Only the UI side sets it.
	MessageDraw Message = iota
	// MessageHide asks the UI to hide the popup. Set by the signal layer.
	MessageHide
	// MessageNone means no action is due.
	MessageNone
	// MessageShow asks the UI to show the popup. Set by the signal layer.
	MessageShow
)

// ErrInvalidMessage is returned for codes outside the message enumeration.
var ErrInvalidMessage = errors.New("invalid mailbox message")

// MessageFromCode converts a raw code into a Message.
func MessageFromCode(code uint32) (Message, error) {
	m := Message(code)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: code %d", ErrInvalidMessage, code)
	}
	return m, nil
}

// Valid reports whether m is one of the four defined messages.
func (m Message) Valid() bool {
	return m <= MessageShow
}

// String returns the string representation of Message.
func (m Message) String() string {
	switch m {
	case MessageDraw:
		return "draw"
	case MessageHide:
		return "hide"
	case MessageNone:
		return "none"
	case MessageShow:
		return "show"
	default:
		return "unknown"
	}
}

// InvariantViolation is the panic value raised when a mailbox observes a
// code outside the enumeration. It only happens through a programming error.
type InvariantViolation struct {
	Code uint32
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("mailbox invariant violated: code %d is not a message", v.Code)
}

func mustMessage(code uint32) Message {
	m, err := MessageFromCode(code)
	if err != nil {
		panic(InvariantViolation{Code: code})
	}
	return m
}
