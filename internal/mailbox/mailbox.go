package mailbox

import "sync/atomic"

// Mailbox is a lock-free single-slot cell holding one Message.
// All operations are sequentially consistent and never block.
type Mailbox struct {
	code atomic.Uint32
}

// New creates a Mailbox holding initial.
func New(initial Message) *Mailbox {
	m := &Mailbox{}
	m.Store(initial)
	return m
}

// Load returns the current message.
func (m *Mailbox) Load() Message {
	return mustMessage(m.code.Load())
}

// Store overwrites the current message. Storing a value outside the
// enumeration panics.
func (m *Mailbox) Store(msg Message) {
	m.code.Store(uint32(mustMessage(uint32(msg))))
}

// CompareAndSwap replaces old with next only if the mailbox still holds old.
func (m *Mailbox) CompareAndSwap(old, next Message) bool {
	mustMessage(uint32(next))
	return m.code.CompareAndSwap(uint32(old), uint32(next))
}
