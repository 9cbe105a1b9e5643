package mailbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageString(t *testing.T) {
	tests := []struct {
		msg      Message
		expected string
	}{
		{MessageDraw, "draw"},
		{MessageHide, "hide"},
		{MessageNone, "none"},
		{MessageShow, "show"},
		{Message(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.msg.String())
		})
	}
}

func TestMessageFromCode(t *testing.T) {
	for code := uint32(0); code <= 3; code++ {
		m, err := MessageFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, Message(code), m)
	}

	_, err := MessageFromCode(4)
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMailbox_LastWriteWins(t *testing.T) {
	mb := New(MessageDraw)
	assert.Equal(t, MessageDraw, mb.Load())

	sequences := [][]Message{
		{MessageHide},
		{MessageShow, MessageHide},
		{MessageHide, MessageShow, MessageShow},
		{MessageNone, MessageDraw, MessageHide, MessageNone},
	}
	for _, seq := range sequences {
		for _, m := range seq {
			mb.Store(m)
		}
		assert.Equal(t, seq[len(seq)-1], mb.Load())
	}
}

func TestMailbox_CompareAndSwap(t *testing.T) {
	mb := New(MessageShow)

	assert.True(t, mb.CompareAndSwap(MessageShow, MessageDraw))
	assert.Equal(t, MessageDraw, mb.Load())

	assert.False(t, mb.CompareAndSwap(MessageHide, MessageNone))
	assert.Equal(t, MessageDraw, mb.Load())
}

func TestMailbox_StoreInvalidPanics(t *testing.T) {
	mb := New(MessageNone)

	assert.PanicsWithValue(t, InvariantViolation{Code: 7}, func() {
		mb.Store(Message(7))
	})
	assert.Equal(t, MessageNone, mb.Load())
}

func TestMailbox_LoadCorruptPanics(t *testing.T) {
	mb := New(MessageNone)
	mb.code.Store(42)

	assert.Panics(t, func() {
		_ = mb.Load()
	})
}

func TestMailbox_ConcurrentWritersNeverTear(t *testing.T) {
	mb := New(MessageNone)
	writes := []Message{MessageDraw, MessageHide, MessageNone, MessageShow}

	var wg sync.WaitGroup
	for _, m := range writes {
		wg.Add(1)
		go func(m Message) {
			defer wg.Done()
			for range 1000 {
				mb.Store(m)
			}
		}(m)
	}

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
				assert.True(t, mb.Load().Valid())
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-readerDone

	assert.Contains(t, writes, mb.Load())
}
