package mailbox

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotifier captures the router channel so tests can inject signals.
type fakeNotifier struct {
	mu      sync.Mutex
	ch      chan<- os.Signal
	signals []os.Signal
	stopped bool
}

func (f *fakeNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ch = c
	f.signals = append(f.signals, sig...)
}

func (f *fakeNotifier) Stop(c chan<- os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeNotifier) deliver(sig os.Signal) {
	f.mu.Lock()
	ch := f.ch
	f.mu.Unlock()
	ch <- sig
}

func TestRouter_DeliversRoutedMessage(t *testing.T) {
	mb := New(MessageNone)
	n := &fakeNotifier{}
	r := NewRouterWithNotifier(mb, n, nil)
	defer r.Stop()

	require.NoError(t, r.Register(syscall.SIGUSR1, MessageHide))
	require.NoError(t, r.Register(syscall.SIGUSR2, MessageShow))
	assert.Equal(t, []os.Signal{syscall.SIGUSR1, syscall.SIGUSR2}, n.signals)

	n.deliver(syscall.SIGUSR2)
	assert.Eventually(t, func() bool { return mb.Load() == MessageShow }, time.Second, time.Millisecond)

	n.deliver(syscall.SIGUSR1)
	assert.Eventually(t, func() bool { return mb.Load() == MessageHide }, time.Second, time.Millisecond)
}

func TestRouter_IgnoresUnroutedSignal(t *testing.T) {
	mb := New(MessageNone)
	n := &fakeNotifier{}
	r := NewRouterWithNotifier(mb, n, nil)

	require.NoError(t, r.Register(syscall.SIGUSR1, MessageHide))
	n.deliver(syscall.SIGHUP)
	r.Stop()

	assert.True(t, n.stopped)
	assert.Equal(t, MessageNone, mb.Load())
}

func TestRouter_RegisterErrors(t *testing.T) {
	tests := []struct {
		name string
		sig  os.Signal
		msg  Message
		err  error
	}{
		{"invalid message", syscall.SIGUSR1, Message(9), ErrInvalidMessage},
		{"kill", syscall.SIGKILL, MessageHide, ErrUncatchableSignal},
		{"stop", syscall.SIGSTOP, MessageHide, ErrUncatchableSignal},
		{"interrupt reserved", os.Interrupt, MessageHide, ErrSignalClaimed},
		{"term reserved", syscall.SIGTERM, MessageHide, ErrSignalClaimed},
		{"out of range", syscall.Signal(200), MessageHide, ErrUnsupportedSignal},
		{"zero", syscall.Signal(0), MessageHide, ErrUnsupportedSignal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouterWithNotifier(New(MessageNone), &fakeNotifier{}, nil)
			defer r.Stop()

			err := r.Register(tt.sig, tt.msg)
			var setupErr *SetupError
			require.ErrorAs(t, err, &setupErr)
			assert.Equal(t, tt.sig, setupErr.Signal)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRouter_RegisterTwice(t *testing.T) {
	r := NewRouterWithNotifier(New(MessageNone), &fakeNotifier{}, nil)
	defer r.Stop()

	require.NoError(t, r.Register(syscall.SIGUSR1, MessageHide))
	err := r.Register(syscall.SIGUSR1, MessageShow)
	assert.ErrorIs(t, err, ErrSignalClaimed)
}

func TestRouter_StopWithoutRegister(t *testing.T) {
	r := NewRouterWithNotifier(New(MessageNone), &fakeNotifier{}, nil)
	r.Stop()
	r.Stop()
}

func TestRouter_RealSignals(t *testing.T) {
	mb := New(MessageDraw)
	r := NewRouter(mb, nil)
	defer r.Stop()

	require.NoError(t, r.Register(syscall.SIGUSR1, MessageHide))
	require.NoError(t, r.Register(syscall.SIGUSR2, MessageShow))

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))
	assert.Eventually(t, func() bool { return mb.Load() == MessageHide }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR2))
	assert.Eventually(t, func() bool { return mb.Load() == MessageShow }, 2*time.Second, 5*time.Millisecond)
}
