package mailbox

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// maxSignal bounds the signal numbers a Router can route (Linux has 64).
const maxSignal = 65

var (
	// ErrUnsupportedSignal is returned for values that are not POSIX signal numbers.
	ErrUnsupportedSignal = errors.New("signal not supported")
	// ErrUncatchableSignal is returned for signals the OS never delivers to handlers.
	ErrUncatchableSignal = errors.New("signal cannot be caught")
	// ErrSignalClaimed is returned when a signal is already routed or reserved.
	ErrSignalClaimed = errors.New("signal already claimed")
)

// SetupError reports a failed signal registration.
type SetupError struct {
	Signal os.Signal
	Err    error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("register %v: %v", e.Signal, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Notifier relays OS signals into a channel. os/signal is the production
// implementation; tests substitute their own.
type Notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type osNotifier struct{}

func (osNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (osNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// reserved signals are handled elsewhere (shutdown, runtime preemption).
var reserved = map[syscall.Signal]bool{
	syscall.SIGINT:  true,
	syscall.SIGTERM: true,
	syscall.SIGURG:  true,
}

// Router stores a fixed Message into a Mailbox whenever a registered signal
// arrives. The Go runtime bridges the asynchronous handler onto the router's
// goroutine; from there delivery is one atomic route lookup and one atomic
// store, with no locks and no allocation.
type Router struct {
	mailbox  *Mailbox
	notifier Notifier
	logger   *slog.Logger

	// routes holds message code + 1 per signal number, 0 when unrouted.
	routes [maxSignal]atomic.Uint32

	ch       chan os.Signal
	done     chan struct{}
	start    sync.Once
	stopOnce sync.Once
	started  atomic.Bool
}

// NewRouter creates a Router backed by os/signal.
func NewRouter(mb *Mailbox, logger *slog.Logger) *Router {
	return NewRouterWithNotifier(mb, osNotifier{}, logger)
}

// NewRouterWithNotifier creates a Router backed by the given Notifier.
func NewRouterWithNotifier(mb *Mailbox, notifier Notifier, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		mailbox:  mb,
		notifier: notifier,
		logger:   logger,
		ch:       make(chan os.Signal, 8),
		done:     make(chan struct{}),
	}
}

// Register routes sig to msg. Registrations are meant to happen once at
// startup and stay installed for the life of the process.
func (r *Router) Register(sig os.Signal, msg Message) error {
	if !msg.Valid() {
		return &SetupError{Signal: sig, Err: fmt.Errorf("%w: code %d", ErrInvalidMessage, uint32(msg))}
	}

	num, ok := sig.(syscall.Signal)
	if !ok || num <= 0 || int(num) >= maxSignal {
		return &SetupError{Signal: sig, Err: ErrUnsupportedSignal}
	}
	if num == syscall.SIGKILL || num == syscall.SIGSTOP {
		return &SetupError{Signal: sig, Err: ErrUncatchableSignal}
	}
	if reserved[num] {
		return &SetupError{Signal: sig, Err: ErrSignalClaimed}
	}
	if !r.routes[num].CompareAndSwap(0, uint32(msg)+1) {
		return &SetupError{Signal: sig, Err: ErrSignalClaimed}
	}

	r.start.Do(func() {
		r.started.Store(true)
		go r.dispatch()
	})
	r.notifier.Notify(r.ch, sig)

	r.logger.Debug("signal routed", "signal", sig, "message", msg)
	return nil
}

// Stop uninstalls all routes. The popup never calls it; it exists for tests
// and orderly shutdown.
func (r *Router) Stop() {
	r.stopOnce.Do(func() {
		r.notifier.Stop(r.ch)
		if !r.started.Load() {
			return
		}
		close(r.ch)
		<-r.done
	})
}

func (r *Router) dispatch() {
	defer close(r.done)

	for sig := range r.ch {
		num, ok := sig.(syscall.Signal)
		if !ok || num <= 0 || int(num) >= maxSignal {
			continue
		}
		code := r.routes[num].Load()
		if code == 0 {
			continue
		}
		r.mailbox.Store(Message(code - 1))
	}
}
