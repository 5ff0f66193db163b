package feed

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register transports for the SUB socket.
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/sangeeta1998/lanc/pkg/logging"
)

// recvDeadline bounds each socket receive so Stop is observed promptly.
const recvDeadline = 500 * time.Millisecond

// Listener receives JSON-encoded trust updates over a mangos SUB socket
// and publishes them onto the bus. Malformed or invalid messages are
// logged and dropped.
type Listener struct {
	addr   string
	bus    *Bus
	logger logging.Logger

	sock     mangos.Socket
	validate *validator.Validate

	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex
}

// NewListener creates a listener that will dial or listen at addr
// (for example "tcp://0.0.0.0:7101").
func NewListener(addr string, bus *Bus, logger logging.Logger) *Listener {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Listener{
		addr:     addr,
		bus:      bus,
		logger:   logger,
		validate: validator.New(),
		stopCh:   make(chan struct{}),
	}
}

// Start opens the SUB socket and begins the receive loop.
func (l *Listener) Start() error {
	l.runningMu.Lock()
	defer l.runningMu.Unlock()

	if l.running {
		return fmt.Errorf("listener already running")
	}

	sock, err := sub.NewSocket()
	if err != nil {
		return fmt.Errorf("failed to create SUB socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte("")); err != nil {
		sock.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, recvDeadline); err != nil {
		sock.Close()
		return fmt.Errorf("failed to set receive deadline: %w", err)
	}
	if err := sock.Listen(l.addr); err != nil {
		sock.Close()
		return fmt.Errorf("failed to listen on %s: %w", l.addr, err)
	}

	l.sock = sock
	l.running = true
	l.wg.Add(1)
	go l.receiveLoop()

	l.logger.Info("feed listener started", logging.String("addr", l.addr))
	return nil
}

// Stop ends the receive loop and closes the socket.
func (l *Listener) Stop() {
	l.runningMu.Lock()
	if !l.running {
		l.runningMu.Unlock()
		return
	}
	l.running = false
	close(l.stopCh)
	l.runningMu.Unlock()

	l.wg.Wait()
	if l.sock != nil {
		l.sock.Close()
	}
	l.logger.Info("feed listener stopped")
}

func (l *Listener) receiveLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopCh:
			return
		default:
		}

		raw, err := l.sock.Recv()
		if err != nil {
			if err == mangos.ErrRecvTimeout {
				continue
			}
			select {
			case <-l.stopCh:
				return
			default:
			}
			l.logger.Warn("feed receive failed", logging.Error(err))
			continue
		}

		update, err := l.decode(raw)
		if err != nil {
			l.logger.Warn("feed message dropped", logging.Error(err))
			continue
		}
		l.bus.Publish(update)
	}
}

func (l *Listener) decode(raw []byte) (Update, error) {
	var update Update
	if err := json.Unmarshal(raw, &update); err != nil {
		return Update{}, fmt.Errorf("malformed update: %w", err)
	}
	if err := l.validate.Struct(update); err != nil {
		return Update{}, fmt.Errorf("invalid update: %w", err)
	}
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}
	return update, nil
}
