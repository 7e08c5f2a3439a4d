package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier queues messages for a background dispatcher goroutine, so the
// request path never waits on the SMS provider. When sender or destination is
// missing the notifier is inert and silently drops everything.
type Notifier struct {
	sender  Sender
	to      string
	log     *zap.Logger
	inbox   chan Message
	closeCh chan struct{}
}

func New(sender Sender, to string, log *zap.Logger, buf int) *Notifier {
	if buf <= 0 {
		buf = 64
	}
	return &Notifier{
		sender:  sender,
		to:      to,
		log:     log,
		inbox:   make(chan Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Enabled reports whether messages will actually be dispatched.
func (n *Notifier) Enabled() bool { return n.sender != nil && n.to != "" }

// Start launches the dispatcher loop. Each send gets its own timeout; errors
// are logged and the message is abandoned, never retried.
func (n *Notifier) Start(ctx context.Context) {
	go func() {
		defer close(n.closeCh)
		for {
			select {
			case <-ctx.Done():
				// flush whatever was queued before shutdown
				for {
					select {
					case m, ok := <-n.inbox:
						if !ok {
							return
						}
						n.dispatch(m)
					default:
						return
					}
				}
			case m, ok := <-n.inbox:
				if !ok {
					return
				}
				n.dispatch(m)
			}
		}
	}()
}

func (n *Notifier) dispatch(m Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := n.sender.Send(ctx, m); err != nil {
		n.log.Warn("sms delivery failed", zap.String("msg_id", m.ID), zap.Error(err))
		return
	}
	n.log.Info("sms delivered", zap.String("msg_id", m.ID))
}

// Notify queues one message for the configured destination. It never blocks:
// when the notifier is inert the message is skipped, and when the inbox is
// full it is dropped with a log line.
func (n *Notifier) Notify(body string) {
	if !n.Enabled() {
		return
	}
	m := Message{ID: uuid.NewString(), Body: body, To: n.to}
	select {
	case n.inbox <- m:
	default:
		n.log.Warn("sms inbox full, dropping", zap.String("msg_id", m.ID))
	}
}

// Close stops accepting messages; the dispatcher drains the rest and exits.
func (n *Notifier) Close() { close(n.inbox) }

// WaitClosed blocks until the dispatcher goroutine has finished.
func (n *Notifier) WaitClosed() { <-n.closeCh }
