package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/pkg/metrics"
)

const panicStackLines = 12

type Delivery struct {
	Delivered bool
	Reason    string
}

//go:generate mockgen -source=dispatcher.go -destination=../../../tests/mock/notify/dispatcher.go -package=notifymock

// Gateway is the transport that hands a message to an email/SMS provider.
type Gateway interface {
	Send(ctx context.Context, msg notification.Message) (Delivery, error)
}

// Dispatcher delivers one notification per accepted transition. Sends run on
// their own goroutine, detached from the caller's cancellation, and are never
// retried.
type Dispatcher struct {
	gateway     Gateway
	logger      *slog.Logger
	metrics     *metrics.Metrics
	sendTimeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher accepts a nil gateway; every dispatch is then skipped.
func NewDispatcher(gateway Gateway, logger *slog.Logger, m *metrics.Metrics, sendTimeout time.Duration) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		gateway:     gateway,
		logger:      logger,
		metrics:     m,
		sendTimeout: sendTimeout,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, e notification.Event) *Receipt {
	log := d.logger.With(
		slog.String("reservation_id", e.Reservation.ID.String()),
		slog.String("event", string(e.Type)),
	)

	msg, ok := notification.Render(e)
	if !ok {
		return d.skip(log, "", ReasonNoTemplate)
	}
	if d.gateway == nil {
		return d.skip(log, msg.Template, ReasonGatewayUnconfigured)
	}
	if _, err := reservation.NewEmail(msg.To); err != nil {
		return d.skip(log, msg.Template, ReasonInvalidRecipient)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		log.Warn("notification dropped during shutdown", slog.String("template", string(msg.Template)))
		return d.finish(Outcome{Status: OutcomeFailed, Template: msg.Template, Reason: ReasonShuttingDown})
	}
	d.wg.Add(1)
	d.mu.Unlock()

	receipt := newReceipt(msg.Template)
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		receipt.resolve(d.send(sendCtx, log, msg))
	}()
	return receipt
}

func (d *Dispatcher) send(ctx context.Context, log *slog.Logger, msg notification.Message) (out Outcome) {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			err := errs.Newf("gateway panic: %v", p)
			log.Error("notification gateway panicked",
				slog.String("template", string(msg.Template)),
				slog.Any("error", err),
				slog.Any("stack", errs.ExtractStackLines(err, panicStackLines)))
			out = d.record(Outcome{Status: OutcomeFailed, Template: msg.Template, Reason: ReasonGatewayPanic})
		}
	}()

	delivery, err := d.gateway.Send(ctx, msg)
	switch {
	case err != nil:
		log.Warn("notification send failed",
			slog.String("template", string(msg.Template)),
			slog.Any("error", err))
		return d.record(Outcome{Status: OutcomeFailed, Template: msg.Template, Reason: ReasonGatewayError})
	case !delivery.Delivered:
		reason := delivery.Reason
		if reason == "" {
			reason = ReasonNotDelivered
		}
		log.Warn("notification not delivered",
			slog.String("template", string(msg.Template)),
			slog.String("reason", reason))
		return d.record(Outcome{Status: OutcomeFailed, Template: msg.Template, Reason: reason})
	}

	log.Debug("notification sent", slog.String("template", string(msg.Template)))
	return d.record(Outcome{Status: OutcomeSent, Template: msg.Template})
}

func (d *Dispatcher) skip(log *slog.Logger, tpl notification.Template, reason string) *Receipt {
	log.Debug("notification skipped",
		slog.String("template", string(tpl)),
		slog.String("reason", reason))
	return d.finish(Outcome{Status: OutcomeSkipped, Template: tpl, Reason: reason})
}

func (d *Dispatcher) finish(o Outcome) *Receipt {
	return resolvedReceipt(d.record(o))
}

func (d *Dispatcher) record(o Outcome) Outcome {
	tpl := string(o.Template)
	if tpl == "" {
		tpl = "none"
	}
	d.metrics.Notifications.WithLabelValues(tpl, string(o.Status)).Inc()
	return o
}

// Shutdown stops accepting sends and waits for in-flight ones or ctx.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
