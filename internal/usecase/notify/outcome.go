package notify

import (
	"context"
	"sync"

	"restaurant-console/internal/domain/notification"
)

type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Skip and failure reasons.
const (
	ReasonNoTemplate          = "no_template"
	ReasonGatewayUnconfigured = "gateway_unconfigured"
	ReasonInvalidRecipient    = "invalid_recipient"
	ReasonShuttingDown        = "shutting_down"
	ReasonGatewayError        = "gateway_error"
	ReasonGatewayPanic        = "gateway_panic"
	ReasonNotDelivered        = "not_delivered"
)

type Outcome struct {
	Status   OutcomeStatus
	Template notification.Template
	Reason   string
}

func (o Outcome) Skipped() bool { return o.Status == OutcomeSkipped }
func (o Outcome) Failed() bool  { return o.Status == OutcomeFailed }

// Receipt reports the outcome of one dispatch. Callers may ignore it; waiting
// is only needed when the outcome must be shown to the user.
type Receipt struct {
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	outcome Outcome
}

func newReceipt(tpl notification.Template) *Receipt {
	return &Receipt{
		done:    make(chan struct{}),
		outcome: Outcome{Status: OutcomePending, Template: tpl},
	}
}

func resolvedReceipt(o Outcome) *Receipt {
	r := newReceipt(o.Template)
	r.resolve(o)
	return r
}

func (r *Receipt) resolve(o Outcome) {
	r.once.Do(func() {
		r.mu.Lock()
		r.outcome = o
		r.mu.Unlock()
		close(r.done)
	})
}

func (r *Receipt) Done() <-chan struct{} {
	return r.done
}

// Outcome is a snapshot; its status is pending until the send resolves.
func (r *Receipt) Outcome() Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outcome
}

func (r *Receipt) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-r.done:
		return r.Outcome(), nil
	case <-ctx.Done():
		return r.Outcome(), ctx.Err()
	}
}
