package reservation

import "strings"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	// StatusLate is derived by the Evaluator and never persisted.
	StatusLate     Status = "late"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
	StatusCanceled Status = "canceled"
	StatusRejected Status = "rejected"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusLate,
	StatusActive,
	StatusFinished,
	StatusCanceled,
	StatusRejected,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusLate, StatusActive,
		StatusFinished, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsPersistable reports whether the status may be written to a store.
func (s Status) IsPersistable() bool {
	return s.IsValid() && s != StatusLate
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionReject   Action = "reject"
	ActionEdit     Action = "edit"
	ActionActivate Action = "activate"
	ActionFinish   Action = "finish"
	ActionCancel   Action = "cancel"
)

var AllActions = []Action{
	ActionConfirm,
	ActionReject,
	ActionEdit,
	ActionActivate,
	ActionFinish,
	ActionCancel,
}

func (a Action) String() string {
	return string(a)
}

func (a Action) IsValid() bool {
	switch a {
	case ActionConfirm, ActionReject, ActionEdit, ActionActivate, ActionFinish, ActionCancel:
		return true
	default:
		return false
	}
}

func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", ErrUnknownAction
	}
	return a, nil
}
