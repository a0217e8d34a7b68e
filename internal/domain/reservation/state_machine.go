package reservation

// transitions is the complete table of legal (status, action) pairs.
// Late is reachable only through the Evaluator, never as a result.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionConfirm: StatusConfirmed,
		ActionReject:  StatusRejected,
		ActionCancel:  StatusCanceled,
		ActionEdit:    StatusPending,
	},
	StatusConfirmed: {
		ActionActivate: StatusActive,
		ActionCancel:   StatusCanceled,
		ActionEdit:     StatusConfirmed,
	},
	StatusLate: {
		ActionActivate: StatusActive,
		ActionCancel:   StatusCanceled,
		ActionEdit:     StatusConfirmed,
	},
	StatusActive: {
		ActionFinish: StatusFinished,
	},
}

// Transition returns the status that action leads to from current.
func Transition(current Status, action Action) (Status, error) {
	if current.IsTerminal() {
		return "", ErrTerminalState
	}
	next, ok := transitions[current][action]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// Allowed lists the actions accepted from current, in AllActions order.
func Allowed(current Status) []Action {
	var out []Action
	for _, a := range AllActions {
		if _, ok := transitions[current][a]; ok {
			out = append(out, a)
		}
	}
	return out
}
