// internal/domain/client/status.go
package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus marks a status literal outside the closed set below.
var ErrUnknownStatus = errors.New("unknown meeting status")

// Status is the outcome recorded for one meeting month. Values read from
// storage are kept verbatim so corrupted literals stay visible instead of
// collapsing into StatusPending.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusDone           Status = "DONE"
	StatusNotDone        Status = "NOT_DONE"
	StatusRescheduled    Status = "RESCHEDULED"
	StatusClosedContract Status = "CLOSED_CONTRACT"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusPending,
	StatusDone,
	StatusNotDone,
	StatusRescheduled,
	StatusClosedContract,
}

var statusLabels = map[Status]string{
	StatusPending:        "Pendente",
	StatusDone:           "Realizada",
	StatusNotDone:        "Não Realizada",
	StatusRescheduled:    "Remarcada",
	StatusClosedContract: "Contrato Encerrado",
}

// ParseStatus accepts a wire literal in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Settled reports whether no further action is expected for the meeting.
func (s Status) Settled() bool {
	return s == StatusDone || s == StatusClosedContract
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("Desconhecido (%s)", string(s))
}
