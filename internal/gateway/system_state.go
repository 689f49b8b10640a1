package gateway

import (
	"context"
	"encoding/json"
)

// SystemStateSource exposes the externally maintained disable flags: the
// maintenance flag file, the soft-disable flag and the soon-disabled flag.
type SystemStateSource interface {
	Maintenance(ctx context.Context) bool
	SoftDisabled(ctx context.Context) bool
	SoonDisabled(ctx context.Context) bool
}

// DisabledNotice replaces ordinary payloads while the system is disabled.
type DisabledNotice struct {
	Disabled   bool `json:"disabled"`
	CanRespond bool `json:"canRespond"`
}

// SoonDisabledNotice replaces ordinary payloads while a shutdown is
// announced but not yet in effect.
type SoonDisabledNotice struct {
	SoonDisabled bool `json:"soonDisabled"`
	CanRespond   bool `json:"canRespond"`
}

// SystemStateNotifier gates deliveries on the system-disabled signals. The
// check runs per resolved connection, immediately before handler
// invocation, so a burst of deliveries during a state transition may mix
// original and substituted payloads across targets.
type SystemStateNotifier struct {
	source SystemStateSource
}

func NewSystemStateNotifier(source SystemStateSource) *SystemStateNotifier {
	return &SystemStateNotifier{source: source}
}

// Apply returns the request to dispatch: req unchanged, or a copy carrying
// a system-state payload. The maintenance flag additionally forces
// canRespond off.
func (n *SystemStateNotifier) Apply(ctx context.Context, req *NotificationRequest) *NotificationRequest {
	switch {
	case n.source.Maintenance(ctx):
		return req.substitute(DisabledNotice{Disabled: true, CanRespond: false}, false)
	case n.source.SoftDisabled(ctx):
		return req.substitute(DisabledNotice{Disabled: true, CanRespond: req.CanRespond}, req.CanRespond)
	case n.source.SoonDisabled(ctx):
		return req.substitute(SoonDisabledNotice{SoonDisabled: true, CanRespond: req.CanRespond}, req.CanRespond)
	default:
		return req
	}
}

func (r *NotificationRequest) substitute(notice any, canRespond bool) *NotificationRequest {
	payload, _ := json.Marshal(notice)
	sub := *r
	sub.Payload = payload
	sub.CanRespond = canRespond
	return &sub
}
