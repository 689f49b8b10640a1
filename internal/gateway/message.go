package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Source classifies where an inbound message claims to originate.
type Source string

const (
	SourceFrontend Source = "frontend"
	SourceBackend  Source = "backend"
)

// Trusted reports whether messages from this source may register a
// connection and pick their own endpoint. Anything else is answered by the
// unauthorized endpoint.
func (s Source) Trusted() bool {
	return s == SourceFrontend || s == SourceBackend
}

// Endpoint names understood by the catalog.
const (
	EndpointGlobal            = "global"
	EndpointNotFound          = "not-found"
	EndpointUnauthorized      = "unauthorized"
	EndpointAuthenticatedUser = "authenticated-user"
	EndpointNotification      = "notification-broadcast"
)

// StatusFailure marks an inbound message for failure-styled logging. It has
// no other effect on routing.
const StatusFailure = "failure"

var (
	ErrMalformedMessage    = errors.New("malformed message")
	ErrMissingConnectionID = errors.New("connection id is required")

	// ErrConnectionBroken is returned by senders whose peer can no longer
	// be reached. The router drops the registry entry when it sees it.
	ErrConnectionBroken = errors.New("connection broken")
)

// WireMessage is the JSON frame exchanged with clients over the socket.
type WireMessage struct {
	Source       Source          `json:"source,omitempty"`
	ConnectionID string          `json:"connectionId,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	Status       string          `json:"status,omitempty"`
	Endpoint     string          `json:"socketEndpointName,omitempty"`
	Message      json.RawMessage `json:"message,omitempty"`
}

// UnmarshalJSON accepts both encodings of userId seen on the wire: the
// frontend sends it as a string, backend publishers as a bare integer.
// Integers are normalized to their decimal string form.
func (m *WireMessage) UnmarshalJSON(data []byte) error {
	type wireMessage WireMessage
	aux := struct {
		UserID json.RawMessage `json:"userId"`
		*wireMessage
	}{wireMessage: (*wireMessage)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := aux.UserID
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		return json.Unmarshal(raw, &m.UserID)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	m.UserID = n.String()
	return nil
}

// ParseWireMessage decodes one inbound frame. A frame that is not valid
// JSON is rejected before any routing side effect.
func ParseWireMessage(raw []byte) (*WireMessage, error) {
	var msg WireMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &msg, nil
}

// Selector names the connections a notification targets: every connection
// announced by one user, or a single connection by identifier.
type Selector struct {
	UserID       string
	ConnectionID string
}

func ByUserID(id string) Selector { return Selector{UserID: id} }

func ByConnectionID(id string) Selector { return Selector{ConnectionID: id} }

// ByUser reports whether the selector fans out to all connections of a
// user. A non-empty user id always wins over the connection id.
func (s Selector) ByUser() bool { return s.UserID != "" }

// NotificationRequest is one unit of best-effort delivery work. Requests
// are built per message, dispatched once and discarded; there is no retry
// and no identity beyond the single attempt.
type NotificationRequest struct {
	Selector   Selector
	Endpoint   string
	Payload    json.RawMessage
	CanRespond bool
}

// Envelope is the frame endpoint handlers push to clients.
type Envelope struct {
	Endpoint   string          `json:"socketEndpointName"`
	UserID     string          `json:"userId,omitempty"`
	Error      string          `json:"error,omitempty"`
	Message    json.RawMessage `json:"message,omitempty"`
	CanRespond bool            `json:"canRespond"`
}
