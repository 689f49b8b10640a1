package gateway

// EndpointHandler is the per-topic behavior invoked once a target
// connection is resolved. Handlers are stateless; replies go out through
// the connection's own handle.
type EndpointHandler interface {
	Handle(conn *Connection, req *NotificationRequest) error
}

// EndpointCatalog maps endpoint names to handlers. The set is closed;
// unknown names resolve to the not-found handler so a malformed or
// outdated client cannot crash the gateway.
type EndpointCatalog struct {
	handlers map[string]EndpointHandler
	notFound EndpointHandler
}

func NewEndpointCatalog() *EndpointCatalog {
	return &EndpointCatalog{
		handlers: map[string]EndpointHandler{
			EndpointGlobal:            globalHandler{},
			EndpointUnauthorized:      unauthorizedHandler{},
			EndpointAuthenticatedUser: authenticatedUserHandler{},
			EndpointNotification:      notificationHandler{},
		},
		notFound: notFoundHandler{},
	}
}

// Resolve never fails: an empty name means the global endpoint, an unknown
// one the not-found handler.
func (c *EndpointCatalog) Resolve(name string) EndpointHandler {
	if name == "" {
		name = EndpointGlobal
	}
	if h, ok := c.handlers[name]; ok {
		return h
	}
	return c.notFound
}

type globalHandler struct{}

func (globalHandler) Handle(conn *Connection, req *NotificationRequest) error {
	return conn.Send(Envelope{
		Endpoint:   EndpointGlobal,
		Message:    req.Payload,
		CanRespond: req.CanRespond,
	})
}

// notFoundHandler still forwards the payload: a system-state substitution
// must reach the client even when it asked for an endpoint that does not
// exist.
type notFoundHandler struct{}

func (notFoundHandler) Handle(conn *Connection, req *NotificationRequest) error {
	return conn.Send(Envelope{
		Endpoint:   EndpointNotFound,
		Error:      "unknown endpoint: " + req.Endpoint,
		Message:    req.Payload,
		CanRespond: req.CanRespond,
	})
}

type unauthorizedHandler struct{}

func (unauthorizedHandler) Handle(conn *Connection, req *NotificationRequest) error {
	return conn.Send(Envelope{
		Endpoint:   EndpointUnauthorized,
		Error:      "unauthorized source",
		Message:    req.Payload,
		CanRespond: req.CanRespond,
	})
}

type authenticatedUserHandler struct{}

func (authenticatedUserHandler) Handle(conn *Connection, req *NotificationRequest) error {
	return conn.Send(Envelope{
		Endpoint:   EndpointAuthenticatedUser,
		UserID:     conn.UserID,
		Message:    req.Payload,
		CanRespond: req.CanRespond,
	})
}

type notificationHandler struct{}

func (notificationHandler) Handle(conn *Connection, req *NotificationRequest) error {
	return conn.Send(Envelope{
		Endpoint:   EndpointNotification,
		UserID:     conn.UserID,
		Message:    req.Payload,
		CanRespond: req.CanRespond,
	})
}
