package kafka

import (
	"testing"

	"notify-gateway/internal/gateway"
)

func TestDecodeNotificationByUser(t *testing.T) {
	req, eventID, err := DecodeNotification([]byte(`{"eventId":"ev-1","userId":"7","socketEndpointName":"notification-broadcast","message":{"text":"new applicant"}}`))
	if err != nil {
		t.Fatalf("DecodeNotification: %v", err)
	}
	if eventID != "ev-1" {
		t.Fatalf("eventID = %q, want ev-1", eventID)
	}
	if !req.Selector.ByUser() || req.Selector.UserID != "7" {
		t.Fatalf("unexpected selector %+v", req.Selector)
	}
	if req.Endpoint != gateway.EndpointNotification {
		t.Fatalf("unexpected endpoint %q", req.Endpoint)
	}
	if string(req.Payload) != `{"text":"new applicant"}` {
		t.Fatalf("unexpected payload %s", req.Payload)
	}
	if !req.CanRespond {
		t.Fatal("expected canRespond to default on")
	}
}

func TestDecodeNotificationByConnection(t *testing.T) {
	req, _, err := DecodeNotification([]byte(`{"connectionId":"conn-1","socketEndpointName":"global"}`))
	if err != nil {
		t.Fatalf("DecodeNotification: %v", err)
	}
	if req.Selector.ByUser() {
		t.Fatal("expected a connection selector")
	}
	if req.Selector.ConnectionID != "conn-1" {
		t.Fatalf("unexpected selector %+v", req.Selector)
	}
}

func TestDecodeNotificationUserWinsOverConnection(t *testing.T) {
	req, _, err := DecodeNotification([]byte(`{"userId":"7","connectionId":"conn-1"}`))
	if err != nil {
		t.Fatalf("DecodeNotification: %v", err)
	}
	if !req.Selector.ByUser() {
		t.Fatal("user id should take precedence")
	}
}

func TestDecodeNotificationRejectsMissingTarget(t *testing.T) {
	if _, _, err := DecodeNotification([]byte(`{"socketEndpointName":"global"}`)); err == nil {
		t.Fatal("expected an error for an event without a target")
	}
}

func TestDecodeNotificationRejectsMalformedJSON(t *testing.T) {
	if _, _, err := DecodeNotification([]byte(`{"userId":`)); err == nil {
		t.Fatal("expected a decode error")
	}
}
