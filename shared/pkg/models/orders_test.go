package models

import (
	"encoding/json"
	"testing"
)

func TestNewOrderBookedEvent(t *testing.T) {
	evt := NewOrderBookedEvent("o-1", "p-1", "a@x.com")

	if evt.ID == "" {
		t.Error("expected generated event id")
	}
	if evt.Type != TypeOrderBooked || evt.Version != 1 || evt.OrderID != "o-1" {
		t.Errorf("unexpected envelope: %+v", evt)
	}

	b, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	payload, ok := raw["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing: %s", b)
	}
	if payload["customer_email"] != "a@x.com" || payload["product_id"] != "p-1" {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	a := NewOrderDeletedEvent("o-1", "p-1", "a@x.com", "admin@x.com")
	b := NewOrderDeletedEvent("o-1", "p-1", "a@x.com", "admin@x.com")
	if a.ID == b.ID {
		t.Error("expected distinct event ids")
	}
	if a.Payload.DeletedBy != "admin@x.com" {
		t.Errorf("got deleted_by %q", a.Payload.DeletedBy)
	}
}
