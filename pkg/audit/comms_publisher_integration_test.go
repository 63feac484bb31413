package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"
)

// startTestServer starts an in-process NATS server for testing.
func startTestServer(t *testing.T, port int) (*comms.Conn, func()) {
	t.Helper()

	opts := &commsserver.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := commsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - failed to create server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("audit:comms_publisher_integration_test - server failed to start")
	}

	nc, err := comms.Connect(ns.ClientURL(), comms.Timeout(5*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("audit:comms_publisher_integration_test - failed to connect: %v", err)
	}

	cleanup := func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return nc, cleanup
}

func TestCommsPublisher_GranularSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14240)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)

	received := make(chan *Event, 1)
	sub, err := nc.Subscribe("authors.audit.author.create", func(msg *comms.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Errorf("audit:comms_publisher_integration_test - failed to unmarshal: %v", err)
			return
		}
		received <- &event
	})
	if err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - failed to subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	event := &Event{
		Actor:      "alice",
		Action:     "create",
		Resource:   "author",
		ResourceID: "a-1",
		Timestamp:  "2025-01-01T00:00:00Z",
	}

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - Publish failed: %v", err)
	}
	nc.Flush()

	select {
	case got := <-received:
		if got.Actor != "alice" {
			t.Errorf("audit:comms_publisher_integration_test - Actor = %q, want %q", got.Actor, "alice")
		}
		if got.ResourceID != "a-1" {
			t.Errorf("audit:comms_publisher_integration_test - ResourceID = %q, want %q", got.ResourceID, "a-1")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("audit:comms_publisher_integration_test - timeout waiting for granular event")
	}
}

func TestCommsPublisher_BothSubjects(t *testing.T) {
	nc, cleanup := startTestServer(t, 14241)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)

	granularReceived := make(chan bool, 1)
	globalReceived := make(chan bool, 1)

	sub1, err := nc.Subscribe("authors.audit.author.delete", func(msg *comms.Msg) {
		granularReceived <- true
	})
	if err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - subscribe granular failed: %v", err)
	}
	defer sub1.Unsubscribe()

	sub2, err := nc.Subscribe("authors.audit", func(msg *comms.Msg) {
		globalReceived <- true
	})
	if err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - subscribe global failed: %v", err)
	}
	defer sub2.Unsubscribe()

	event := &Event{
		Actor:      "bob",
		Action:     "delete",
		Resource:   "author",
		ResourceID: "a-2",
		Timestamp:  "2025-01-01T00:00:00Z",
	}

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - Publish failed: %v", err)
	}
	nc.Flush()

	for _, ch := range []struct {
		name string
		ch   chan bool
	}{
		{"granular", granularReceived},
		{"global", globalReceived},
	} {
		select {
		case <-ch.ch:
			// OK
		case <-time.After(5 * time.Second):
			t.Errorf("audit:comms_publisher_integration_test - timeout waiting for %s event", ch.name)
		}
	}
}

func TestCommsPublisher_CustomGlobalSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14242)
	defer cleanup()

	customSubject := "custom.audit.events"
	publisher := NewCommsPublisher(nc, &CommsPublisherOpts{
		GlobalAuditSubject: customSubject,
	})

	received := make(chan *Event, 1)
	sub, err := nc.Subscribe(customSubject, func(msg *comms.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		received <- &event
	})
	if err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - failed to subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	event := &Event{
		Actor:     "alice",
		Action:    "update",
		Resource:  "author",
		Timestamp: "2025-01-01T00:00:00Z",
	}

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("audit:comms_publisher_integration_test - Publish failed: %v", err)
	}
	nc.Flush()

	select {
	case got := <-received:
		if got.Action != "update" {
			t.Errorf("audit:comms_publisher_integration_test - Action = %q, want %q", got.Action, "update")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("audit:comms_publisher_integration_test - timeout waiting for custom subject event")
	}
}

func TestNewCommsPublisher_DefaultSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14243)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)
	if publisher.globalAuditSubject != "authors.audit" {
		t.Errorf("audit:comms_publisher_integration_test - globalAuditSubject = %q, want %q",
			publisher.globalAuditSubject, "authors.audit")
	}

	publisher = NewCommsPublisher(nc, &CommsPublisherOpts{GlobalAuditSubject: ""})
	if publisher.globalAuditSubject != "authors.audit" {
		t.Errorf("audit:comms_publisher_integration_test - empty opt should use default, got %q",
			publisher.globalAuditSubject)
	}
}
