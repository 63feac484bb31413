package audit

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/authors-service/pkg/commsutil"
)

const commsPublisherLogPrefix = "audit:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// GlobalAuditSubject overrides the global audit subject (e.g. from AUDIT_EVENT_SUBJECT).
	GlobalAuditSubject string
}

// CommsPublisher publishes audit events to COMMS subjects.
type CommsPublisher struct {
	nc                 *comms.Conn
	globalAuditSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	globalSubject := commsutil.SubjectAuditEvent
	if opts != nil && opts.GlobalAuditSubject != "" {
		globalSubject = opts.GlobalAuditSubject
	}
	return &CommsPublisher{nc: nc, globalAuditSubject: globalSubject}
}

// Publish publishes an audit Event to both the granular and global subjects.
func (p *CommsPublisher) Publish(_ context.Context, event *Event) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	// Publish to granular subject
	granularSubject := commsutil.BuildAuditSubject(event.Resource, event.Action)
	if err := p.nc.Publish(granularSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, granularSubject, err))
		return err
	}

	// Publish to global subject
	if err := p.nc.Publish(p.globalAuditSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.globalAuditSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published audit event %s %s", commsPublisherLogPrefix, event.Action, event.Resource))
	return nil
}
