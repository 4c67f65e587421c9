package core

import "github.com/aynalab/chatsync/observability"

// Core event types emitted during session and message lifecycle transitions.
const (
	EventInitialized     observability.EventType = "core.initialized"
	EventSessionCreated  observability.EventType = "core.session.created"
	EventSessionSwitched observability.EventType = "core.session.switched"
	EventSessionRenamed  observability.EventType = "core.session.renamed"
	EventSessionDeleted  observability.EventType = "core.session.deleted"
	EventDeleteCancelled observability.EventType = "core.session.delete_cancelled"
	EventMessageSent     observability.EventType = "core.message.sent"
	EventMessageDropped  observability.EventType = "core.message.dropped"
	EventMessageReceived observability.EventType = "core.message.received"
	EventIdentityChanged observability.EventType = "core.identity.changed"
	EventChannelOpened   observability.EventType = "core.channel.opened"
	EventChannelClosed   observability.EventType = "core.channel.closed"
	EventError           observability.EventType = "core.error"
)
