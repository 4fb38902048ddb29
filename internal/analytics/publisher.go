package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink-service/internal/messaging"
)

// Publishers bundles the typed publish functions for the link lifecycle
// topics.
type Publishers struct {
	LinkCreated  messaging.Publish[LinkCreatedEvent]
	LinkAccessed messaging.Publish[LinkAccessedEvent]
	LinkDeleted  messaging.Publish[LinkDeletedEvent]
}

// NewPublishers derives the typed publish functions from a message
// publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		LinkCreated:  messaging.NewPublishFunc[LinkCreatedEvent](publisher, TopicLinkCreated),
		LinkAccessed: messaging.NewPublishFunc[LinkAccessedEvent](publisher, TopicLinkAccessed),
		LinkDeleted:  messaging.NewPublishFunc[LinkDeletedEvent](publisher, TopicLinkDeleted),
	}
}

// NopPublishers returns publishers that discard every event.
func NopPublishers() Publishers {
	return Publishers{
		LinkCreated:  messaging.NopPublish[LinkCreatedEvent](),
		LinkAccessed: messaging.NopPublish[LinkAccessedEvent](),
		LinkDeleted:  messaging.NopPublish[LinkDeletedEvent](),
	}
}
