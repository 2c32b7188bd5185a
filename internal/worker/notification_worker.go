package worker

import (
	"github.com/spec-kit/fras-portal/internal/events"
	"github.com/spec-kit/fras-portal/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartEventPublisher forwards lifecycle events to Kafka when a publisher is configured.
func StartEventPublisher(dispatcher events.Dispatcher, publisher *events.KafkaPublisher) {
	if publisher == nil {
		return
	}
	publisher.Register(dispatcher)
}
