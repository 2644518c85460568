package worker

import (
	"github.com/spec-kit/job-board/internal/service"
)

// StartNotificationWorker subscribes the notification handlers so that job and
// application events reach employers and applicants.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
