package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Documents     service.DocumentService
	Preferences   service.PreferenceService
	Notifications service.NotificationService
	Dashboard     service.DashboardService
	Reminders     service.ReminderService
	Ledger        service.LedgerService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate HTTP to service calls. deps are added to the readiness probe.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, deps ...Dependency) {
	app.Get("/health", HealthCheck(db, deps...))
	app.Get("/healthz", LivenessProbe())

	users := app.Group("/users/:userId")

	// search is registered before :id so it is not captured as a document id
	users.Get("/documents", ListDocuments(svc.Documents))
	users.Post("/documents", CreateDocument(svc.Documents))
	users.Get("/documents/search", SearchDocuments(svc.Documents))
	users.Get("/documents/:id", GetDocument(svc.Documents))
	users.Put("/documents/:id", UpdateDocument(svc.Documents))
	users.Delete("/documents/:id", DeleteDocument(svc.Documents))

	users.Get("/preferences", GetPreferences(svc.Preferences))
	users.Put("/preferences", UpdatePreferences(svc.Preferences))

	users.Get("/notifications", ListNotifications(svc.Notifications))
	users.Get("/notifications/unread-count", UnreadCount(svc.Notifications))
	users.Post("/notifications/read-all", MarkAllNotificationsRead(svc.Notifications))
	users.Post("/notifications/:id/read", MarkNotificationRead(svc.Notifications))
	users.Delete("/notifications/:id", DeleteNotification(svc.Notifications))

	users.Get("/dashboard", GetDashboard(svc.Dashboard))
	users.Post("/reminders/evaluate", EvaluateReminders(svc.Reminders))

	app.Get("/ledger", LedgerSnapshot(svc.Ledger))
	app.Get("/ledger/exports/:day", LedgerExportURL(svc.Ledger))
}
