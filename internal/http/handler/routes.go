package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/http/middleware"
	"docportal/internal/model"
	"docportal/internal/service"
)

// Deps are the services behind the HTTP routes.
type Deps struct {
	DB            *sql.DB
	Auth          service.AuthService
	Companies     service.CompanyService
	Files         service.FileService
	Notifications service.NotificationService
	Requests      service.RequestService
	Activity      service.ActivityService

	// RateLimit guards /api/* when set.
	RateLimit fiber.Handler
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Every /api route except login requires a bearer token; role checks are per route.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", Liveness())

	api := app.Group("/api")
	if d.RateLimit != nil {
		api.Use(d.RateLimit)
	}

	api.Post("/auth/login", Login(d.Auth))

	authed := api.Group("", middleware.Authenticate(d.Auth))
	admin := middleware.RequireRole(model.RoleAdmin)
	company := middleware.RequireRole(model.RoleCompany)

	authed.Post("/auth/logout", Logout(d.Auth))
	authed.Post("/auth/change-password", company, ChangePassword(d.Auth))

	authed.Get("/companies", admin, ListCompanies(d.Companies))
	authed.Get("/companies/export", admin, ExportCompanies(d.Companies))
	authed.Get("/companies/:id", admin, GetCompany(d.Companies))
	authed.Post("/companies", admin, CreateCompany(d.Companies))
	authed.Put("/companies/:id", admin, UpdateCompany(d.Companies))
	authed.Delete("/companies/:id", admin, DeleteCompany(d.Companies))

	authed.Get("/files", ListFiles(d.Files))
	authed.Post("/files/upload", admin, UploadFiles(d.Files))
	authed.Get("/files/:id", GetFile(d.Files))
	authed.Delete("/files/:id", admin, DeleteFile(d.Files))
	authed.Post("/files/:id/mark-read", company, MarkFileRead(d.Files))
	authed.Get("/files/:id/download-url", FileDownloadURL(d.Files))
	authed.Get("/files/:id/content", FileContent(d.Files))

	authed.Get("/notifications", ListNotifications(d.Notifications))
	authed.Post("/notifications", admin, SendNotification(d.Notifications))
	authed.Post("/notifications/read-all", company, MarkAllNotificationsRead(d.Notifications))
	authed.Post("/notifications/:id/read", company, MarkNotificationRead(d.Notifications))

	authed.Get("/requests", ListRequests(d.Requests))
	authed.Post("/requests", company, CreateRequest(d.Requests))
	authed.Put("/requests/:id", admin, UpdateRequest(d.Requests))

	authed.Get("/activity", ListActivity(d.Activity))
	authed.Delete("/activity", admin, ClearActivity(d.Activity))
}
