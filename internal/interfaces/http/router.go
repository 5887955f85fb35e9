package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/AchrafRT/sales-crm/internal/application/auth"
	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// Directory lecturas de usuarios, leads y órdenes. Lo implementa *engine.Reader.
type Directory interface {
	User(ctx context.Context, id string) (*entity.User, error)
	Lead(ctx context.Context, id string) (*entity.Lead, error)
	Order(ctx context.Context, id string) (*entity.Order, error)
	EventLister
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Queue     commandSubmitter
	Directory Directory
	Revenue   RevenueReporter
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ActiveUser(deps.Directory))
	protected.Get("/auth/me", authHandler.Me)

	commandHandler := NewCommandHandler(deps.Queue, deps.Directory, log)
	protected.Post("/commands", commandHandler.Submit)

	importHandler := NewImportHandler(deps.Queue, log)
	protected.Post("/leads/import", RequireRole(entity.RoleAdmin), importHandler.ImportLeads)

	leadHandler := NewLeadHandler(deps.Queue, log)
	protected.Post("/leads/archive", RequireRole(entity.RoleAdmin), leadHandler.ArchiveLeads)

	calendarHandler := NewCalendarHandler(deps.Directory, log)
	protected.Get("/calendar", calendarHandler.List)

	reportHandler := NewReportHandler(deps.Revenue, log)
	protected.Get("/reports/revenue", RequireRole(entity.RoleAdmin), reportHandler.Revenue)
}
