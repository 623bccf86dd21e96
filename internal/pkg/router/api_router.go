package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/subpilot/subpilot/app/controllers"
	"github.com/subpilot/subpilot/app/repository"
	"github.com/subpilot/subpilot/internal/pkg/constants"
	"github.com/subpilot/subpilot/internal/pkg/database"
	"github.com/subpilot/subpilot/internal/pkg/middleware"
	"github.com/subpilot/subpilot/internal/pkg/policy"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	repository.InitializeFactory(database.GetDB())

	// one policy store per process: every request shares the TTL cache
	policyStore := policy.NewStore(repository.GetGlobalRepositories().Config)
	controllers.InitializeOptimizerController(policyStore)
	controllers.InitializeAdminConfigController(policyStore)
	controllers.InitializeUserController()
	controllers.InitializeNotificationController()

	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group(constants.APIV1Route)

	userCtl := controllers.GetUserController()
	v1.Post("/users", userCtl.HandleRegisterUser)

	users := v1.Group("/users/:id")
	users.Get("/subscriptions", controllers.HandleListSubscriptions)
	users.Post("/subscriptions", controllers.HandleCreateSubscription)
	users.Delete("/subscriptions/:subID", controllers.HandleCancelSubscription)

	notificationCtl := controllers.GetNotificationController()
	users.Get("/notifications", notificationCtl.HandleListNotifications)
	users.Post("/notifications/:notifID/read", notificationCtl.HandleMarkNotificationRead)

	optimizerCtl := controllers.GetOptimizerController()
	users.Get("/optimizer/duplicates", optimizerCtl.HandleDuplicates)
	users.Get("/optimizer/alternatives", optimizerCtl.HandleAlternatives)
	users.Get("/optimizer/portfolio", optimizerCtl.HandlePortfolio)
	users.Get("/optimizer/runs", optimizerCtl.HandleRuns)

	services := v1.Group("/services/:id")
	services.Get("/reviews", controllers.HandleListServiceReviews)
	services.Post("/reviews", controllers.HandleCreateServiceReview)

	adminCtl := controllers.GetAdminConfigController()
	adminAPI := v1.Group(constants.AdminRoute, middleware.AdminAPIKeyMiddleware())
	adminAPI.Post("/metrics/flush", controllers.HandleFlushCounters)
	adminAPI.Get("/cache/keys", controllers.HandleListCacheKeys)
	adminAPI.Delete("/cache/keys", controllers.HandleDeleteCacheKeys)

	admin := adminAPI.Group("/config")
	admin.Get("/policy", adminCtl.HandleGetEffectivePolicy)
	admin.Get("/policy/default", adminCtl.HandleGetDefaultPolicy)
	admin.Get("/overrides", adminCtl.HandleGetOverrides)
	admin.Put("/overrides", adminCtl.HandleApplyOverrides)
	admin.Post("/rollback", adminCtl.HandleRollbackAll)
	admin.Post("/rollback/:key", adminCtl.HandleRollbackKey)
	admin.Get("/audits", adminCtl.HandleGetAudits)
	admin.Post("/cache/refresh", adminCtl.HandleRefreshCache)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
