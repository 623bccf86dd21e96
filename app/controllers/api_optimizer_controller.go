package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
	"github.com/subpilot/subpilot/internal/pkg/cache"
	"github.com/subpilot/subpilot/internal/pkg/metrics/counter"
	"github.com/subpilot/subpilot/internal/pkg/notify"
	"github.com/subpilot/subpilot/internal/pkg/optimizer"
	"github.com/subpilot/subpilot/internal/pkg/policy"
)

const portfolioCacheTTL = 60 * time.Second

// OptimizerController exposes the cost-optimization engine over HTTP
type OptimizerController struct {
	engine   *optimizer.Engine
	runs     repository.RunRepository
	notifier *notify.Notifier
}

var optimizerController *OptimizerController

// InitializeOptimizerController wires the engine with the global repositories
// and the shared policy store
func InitializeOptimizerController(policyStore *policy.Store) {
	repos := repository.GetGlobalRepositories()
	optimizerController = &OptimizerController{
		engine:   optimizer.NewEngine(repos.Subscription, repos.Plan, policyStore),
		runs:     repos.Run,
		notifier: notify.NewNotifier(repos.Notification, repos.User),
	}
}

// GetOptimizerController returns the initialized optimizer controller
func GetOptimizerController() *OptimizerController {
	if optimizerController == nil {
		panic("Optimizer controller not initialized. Call InitializeOptimizerController first.")
	}
	return optimizerController
}

// HandleDuplicates returns the duplicate-subscription groups of a user
func (oc *OptimizerController) HandleDuplicates(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	groups, err := oc.engine.DetectDuplicateServices(userID)
	if err != nil {
		fiberlog.Errorf("optimizer: duplicate detection failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to detect duplicates"})
	}

	return c.JSON(fiber.Map{
		"user_id": userID,
		"groups":  groups,
	})
}

// HandleAlternatives returns the fully ranked cheaper-alternative candidates
func (oc *OptimizerController) HandleAlternatives(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	candidates, err := oc.engine.FindCheaperAlternatives(userID)
	if err != nil {
		fiberlog.Errorf("optimizer: alternative search failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to find alternatives"})
	}

	return c.JSON(fiber.Map{
		"user_id":                 userID,
		"candidates":              candidates,
		"total_potential_savings": optimizer.TotalPotentialSavings(candidates),
	})
}

// HandlePortfolio runs the full optimization pipeline for a user. Results
// are cached in Redis for a short TTL; a fresh run is recorded and may
// notify the user when tracking is enabled.
func (oc *OptimizerController) HandlePortfolio(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("optimizer:portfolio:%d", userID)
	if cached, err := cache.Get(cacheKey); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	} else if !cache.IsMiss(err) {
		fiberlog.Warnf("optimizer: portfolio cache read failed for user %d: %v", userID, err)
	}

	portfolio, err := oc.engine.OptimizePortfolio(userID)
	if err != nil {
		fiberlog.Errorf("optimizer: portfolio run failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to optimize portfolio"})
	}

	if portfolio.TrackingEnabled {
		run := &models.OptimizationRun{
			RunID:                 portfolio.RunID,
			UserID:                portfolio.UserID,
			CandidateCount:        portfolio.CandidateCount,
			SelectedCount:         len(portfolio.Selected),
			TotalPotentialSavings: portfolio.TotalPotentialSavings,
			DurationMs:            portfolio.DurationMs,
		}
		if err := oc.runs.Create(run); err != nil {
			fiberlog.Warnf("optimizer: failed to record run %s: %v", portfolio.RunID, err)
		}
		oc.notifier.SavingsFound(portfolio, run.ID)
	}

	for _, candidate := range portfolio.Selected {
		if err := counter.AddServiceRecommendation(candidate.AltServiceID); err != nil {
			fiberlog.Warnf("optimizer: failed to count recommendation for service %d: %v", candidate.AltServiceID, err)
		}
	}

	body, err := json.Marshal(portfolio)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to encode portfolio"})
	}
	if err := cache.Set(cacheKey, body, portfolioCacheTTL); err != nil {
		fiberlog.Warnf("optimizer: portfolio cache write failed for user %d: %v", userID, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// HandleRuns lists the most recent tracked optimization runs of a user
func (oc *OptimizerController) HandleRuns(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	_, limit := parsePagination(c, 20, 100)

	runs, err := oc.runs.ListByUserID(userID, limit)
	if err != nil {
		fiberlog.Errorf("optimizer: failed to list runs for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load runs"})
	}

	return c.JSON(fiber.Map{
		"user_id": userID,
		"runs":    runs,
	})
}
