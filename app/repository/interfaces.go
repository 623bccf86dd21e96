package repository

import (
	"time"

	"github.com/subpilot/subpilot/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// SubscriptionRepository defines the interface for subscription persistence.
// GetActiveByUserID preloads the subscription's service so the optimizer can
// read categories without extra lookups.
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	GetByUserID(userID uint) ([]models.Subscription, error)
	GetActiveByUserID(userID uint) ([]models.Subscription, error)
	Update(sub *models.Subscription) error
	Deactivate(id uint) error
	CountActiveByUserID(userID uint) (int64, error)
}

// PlanRepository defines the interface for plan lookups
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByServiceID(serviceID uint) ([]models.Plan, error)
	GetActiveByCategories(categories []string) ([]models.Plan, error)
}

// ServiceRepository defines the interface for service lookups
type ServiceRepository interface {
	Create(service *models.Service) error
	GetByID(id uint) (*models.Service, error)
	GetByName(name string) (*models.Service, error)
	ListActive() ([]models.Service, error)
}

// ReviewRepository defines the interface for service reviews
type ReviewRepository interface {
	Create(review *models.ServiceReview) error
	ListByServiceID(serviceID uint, offset, limit int) ([]models.ServiceReview, error)
	AverageRating(serviceID uint) (float64, error)
}

// NotificationRepository defines the interface for user notifications.
// MarkRead is scoped to the owning user and reports gorm.ErrRecordNotFound
// when the notification does not exist or belongs to someone else.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUserID(userID uint, offset, limit int) ([]models.Notification, error)
	MarkRead(id, userID uint) error
}

// ConfigMutation is the transaction-scoped view the policy store mutates
// through. Override and audit writes issued through one mutation commit or
// roll back as a unit; a rollback-by-key depends on that complete history.
type ConfigMutation interface {
	ActiveOverride(key string) (*models.ConfigOverride, error)
	ActiveOverrides() ([]models.ConfigOverride, error)
	AuditsByKeyDesc(key string) ([]models.ConfigAudit, error)
	// UpsertOverride writes value for key and reports the prior active value.
	// A write equal to the active value is a no-op (changed == false).
	UpsertOverride(key, value string) (before *string, changed bool, err error)
	// DeactivateOverride retires the active row for key, returning its value,
	// or (nil, nil) when no row was active.
	DeactivateOverride(key string) (before *string, err error)
	AppendAudit(audit *models.ConfigAudit) error
}

// ConfigRepository defines the interface for the policy override/audit store
type ConfigRepository interface {
	FindActiveOverride(key string) (*models.ConfigOverride, error)
	FindActiveOverrides() ([]models.ConfigOverride, error)
	RecentAudits(limit int) ([]models.ConfigAudit, error)
	RecentAuditsByKey(key string, limit int) ([]models.ConfigAudit, error)
	// Mutate runs fn inside a single database transaction.
	Mutate(fn func(ConfigMutation) error) error
}

// RunRepository defines the interface for optimization run tracking
type RunRepository interface {
	Create(run *models.OptimizationRun) error
	ListByUserID(userID uint, limit int) ([]models.OptimizationRun, error)
}

// CacheRepository defines the interface for cache inspection operations
type CacheRepository interface {
	GetAllKeys() ([]string, error)
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKey(key string) (int64, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	Plan         PlanRepository
	Service      ServiceRepository
	Review       ReviewRepository
	Notification NotificationRepository
	Config       ConfigRepository
	Run          RunRepository
	Cache        CacheRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Plan:         NewPlanRepository(db),
		Service:      NewServiceRepository(db),
		Review:       NewReviewRepository(db),
		Notification: NewNotificationRepository(db),
		Config:       NewConfigRepository(db),
		Run:          NewRunRepository(db),
		Cache:        NewCacheRepository(),
	}
}
