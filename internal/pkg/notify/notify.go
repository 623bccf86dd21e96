package notify

import (
	"fmt"
	"log"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
	"github.com/subpilot/subpilot/internal/pkg/env"
	"github.com/subpilot/subpilot/internal/pkg/mail"
	"github.com/subpilot/subpilot/internal/pkg/optimizer"
)

// Notifier records savings notifications for optimization runs and, when
// SMTP is configured, emails the user. Delivery happens inline with the run;
// there is no background scheduling.
type Notifier struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

// NewNotifier creates a notifier over the injected repositories.
func NewNotifier(notifications repository.NotificationRepository, users repository.UserRepository) *Notifier {
	return &Notifier{notifications: notifications, users: users}
}

// SavingsFound records a savings notification for a completed portfolio with
// positive potential savings. runID is the persisted optimization run the
// notification refers to, or zero when recording the run failed. Failures
// are logged, never surfaced: a lost notification must not fail the
// optimization response.
func (n *Notifier) SavingsFound(portfolio *optimizer.Portfolio, runID uint) {
	if portfolio == nil || portfolio.TotalPotentialSavings <= 0 || len(portfolio.Selected) == 0 {
		return
	}

	content := fmt.Sprintf("Your subscriptions hold %d in potential monthly savings across %d suggested changes.",
		portfolio.TotalPotentialSavings, len(portfolio.Selected))

	notification := &models.Notification{
		UserID:      portfolio.UserID,
		Type:        models.NotificationTypeSavings,
		Content:     content,
		ReferenceID: runID,
	}
	if err := n.notifications.Create(notification); err != nil {
		log.Printf("notify: failed to record savings notification for user %d: %v", portfolio.UserID, err)
		return
	}

	if env.GetEnv("SMTP_HOST", "") == "" {
		return
	}
	user, err := n.users.GetByID(portfolio.UserID)
	if err != nil {
		log.Printf("notify: failed to load user %d for savings mail: %v", portfolio.UserID, err)
		return
	}
	subject := "SubPilot found savings in your subscriptions"
	if err := mail.SendMail(user.Email, subject, content); err != nil {
		log.Printf("notify: failed to send savings mail to user %d: %v", portfolio.UserID, err)
	}
}
