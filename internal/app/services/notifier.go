package services

import (
	"context"

	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/email"
)

// EmailDecisionNotifier sends institution decisions by email
type EmailDecisionNotifier struct {
	mailer *email.Mailer
}

// NewEmailDecisionNotifier creates a notifier backed by mailer
func NewEmailDecisionNotifier(mailer *email.Mailer) *EmailDecisionNotifier {
	return &EmailDecisionNotifier{mailer: mailer}
}

func (n *EmailDecisionNotifier) NotifyInstitutionDecision(ctx context.Context, user *models.User, institution *models.InstitutionProfile, approved bool, notes string) error {
	subject, body, err := email.InstitutionDecision(user.FullName, institution.Name, approved, notes)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, user.Email, subject, body)
}
