package services

import (
	"fmt"

	"psymap-go/internal/models"

	"go.uber.org/zap"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendReminderEmail simulates sending a nudge to finish a stalled assessment.
func (s *EmailService) SendReminderEmail(user models.User, session models.AssessmentSession) {
	s.log.Info("Sending reminder email",
		zap.String("to", user.Email),
		zap.String("sessionID", session.ID),
	)
	// In a real application, you would use an SMTP client like go-mail
	// to send a templated HTML email here. // TODO
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Your assessment is waiting\nHi %s,\nYou started an assessment and still have tests left to finish. Pick up where you left off any time.\n\n", user.Email, user.FirstName)
}
