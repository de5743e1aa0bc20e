package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicasys/clinica-api/internal/config"
	"github.com/clinicasys/clinica-api/pkg/logger"
)

// Sender delivers transactional mail. Delivery is best effort; callers log
// failures but never fail the request over them.
type Sender interface {
	SendWelcome(to, fullName, username string) error
	SendAppointmentConfirmation(to, patientName, doctorName, date, slot string) error
}

type smtpSender struct {
	dialer     *gomail.Dialer
	from       string
	clinicName string
	log        *logger.Logger
}

func NewSender(cfg config.SMTPConfig, clinicName string, log *logger.Logger) Sender {
	if !cfg.Enabled {
		return &noopSender{log: log}
	}
	return &smtpSender{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.From,
		clinicName: clinicName,
		log:        log,
	}
}

func (s *smtpSender) SendWelcome(to, fullName, username string) error {
	if to == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour account at %s has been created.\nUsername: %s\n\nYou can change your password after your first login.",
		fullName, s.clinicName, username)

	return s.send(to, fmt.Sprintf("Welcome to %s", s.clinicName), body)
}

func (s *smtpSender) SendAppointmentConfirmation(to, patientName, doctorName, date, slot string) error {
	if to == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment at %s is confirmed.\nDoctor: %s\nDate: %s\nTime: %s\n\nPlease arrive ten minutes early.",
		patientName, s.clinicName, doctorName, date, slot)

	return s.send(to, "Appointment confirmation", body)
}

func (s *smtpSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// noopSender stands in when SMTP is disabled, logging instead of sending.
type noopSender struct {
	log *logger.Logger
}

func (n *noopSender) SendWelcome(to, _, _ string) error {
	n.log.Debug("smtp disabled, skipping welcome email", "to", to)
	return nil
}

func (n *noopSender) SendAppointmentConfirmation(to, _, _, _, _ string) error {
	n.log.Debug("smtp disabled, skipping confirmation email", "to", to)
	return nil
}
