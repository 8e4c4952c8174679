// Package email implementa las notificaciones salientes del motor de
// facturación sobre SMTP.
package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/pkg/config"
	"github.com/tochman/visinv-api/pkg/logger"
)

// SMTPMailer implementa invoicing.Mailer con gomail. Si el host SMTP no está
// configurado, el mailer queda deshabilitado y cada envío retorna error: el
// caller decide si eso es bloqueante (recordatorio) o solo un aviso
// (confirmación de pago).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer desde la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	m := &SMTPMailer{from: cfg.From, log: log}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

// SendPaymentConfirmation envía la confirmación de un abono registrado.
func (m *SMTPMailer) SendPaymentConfirmation(_ context.Context, msg invoicing.PaymentConfirmation) error {
	subject := fmt.Sprintf("Pago recibido: factura %s", msg.InvoiceNumber)
	body := fmt.Sprintf(
		"Hola %s,\n\nRegistramos un pago de %s %s sobre la factura %s.",
		msg.ClientName, msg.Amount.StringFixed(2), msg.Currency, msg.InvoiceNumber,
	)
	if msg.Balance.IsZero() {
		body += "\nLa factura quedó pagada en su totalidad."
	} else {
		body += fmt.Sprintf("\nSaldo pendiente: %s %s.", msg.Balance.StringFixed(2), msg.Currency)
	}
	body += "\n\nGracias por su pago.\n"
	return m.send(msg.To, subject, body)
}

// SendReminder envía el recordatorio de pago.
func (m *SMTPMailer) SendReminder(_ context.Context, msg invoicing.ReminderNotice) error {
	subject := fmt.Sprintf("Recordatorio: factura %s pendiente", msg.InvoiceNumber)
	body := fmt.Sprintf(
		"Hola %s,\n\nLa factura %s tiene un saldo pendiente de %s %s.",
		msg.ClientName, msg.InvoiceNumber, msg.Balance.StringFixed(2), msg.Currency,
	)
	if !msg.DueDate.IsZero() {
		body += fmt.Sprintf(" Fecha de vencimiento: %s.", msg.DueDate.Format("2006-01-02"))
	}
	body += "\n\nGracias.\n"
	return m.send(msg.To, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.dialer == nil {
		return fmt.Errorf("email: SMTP no configurado")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("email: envío fallido: %w", err)
	}
	m.log.Info().Str("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}
