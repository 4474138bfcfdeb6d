// Package services содержит логику отправки писем-подтверждений заказов.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/online-shop/internal/lib/sl"
	"github.com/magabrotheeeer/online-shop/internal/lib/smtp"
	"github.com/magabrotheeeer/online-shop/internal/models"
)

// NotifierService отправляет письма о созданных заказах.
type NotifierService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(transport smtp.TransportInterface, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// SendOrderConfirmation разбирает событие заказа из тела сообщения
// и отправляет письмо-подтверждение покупателю.
func (s *NotifierService) SendOrderConfirmation(body []byte) error {
	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := fmt.Sprintf("Заказ №%d принят", event.OrderID)
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш заказ №%d на сумму %d руб. %02d коп. принят и ожидает оплаты.\n\nСпасибо за покупку.",
		event.Username, event.OrderID, event.TotalPrice/100, event.TotalPrice%100)

	return s.sendEmail(to, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
