package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/models"

	"go.uber.org/zap"
)

// SMTPSender sends order confirmation mail over plain SMTP. When the SMTP
// host is not configured the sender degrades to a no-op so development
// environments work without a mail server.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.MailFrom,
	}
}

func (s *SMTPSender) configured() bool {
	return s.host != ""
}

// SendOrderConfirmation mails the order summary to the shipping email.
func (s *SMTPSender) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if !s.configured() {
		logger.Log.Debug("SMTP not configured, skipping confirmation email",
			zap.String("order_code", order.OrderCode))
		return nil
	}
	if order.ShipEmail == "" {
		return nil
	}

	subject := "Order confirmation " + order.OrderCode
	body := buildOrderConfirmationBody(order)
	return s.send(order.ShipEmail, subject, body)
}

func (s *SMTPSender) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := []byte(
		"From: " + s.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func buildOrderConfirmationBody(order *models.Order) string {
	var sb strings.Builder
	sb.WriteString("<h2>Thank you for your order!</h2>")
	sb.WriteString(fmt.Sprintf("<p>Order code: <strong>%s</strong></p>", order.OrderCode))
	sb.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	sb.WriteString("<tr><th>Product</th><th>Quantity</th><th>Price</th><th>Total</th></tr>")
	for _, item := range order.Items {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			item.ProductName, item.Quantity, item.ProductPrice, item.TotalPrice))
	}
	sb.WriteString("</table>")
	sb.WriteString(fmt.Sprintf("<p>Total amount: <strong>%d VND</strong></p>", order.TotalAmount))
	sb.WriteString(fmt.Sprintf("<p>Shipping to: %s, %s, %s, %s, %s</p>",
		order.ShipFullName, order.ShipStreet, order.ShipWard, order.ShipDistrict, order.ShipProvince))
	if order.Note != "" {
		sb.WriteString(fmt.Sprintf("<p>Note: %s</p>", order.Note))
	}
	return sb.String()
}

var _ EmailSender = (*SMTPSender)(nil)
