package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

// Mailer envoie les e-mails transactionnels par SMTP.
type Mailer struct {
	cfg  config.SMTPConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = m.dialAndSend
	return m
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {
	msg, err := BuildOrderConfirmation(m.cfg.From, to, order)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func BuildOrderConfirmation(from, to string, order *models.Order) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject("Order confirmation " + order.ID)
	msg.SetBodyString(mail.TypeTextHTML, OrderConfirmationHTML(order))
	return msg, nil
}

// FormatAmount écrit un montant en unités mineures avec deux décimales.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func OrderConfirmationHTML(order *models.Order) string {
	var rows strings.Builder
	for _, line := range order.Lines {
		name, thumb := html.EscapeString(line.ProductID), ""
		if line.Product != nil {
			name = html.EscapeString(line.Product.Title)
			if url := line.Product.PrimaryImage(); url != "" {
				thumb = fmt.Sprintf(`<img src="%s" alt="" width="48" style="vertical-align: middle; margin-right: 8px;">`, html.EscapeString(url))
			}
		}
		fmt.Fprintf(&rows, `
			<tr>
				<td>%s%s</td>
				<td>%d</td>
				<td>%s</td>
				<td>%s</td>
			</tr>`, thumb, name, line.Count, FormatAmount(line.Price), FormatAmount(line.Price*int64(line.Count)))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2>Thank you for your order</h2>
		<p>Order <strong>%s</strong> is now <em>%s</em>.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr><th>Product</th><th>Quantity</th><th>Unit price</th><th>Total</th></tr>
			</thead>
			<tbody>%s
			</tbody>
			<tfoot>
				<tr><td colspan="3" style="text-align: right; font-weight: bold;">Total:</td><td>%s</td></tr>
			</tfoot>
		</table>
	</div>
</body>
</html>`, html.EscapeString(order.ID), html.EscapeString(string(order.OrderStatus)), rows.String(), FormatAmount(order.CartTotal))
}
