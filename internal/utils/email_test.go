package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:          "o-1",
		CartTotal:   25050,
		OrderStatus: models.OrderStatusNotProcess,
		Lines: []models.OrderLine{
			{ProductID: "p-1", Product: &models.Product{Title: "Desk <oak>"}, Count: 2, Price: 12500},
			{ProductID: "p-2", Count: 1, Price: 50},
		},
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "2.00", FormatAmount(200))
	assert.Equal(t, "125.05", FormatAmount(12505))
	assert.Equal(t, "-0.50", FormatAmount(-50))
}

func TestOrderConfirmationHTML(t *testing.T) {
	body := OrderConfirmationHTML(sampleOrder())

	assert.Contains(t, body, "Desk &lt;oak&gt;")
	assert.Contains(t, body, "<td>250.00</td>")
	assert.Contains(t, body, "<td>p-2</td>")
	assert.Contains(t, body, "<td>250.50</td>")
	assert.Contains(t, body, "Not Process")
}

func TestMailer_SendOrderConfirmation(t *testing.T) {
	m := NewMailer(config.SMTPConfig{Host: "smtp.local", Port: 25, From: "shop@x.com"})
	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	require.NoError(t, m.SendOrderConfirmation(context.Background(), "alice@x.com", sampleOrder()))
	require.NotNil(t, sent)

	rcpts, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@x.com"}, rcpts)
	assert.Equal(t, []string{"Order confirmation o-1"}, sent.GetGenHeader(mail.HeaderSubject))
}

func TestMailer_InvalidRecipient(t *testing.T) {
	m := NewMailer(config.SMTPConfig{Host: "smtp.local", Port: 25, From: "shop@x.com"})
	m.send = func(context.Context, *mail.Msg) error { return nil }

	assert.Error(t, m.SendOrderConfirmation(context.Background(), "not an address", sampleOrder()))
}

func TestOrderConfirmationHTML_Thumbnail(t *testing.T) {
	order := sampleOrder()
	order.Lines[0].Product.Images = []models.Image{{URL: "http://img.local/desk.png"}}

	body := OrderConfirmationHTML(order)
	assert.Contains(t, body, `<img src="http://img.local/desk.png"`)
	assert.Contains(t, body, "<td>p-2</td>")
}
