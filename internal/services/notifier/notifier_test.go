package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/online-shop/internal/lib/smtp"
	"github.com/magabrotheeeer/online-shop/internal/models"
)

// fakeClient собирает вызовы SMTP-команд вместо реального соединения.
type fakeClient struct {
	from    string
	rcpts   []string
	data    bytes.Buffer
	quit    bool
	dataErr error
}

func (c *fakeClient) Mail(from string) error { c.from = from; return nil }
func (c *fakeClient) Rcpt(to string) error   { c.rcpts = append(c.rcpts, to); return nil }
func (c *fakeClient) Quit() error            { c.quit = true; return nil }
func (c *fakeClient) Close() error           { return nil }

func (c *fakeClient) Data() (io.WriteCloser, error) {
	if c.dataErr != nil {
		return nil, c.dataErr
	}
	return nopWriteCloser{&c.data}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (smtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "shop@example.com" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSendOrderConfirmation(t *testing.T) {
	client := &fakeClient{}
	service := NewNotifierService(&fakeTransport{client: client}, testLogger())

	event := models.OrderEvent{
		OrderID:    77,
		Username:   "buyer",
		Email:      "buyer@example.com",
		TotalPrice: 123456,
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, service.SendOrderConfirmation(body))

	assert.Equal(t, "shop@example.com", client.from)
	assert.Equal(t, []string{"buyer@example.com"}, client.rcpts)
	assert.True(t, client.quit)

	msg := client.data.String()
	assert.Contains(t, msg, "Subject: Заказ №77 принят")
	assert.Contains(t, msg, "buyer")
	assert.Contains(t, msg, "1234 руб. 56 коп.")
}

func TestSendOrderConfirmation_BadJSON(t *testing.T) {
	service := NewNotifierService(&fakeTransport{client: &fakeClient{}}, testLogger())

	err := service.SendOrderConfirmation([]byte("not-json"))
	assert.Error(t, err)
}

func TestSendOrderConfirmation_ConnectError(t *testing.T) {
	service := NewNotifierService(&fakeTransport{connectErr: errors.New("dial failed")}, testLogger())

	body, err := json.Marshal(models.OrderEvent{Email: "buyer@example.com"})
	require.NoError(t, err)

	assert.Error(t, service.SendOrderConfirmation(body))
}
