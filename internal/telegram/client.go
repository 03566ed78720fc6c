// Package telegram связывает бота с Bot API: отправка ответов, регистрация
// вебхука и разбор входящих обновлений.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mmeshcher/earning-bot/internal/model"
	"github.com/mmeshcher/earning-bot/internal/render"
)

// ErrNotConfigured возвращается, если не задан токен бота.
var ErrNotConfigured = errors.New("telegram bot token is not configured")

// Client отправляет сообщения через Bot API.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient авторизуется в Bot API по токену.
func NewClient(token string) (*Client, error) {
	return NewClientWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{})
}

// NewClientWithEndpoint авторизуется в Bot API по нестандартному адресу.
// endpoint задаётся в формате tgbotapi.APIEndpoint.
func NewClientWithEndpoint(token, endpoint string, httpClient *http.Client) (*Client, error) {
	if token == "" {
		return nil, ErrNotConfigured
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}

	return &Client{bot: bot}, nil
}

// Username возвращает имя бота, полученное при авторизации.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Send отправляет ответ в чат.
func (c *Client) Send(ctx context.Context, reply model.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.bot.Send(render.Message(reply)); err != nil {
		return fmt.Errorf("send message to %d: %w", reply.ChatID, err)
	}

	return nil
}

// AnswerCallback подтверждает получение нажатия кнопки.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}

	return nil
}

// SetWebhook регистрирует адрес, на который Telegram будет присылать обновления.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}

	if _, err := c.bot.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	return nil
}
