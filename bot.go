package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/turbekoff/calckeys/pkg/calculator"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
)

type keypadButton struct {
	label string
	data  string
}

var keypadLayout = [][]keypadButton{
	{{"", keyClear}, {"⌫", keyBackspace}, {"%", "%"}, {calculator.Divide.String(), "/"}},
	{{"7", "7"}, {"8", "8"}, {"9", "9"}, {calculator.Multiply.String(), "*"}},
	{{"4", "4"}, {"5", "5"}, {"6", "6"}, {calculator.Subtract.String(), "-"}},
	{{"1", "1"}, {"2", "2"}, {"3", "3"}, {calculator.Add.String(), "+"}},
	{{"±", keySignToggle}, {"0", "0"}, {".", "."}, {"=", "="}},
}

// renderKeypad draws the keypad for snap: the clear key carries the
// engine's clear label and the pending operator is bracketed.
func renderKeypad(snap calculator.Snapshot) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keypadLayout))
	for _, layoutRow := range keypadLayout {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(layoutRow))
		for _, b := range layoutRow {
			label := b.label
			switch {
			case b.data == keyClear:
				label = snap.ClearLabel
			case snap.Operator != 0 && label == snap.Operator.String():
				label = "[" + label + "]"
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, b.data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

type Bot struct {
	sessions   *Sessions
	api        *tgbotapi.BotAPI
	config     *Config
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	isDone     chan struct{}
	logger     *log.Logger
}

func LoadBot(config *Config, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:    api,
		config: config,
		logger: logger,
		isDone: make(chan struct{}),
		sessions: NewSessions(
			config.SessionTTLTimeout,
			config.SessionCleanupTimeout,
		),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to get started.\n",
			"Note: the session expires after",
			config.SessionTTLTimeout,
		),
		help: strings.Join([]string{
			"Help:",
			"/start - welcome message.",
			"/open - open new session.",
			"/help - send this message.",
		}, "\n"),
	}, nil
}

func (b *Bot) Run() error {
	if b.isStarted.Load() {
		return ErrAlreadyStarted
	}
	b.isStarted.Store(true)
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.BotOffset)
	updateConfig.Timeout = b.config.BotTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.sessions.IsEmpty() {
			continue
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil {
				b.logger.Printf("failed to handle key press, error: %v", err)
				continue
			}
		}

		if update.Message == nil {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Printf("failed to send message, error: %v", err)
		}
	}

	return ErrClosed
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d_%d", chatID, userID)
}

func (b *Bot) newEngine() *calculator.Engine {
	return calculator.New(calculator.WithPrecision(b.config.Precision))
}

func (b *Bot) createMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (b *Bot) createKeypad(chatID int64, snap calculator.Snapshot) error {
	msg := tgbotapi.NewMessage(chatID, snap.Display)
	msg.ReplyMarkup = renderKeypad(snap)

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) updateKeypad(callback *tgbotapi.CallbackQuery, snap calculator.Snapshot) error {
	keypad := renderKeypad(snap)
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		snap.Display,
		keypad,
	)

	if _, err := b.api.Send(edit); err != nil {
		return err
	}
	return nil
}

func (b *Bot) expireKeypad(callback *tgbotapi.CallbackQuery) error {
	text := "Your session has expired, please /open a new one."
	if text == callback.Message.Text {
		return nil
	}

	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		text,
	)
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	switch command.Text {
	case "/start":
		return b.createMessage(command.Chat.ID, b.welcome)
	case "/help":
		return b.createMessage(command.Chat.ID, b.help)
	case "/open":
		key := sessionKey(command.Chat.ID, command.From.ID)
		if s := b.sessions.Get(key); s != nil {
			return b.createMessage(
				command.Chat.ID,
				"Your session is not expired!",
			)
		}

		session := NewSession(b.newEngine())
		err := b.createKeypad(command.Chat.ID, session.Snapshot())
		if err == nil {
			b.sessions.Set(key, session)
		}
		return err
	default:
		return b.createMessage(command.Chat.ID, "Unknown command. Try /help")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return err
	}

	key := sessionKey(callback.Message.Chat.ID, callback.From.ID)
	session := b.sessions.Get(key)
	if session == nil {
		if err := b.expireKeypad(callback); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	ev, err := eventForKey(callback.Data)
	if err != nil {
		return fmt.Errorf("key %q: %w", callback.Data, err)
	}

	snap, changed, err := session.Press(ev)
	if err != nil {
		return fmt.Errorf("key %q: %w", callback.Data, err)
	}
	b.sessions.Set(key, session)
	if !changed {
		return nil
	}

	if err := b.updateKeypad(callback, snap); err != nil {
		return err
	}
	session.Rendered(snap)
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.sessions.Shutdown(ctx)
	b.api.StopReceivingUpdates()

	select {
	case <-b.isDone:
		if errors.Is(err, ErrSessionsClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.sessions.Close()
	b.api.StopReceivingUpdates()
	<-b.isDone

	if errors.Is(err, ErrSessionsClosed) {
		return ErrClosed
	}
	return err
}
