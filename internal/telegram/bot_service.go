// Package telegram connects the service to an operations chat: failed API
// calls are pushed there as alerts, and the chat can query the diagnostics
// table with a couple of bot commands.
package telegram

import (
	"aduan/frontend/internal/config"
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const alertBuffer = 64

// BotService owns the bot connection, the alert client and the command loop.
type BotService struct {
	BotAPI  *tgbotapi.BotAPI
	Alerts  *Client
	Storage DiagnosticsStore
	ChatID  int64
}

// NewBotService authorizes the bot and starts the alert pump. store may be nil.
func NewBotService(cfg config.TelegramConfig, store DiagnosticsStore) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize bot: %w", err)
	}
	bot.Debug = false
	log.Printf("INFO: Telegram alerts authorized on account %s", bot.Self.UserName)

	alerts := NewClient(bot, cfg.ChatID, alertBuffer)
	alerts.Run()

	return &BotService{
		BotAPI:  bot,
		Alerts:  alerts,
		Storage: store,
		ChatID:  cfg.ChatID,
	}, nil
}

// Run answers commands from the ops chat until ctx is done. Messages from
// any other chat are ignored.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			s.BotAPI.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat.ID != s.ChatID {
				continue
			}
			HandleCommand(ctx, update.Message, s.Storage, s.BotAPI)
		}
	}
}

// Close drains pending alerts.
func (s *BotService) Close() {
	s.Alerts.Close()
}
