package telegram

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client delivers alert texts to one ops chat. Texts are queued on Send and
// written by a single pump goroutine.
type Client struct {
	ChatID int64
	Send   chan string
	Bot    Sender
	done   chan struct{}
}

func NewClient(bot Sender, chatID int64, buffer int) *Client {
	return &Client{
		ChatID: chatID,
		Send:   make(chan string, buffer),
		Bot:    bot,
		done:   make(chan struct{}),
	}
}

// Run starts the write pump.
func (c *Client) Run() {
	go c.writePump()
}

// Close stops accepting alerts and waits for the queue to drain.
func (c *Client) Close() {
	close(c.Send)
	<-c.done
}

// Notify queues text without blocking. It reports false when the queue is
// full and the alert was dropped.
func (c *Client) Notify(text string) bool {
	select {
	case c.Send <- text:
		return true
	default:
		log.Printf("WARNING: telegram alert queue full, dropping alert")
		return false
	}
}

func (c *Client) writePump() {
	defer close(c.done)

	for text := range c.Send {
		msg := tgbotapi.NewMessage(c.ChatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := c.Bot.Send(msg); err != nil {
			log.Printf("ERROR: Failed to send Telegram alert: %v", err)
		}
	}
}
