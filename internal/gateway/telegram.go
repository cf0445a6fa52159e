package gateway

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramGateway struct {
	Bot *tgbotapi.BotAPI
}

func NewTelegramGateway(token string) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{Bot: bot}, nil
}

// Start answers /chatid so an operator can find the id to configure as the
// notification target. It blocks until Stop is called.
func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		if reply := commandReply(update.Message.Text, update.Message.Chat.ID); reply != "" {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			if _, err := tg.Bot.Send(msg); err != nil {
				log.Printf("telegram reply failed: %v", err)
			}
		}
	}
	return nil
}

func commandReply(text string, chatID int64) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	command, _, _ := strings.Cut(fields[0], "@")
	switch command {
	case "/chatid":
		return fmt.Sprintf("This chat's id is %d", chatID)
	case "/start", "/help":
		return "I post a message here whenever an onboarding use case is submitted. Send /chatid to get the id for the configuration."
	}
	return ""
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = "Markdown" // Enable markdown for better alerts
	_, err = tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
