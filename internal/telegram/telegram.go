package telegram

import (
	"WooWithOdoo/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
)

var botGlobal *tgbotapi.BotAPI
var chatIDGlobal int64

// NewBot is optional: an empty token leaves notifications disabled
func NewBot(token string, chatID int64, debug bool) error {

	logger := logging.GetLogger()

	if token == "" {
		logger.Info("telegram token is empty, notifications disabled")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return errors.Wrap(err, "failed tgbotapi.NewBotAPI()")
	}
	bot.Debug = debug

	botGlobal = bot
	chatIDGlobal = chatID

	logger.Infof("telegram bot authorized on account %s", bot.Self.UserName)
	return nil
}

func SendMessage(text string) error {
	if botGlobal == nil {
		return nil
	}

	msg := tgbotapi.NewMessage(chatIDGlobal, text)
	_, err := botGlobal.Send(msg)
	if err != nil {
		return errors.Wrap(err, "failed bot.Send()")
	}
	return nil
}

func SendMessageToTelegramWithLogError(text string) {
	logger := logging.GetLogger()
	logger.Error(text)

	err := SendMessage(text)
	if err != nil {
		logger.Errorf("failed telegram.SendMessage(), error: %v", err)
	}
}
