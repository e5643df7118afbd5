package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
)

// Button is one inline button: a visible label and the callback payload the
// transport echoes back when it is pressed.
type Button struct {
	Label string
	Data  string
}

// Sender is the outbound half of the transport contract. Scene handlers only
// ever talk to this interface; the Telegram client stays behind it.
type Sender interface {
	SendText(chatID int64, text string) error
	SendHTML(chatID int64, html string) error
	SendKeyboard(chatID int64, text string, rows [][]string) error
	SendLocationRequest(chatID int64, text, buttonLabel string) error
	SendInlineButtons(chatID int64, text string, rows [][]Button) error
	SendDocument(chatID int64, filename string, data []byte) error
}

// TelegramSender sends through the Bot API behind a circuit breaker, so a
// Telegram outage degrades into fast failures instead of piling up blocked
// handlers.
type TelegramSender struct {
	bot *tgbotapi.BotAPI
	cb  *gobreaker.CircuitBreaker
}

// NewTelegramSender wraps a connected Bot API client.
func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	settings := gobreaker.Settings{
		Name:        "Telegram-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger than 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &TelegramSender{
		bot: api,
		cb:  gobreaker.NewCircuitBreaker(settings),
	}
}

func (t *TelegramSender) send(c tgbotapi.Chattable) error {
	_, err := t.cb.Execute(func() (interface{}, error) {
		return t.bot.Send(c)
	})
	return err
}

func (t *TelegramSender) SendText(chatID int64, text string) error {
	return t.send(tgbotapi.NewMessage(chatID, text))
}

func (t *TelegramSender) SendHTML(chatID int64, html string) error {
	msg := tgbotapi.NewMessage(chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	return t.send(msg)
}

func (t *TelegramSender) SendKeyboard(chatID int64, text string, rows [][]string) error {
	keyboardRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboardRows = append(keyboardRows, buttons)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(keyboardRows...)
	return t.send(msg)
}

func (t *TelegramSender) SendLocationRequest(chatID int64, text, buttonLabel string) error {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(buttonLabel)),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return t.send(msg)
}

func (t *TelegramSender) SendInlineButtons(chatID int64, text string, rows [][]Button) error {
	keyboardRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		keyboardRows = append(keyboardRows, buttons)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboardRows...)
	return t.send(msg)
}

func (t *TelegramSender) SendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	return t.send(doc)
}
