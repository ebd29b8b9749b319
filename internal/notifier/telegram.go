package notifier

import (
	"context"
	"fmt"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier posts to the staff group chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) NotifyNewBooking(ctx context.Context, b *models.Booking) error {
	return n.send(ctx, NewBookingMessage(b))
}

func (n *TelegramNotifier) NotifyBookingEvent(ctx context.Context, b *models.Booking, event booking.Event) error {
	return n.send(ctx, BookingEventMessage(b, event))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	if n.chatID == 0 {
		return fmt.Errorf("telegram chat ID is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}
