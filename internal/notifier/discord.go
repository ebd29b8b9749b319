package notifier

import (
	"context"
	"fmt"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordSession opens a bot session for token.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	if err := session.Open(); err != nil {
		return nil, err
	}
	return session, nil
}

func (n *DiscordNotifier) NotifyNewBooking(ctx context.Context, b *models.Booking) error {
	return n.send(ctx, "**"+NewBookingMessage(b)+"**")
}

func (n *DiscordNotifier) NotifyBookingEvent(ctx context.Context, b *models.Booking, event booking.Event) error {
	return n.send(ctx, BookingEventMessage(b, event))
}

func (n *DiscordNotifier) send(ctx context.Context, message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx))
	if err != nil {
		logrus.WithError(err).Error("Failed to send discord message")
		return err
	}
	return nil
}
