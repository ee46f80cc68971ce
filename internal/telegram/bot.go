// Package telegram posts rendered snapshots to a Telegram chat.
package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the part of the bot API the sharer needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Sharer struct {
	api    Sender
	chatID int64
	log    zerolog.Logger
}

// NewSharer logs in with token and shares to chatID.
func NewSharer(token string, chatID int64, log zerolog.Logger) (*Sharer, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	log.Info().Str("bot", api.Self.UserName).Int64("chat_id", chatID).Msg("telegram: ready")
	return NewSharerWith(api, chatID, log), nil
}

// NewSharerWith shares through an existing sender.
func NewSharerWith(api Sender, chatID int64, log zerolog.Logger) *Sharer {
	return &Sharer{api: api, chatID: chatID, log: log.With().Str("component", "telegram").Logger()}
}

// SharePhoto posts a PNG with a caption.
func (s *Sharer) SharePhoto(name string, img []byte, caption string) error {
	photo := tgbotapi.NewPhoto(s.chatID, tgbotapi.FileBytes{Name: name, Bytes: img})
	photo.Caption = caption
	return s.send(photo, name)
}

// ShareDocument posts a file, e.g. an SVG that Telegram would not show
// inline.
func (s *Sharer) ShareDocument(name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(s.chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	return s.send(doc, name)
}

// ShareText posts a Markdown message.
func (s *Sharer) ShareText(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = "Markdown"
	return s.send(msg, "text")
}

func (s *Sharer) send(c tgbotapi.Chattable, what string) error {
	m, err := s.api.Send(c)
	if err != nil {
		s.log.Error().Err(err).Str("item", what).Msg("telegram: send failed")
		return fmt.Errorf("telegram send %s: %w", what, err)
	}
	s.log.Debug().Str("item", what).Int("message_id", m.MessageID).Msg("telegram: sent")
	return nil
}
