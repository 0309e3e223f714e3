// Package messenger holds the chat transports. Both are thin: they hand
// the message text to the interpreter and deliver whatever it returns.
package messenger

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/kazu/uniquest/internal/bot"
)

type LINE struct {
	api           *messaging_api.MessagingApiAPI
	channelSecret string
	bot           *bot.Bot
}

func NewLINE(channelToken, channelSecret string, b *bot.Bot) (*LINE, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("creating LINE client: %w", err)
	}
	return &LINE{api: api, channelSecret: channelSecret, bot: b}, nil
}

// Callback is the webhook endpoint. Signature verification happens
// inside ParseRequest; a bad signature is a 400, everything else is
// answered 200 so LINE does not retry storms at us.
func (l *LINE) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(l.channelSecret, r)
	if err != nil {
		log.Printf("line: parsing webhook: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		reply := l.bot.Handle(r.Context(), msg.Text)
		if err := l.Reply(e.ReplyToken, reply); err != nil {
			log.Printf("line: replying: %v", err)
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (l *LINE) Reply(replyToken, text string) error {
	_, err := l.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("line reply: %w", err)
	}
	return nil
}

// Push sends a message to the configured user, fire-and-forget from the
// scheduler's perspective.
func (l *LINE) Push(_ context.Context, userID, text string) error {
	_, err := l.api.PushMessage(&messaging_api.PushMessageRequest{
		To: userID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	return nil
}
