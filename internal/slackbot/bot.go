// Package slackbot runs the square root bot over Slack socket mode.
package slackbot

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Config holds the Slack credentials and the channel filter for the bot.
type Config struct {
	BotToken string
	AppToken string
	// AllowedChannel restricts replies to the channel with this display
	// name; empty disables the filter.
	AllowedChannel string
}

// Bot listens for numeric messages over socket mode and replies with
// square roots in threads. Connection lifecycle (reconnect, heartbeat) is
// slack-go's responsibility.
type Bot struct {
	api       *slack.Client
	client    *socketmode.Client
	processor *Processor
	logger    *slog.Logger
}

// New creates the bot with its processor and channel-name cache wired to
// the real Slack API.
func New(log *slog.Logger, cfg Config, computer Computer) *Bot {
	api := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))
	var cache *ChannelNameCache
	if cfg.AllowedChannel != "" {
		cache = NewChannelNameCache(log, &slackConversations{api: api})
	}
	return &Bot{
		api:       api,
		client:    socketmode.New(api),
		processor: NewProcessor(log, computer, cache, cfg.AllowedChannel),
		logger:    log.With(slog.String("component", "slackbot")),
	}
}

// Run connects to Slack and serves events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go b.handleEvents(ctx)
	b.logger.Info("starting socket mode listener")
	return b.client.RunContext(ctx)
}

func (b *Bot) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("stop")
			return
		case evt, ok := <-b.client.Events:
			if !ok {
				b.logger.Info("events channel closed")
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnected:
				b.logger.Info("connected")
			case socketmode.EventTypeConnectionError:
				b.logger.Warn("connection error", slog.Any("error", evt.Data))
			case socketmode.EventTypeEventsAPI:
				// ack first: even an envelope we cannot decode must not
				// be redelivered
				if evt.Request != nil {
					b.client.Ack(*evt.Request)
				}
				payload, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				b.handleEventsAPI(ctx, payload)
			default:
				// interactive events, slash commands, hello frames: not
				// ours, but ack so Slack stops redelivering
				if evt.Request != nil {
					b.client.Ack(*evt.Request)
				}
			}
		}
	}
}

func (b *Bot) handleEventsAPI(ctx context.Context, payload slackevents.EventsAPIEvent) {
	ev := messageEvent(payload)
	if ev == nil {
		return
	}

	reply, ok := b.processor.HandleMessage(ctx, ev.Text, ev.Channel)
	if !ok {
		return
	}

	_, _, err := b.api.PostMessageContext(ctx, ev.Channel,
		slack.MsgOptionText(reply, false),
		slack.MsgOptionTS(ev.TimeStamp),
	)
	if err != nil {
		b.logger.Error("post reply failed",
			slog.String("channel_id", ev.Channel),
			slog.Any("error", err),
		)
	}
}

// messageEvent returns the plain user message embedded in payload, or nil
// for everything the bot discards on purpose: non-callback payloads,
// non-message callbacks (reactions, channel events), message subtypes
// (edits, joins), and bot-authored messages.
func messageEvent(payload slackevents.EventsAPIEvent) *slackevents.MessageEvent {
	if payload.Type != slackevents.CallbackEvent {
		return nil
	}
	ev, ok := payload.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return nil
	}
	if ev.SubType != "" || ev.BotID != "" {
		return nil
	}
	return ev
}

// slackConversations adapts the Slack API client to ConversationLookup.
type slackConversations struct {
	api *slack.Client
}

func (s *slackConversations) ConversationName(ctx context.Context, channelID string) (string, error) {
	ch, err := s.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		return "", err
	}
	return ch.Name, nil
}
