package communication

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/listmanager"
)

type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack posts console alerts to an info and an error channel.
type Slack struct {
	client  poster
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

func ConnectSlack(cfg config.Slack) *Slack {
	return NewSlack(cfg.Token, SlackOption{InfoChannelID: cfg.InfoChannelID, ErrorChannelID: cfg.ErrorChannelID})
}

func NewSlack(token string, options SlackOption) *Slack {
	return &Slack{client: slack.New(token), options: options}
}

func (s *Slack) postMessage(ctx context.Context, channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (this *Slack) Info(ctx context.Context, message string) error {
	return this.postMessage(ctx, this.options.InfoChannelID, message)
}

func (this *Slack) Error(ctx context.Context, message string) error {
	return this.postMessage(ctx, this.options.ErrorChannelID, message)
}

// Notify routes an alert to the channel of its level.
func (this *Slack) Notify(ctx context.Context, alert listmanager.Alert) error {
	if alert.Level == listmanager.LevelError {
		return this.Error(ctx, ":warning: "+alert.String())
	}
	return this.Info(ctx, alert.String())
}
