package slackbot

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/maad-zach/sqrt-api/internal/sqrt"
)

// numberPattern is the exact message grammar the bot answers to: optional
// leading minus, one or more digits, optional decimal point, optional
// trailing digits. "5." matches, ".5" does not.
var numberPattern = regexp.MustCompile(`^-?\d+\.?\d*$`)

// Computer produces the square root of x, in-process or over the network.
type Computer interface {
	Sqrt(ctx context.Context, x float64) (float64, error)
}

// LocalComputer computes square roots in-process.
type LocalComputer struct{}

// Sqrt delegates to the compute service.
func (LocalComputer) Sqrt(_ context.Context, x float64) (float64, error) {
	return sqrt.Compute(x)
}

// Processor maps an inbound chat message to a reply, or to silence.
type Processor struct {
	computer       Computer
	channels       *ChannelNameCache
	allowedChannel string
	logger         *slog.Logger
}

// NewProcessor creates a message processor. When allowedChannel is
// non-empty, channels must be set and messages outside that channel are
// ignored.
func NewProcessor(log *slog.Logger, computer Computer, channels *ChannelNameCache, allowedChannel string) *Processor {
	return &Processor{
		computer:       computer,
		channels:       channels,
		allowedChannel: allowedChannel,
		logger:         log.With(slog.String("component", "processor")),
	}
}

// HandleMessage runs the filter/parse/compute pipeline for one message.
// It returns the reply text and true, or false when the message is to be
// silently ignored (non-numeric text, or a channel the bot does not serve).
func (p *Processor) HandleMessage(ctx context.Context, text, channelID string) (string, bool) {
	if !numberPattern.MatchString(text) {
		return "", false
	}

	if p.allowedChannel != "" {
		name, ok := p.channels.Resolve(ctx, channelID)
		if !ok || name != p.allowedChannel {
			p.logger.Debug("message outside allowed channel",
				slog.String("channel_id", channelID),
				slog.String("channel_name", name),
			)
			return "", false
		}
	}

	number, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return "❌ Error: " + err.Error(), true
	}

	result, err := p.computer.Sqrt(ctx, number)
	if err != nil {
		var negErr *sqrt.NegativeInputError
		if errors.As(err, &negErr) {
			return "❌ Cannot compute square root of negative number: " + sqrt.Format(negErr.Input), true
		}
		return "❌ Error: " + err.Error(), true
	}

	return "√" + sqrt.Format(number) + " = " + sqrt.Format(result), true
}
