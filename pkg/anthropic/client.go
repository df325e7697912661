package anthropic

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/resilience"
)

// Client writes a report narrative from a single brief.
type Client interface {
	Narrate(ctx context.Context, req NarrativeRequest) (*Narrative, error)
}

// NarrativeRequest carries one brief. The system prompt is cached for
// CacheTTL ("5m" or "1h") when set.
type NarrativeRequest struct {
	Model       string
	MaxTokens   int64
	System      string
	CacheTTL    string
	Brief       string
	Temperature float64
}

// Narrative is the model's reply with its token usage.
type Narrative struct {
	Model      string
	Text       string
	StopReason string
	Usage      TokenUsage
}

// TokenUsage is the token count of one narrative call.
type TokenUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// price is USD per million tokens.
type price struct {
	in, out float64
}

var narrativePrices = map[string]price{
	"claude-haiku-4-5-20251001":  {in: 0.80, out: 4.00},
	"claude-sonnet-4-5-20250929": {in: 3.00, out: 15.00},
	"claude-opus-4-6":            {in: 15.00, out: 75.00},
}

// EstimateCost prices u at the list rate for model. Cache writes cost 1.25x
// input and cache reads 0.1x. Unknown models cost 0.
func (u TokenUsage) EstimateCost(model string) float64 {
	p, ok := narrativePrices[model]
	if !ok {
		return 0
	}
	input := float64(u.InputTokens) + 1.25*float64(u.CacheCreationInputTokens) + 0.1*float64(u.CacheReadInputTokens)
	return (input*p.in + float64(u.OutputTokens)*p.out) / 1e6
}

// LogCost records u against model and the report pass that spent it.
func (u TokenUsage) LogCost(model, pass string) {
	zap.L().Info("anthropic: narrative usage",
		zap.String("model", model),
		zap.String("pass", pass),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Int64("cache_write_tokens", u.CacheCreationInputTokens),
		zap.Int64("cache_read_tokens", u.CacheReadInputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

type sdkClient struct {
	client sdk.Client
}

// NewClient creates a Client backed by the SDK. The SDK's own retry loop is
// disabled; callers wrap Narrate in resilience.Do.
func NewClient(apiKey string, opts ...option.RequestOption) Client {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &sdkClient{client: sdk.NewClient(opts...)}
}

func (c *sdkClient) Narrate(ctx context.Context, req NarrativeRequest) (*Narrative, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(req.Model),
		MaxTokens:   req.MaxTokens,
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Brief))},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{systemBlock(req.System, req.CacheTTL)}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return nil, resilience.NewTransientError(eris.Wrap(err, "anthropic: narrate"), apiErr.StatusCode)
		}
		return nil, eris.Wrap(err, "anthropic: narrate")
	}
	return toNarrative(msg), nil
}

func systemBlock(text, ttl string) sdk.TextBlockParam {
	block := sdk.TextBlockParam{Text: text}
	if ttl != "" {
		cc := sdk.NewCacheControlEphemeralParam()
		cc.TTL = sdk.CacheControlEphemeralTTL(ttl)
		block.CacheControl = cc
	}
	return block
}

// toNarrative joins the text blocks of msg; tool and thinking blocks are
// ignored.
func toNarrative(msg *sdk.Message) *Narrative {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return &Narrative{
		Model:      string(msg.Model),
		Text:       b.String(),
		StopReason: string(msg.StopReason),
		Usage: TokenUsage{
			InputTokens:              msg.Usage.InputTokens,
			OutputTokens:             msg.Usage.OutputTokens,
			CacheCreationInputTokens: msg.Usage.CacheCreationInputTokens,
			CacheReadInputTokens:     msg.Usage.CacheReadInputTokens,
		},
	}
}
