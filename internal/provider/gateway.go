package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/truth-meter/backend/pkg/logger"
)

// Supported provider names.
const (
	OpenAI    = "openai"
	Google    = "google"
	Anthropic = "anthropic"
	DeepSeek  = "deepseek"
)

const deepSeekBaseURL = "https://api.deepseek.com/v1"

// defaultModels maps each provider to the model substituted for "auto" or an
// empty model name.
var defaultModels = map[string]string{
	OpenAI:    "gpt-4o",
	Google:    "gemini-2.5-flash",
	Anthropic: "claude-sonnet-4-5",
	DeepSeek:  "deepseek-chat",
}

// Config carries zero-or-more resolved provider credentials. Providers with an
// empty key are simply not configured; GetResponse reports that per call.
type Config struct {
	OpenAIKey    string
	GoogleKey    string
	AnthropicKey string
	DeepSeekKey  string
	Timeout      time.Duration
}

// Result is the single outcome kind the gateway produces. A provider failure
// never surfaces as an error: the sentinel text lands in Text and Degraded is
// set, and the judge grades that text like any other answer. The judge has the
// opposite discipline (see judge.Judge.Evaluate).
type Result struct {
	Text     string
	Degraded bool
}

type Gateway struct {
	cfg       Config
	openai    *openai.Client
	deepseek  *openai.Client
	anthropic *anthropic.Client
	google    *genai.Client
}

// NewGateway builds one client per configured credential up front. There is no
// hidden process-wide state; an unconfigured provider stays nil.
func NewGateway(ctx context.Context, cfg Config) *Gateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	g := &Gateway{cfg: cfg}

	if cfg.OpenAIKey != "" {
		g.openai = openai.NewClient(cfg.OpenAIKey)
	}

	if cfg.DeepSeekKey != "" {
		dsCfg := openai.DefaultConfig(cfg.DeepSeekKey)
		dsCfg.BaseURL = deepSeekBaseURL
		g.deepseek = openai.NewClientWithConfig(dsCfg)
	}

	if cfg.AnthropicKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey))
		g.anthropic = &client
	}

	if cfg.GoogleKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GoogleKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			logger.Warn("Failed to create Google GenAI client", zap.Error(err))
		} else {
			g.google = client
		}
	}

	logger.Info("Provider gateway initialized",
		zap.Bool("openai", g.openai != nil),
		zap.Bool("google", g.google != nil),
		zap.Bool("anthropic", g.anthropic != nil),
		zap.Bool("deepseek", g.deepseek != nil),
	)

	return g
}

// ResolveModel substitutes the per-provider default for "auto" or an empty
// model name. Unknown providers fall back to the OpenAI default, matching the
// lookup order in GetResponse where the unknown-provider sentinel wins first.
func ResolveModel(providerName, modelName string) string {
	if modelName != "auto" && modelName != "" {
		return modelName
	}
	if m, ok := defaultModels[providerName]; ok {
		return m
	}
	return defaultModels[OpenAI]
}

// GetResponse sends prompt as a single user turn to the named provider and
// returns the first textual completion. Every failure mode (unknown provider,
// missing credential, call error) comes back as a degraded Result.
func (g *Gateway) GetResponse(ctx context.Context, providerName, modelName, prompt string) Result {
	model := ResolveModel(providerName, modelName)

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	var (
		text string
		err  error
	)

	switch providerName {
	case OpenAI:
		if g.openai == nil {
			return degraded("Error: OPENAI_API_KEY not configured")
		}
		text, err = g.callChatCompletion(ctx, g.openai, model, prompt)
	case Google:
		if g.google == nil {
			return degraded("Error: GOOGLE_API_KEY not configured")
		}
		text, err = g.callGoogle(ctx, model, prompt)
	case Anthropic:
		if g.anthropic == nil {
			return degraded("Error: ANTHROPIC_API_KEY not configured")
		}
		text, err = g.callAnthropic(ctx, model, prompt)
	case DeepSeek:
		if g.deepseek == nil {
			return degraded("Error: DEEPSEEK_API_KEY not configured")
		}
		text, err = g.callChatCompletion(ctx, g.deepseek, model, prompt)
	default:
		return degraded(fmt.Sprintf("Error: Unknown provider %s", providerName))
	}

	if err != nil {
		logger.Warn("Provider call failed",
			zap.String("provider", providerName),
			zap.String("model", model),
			zap.Error(err),
		)
		return degraded(fmt.Sprintf("Error calling %s: %s", model, err.Error()))
	}

	logger.Debug("Provider response received",
		zap.String("provider", providerName),
		zap.String("model", model),
		zap.Int("response_length", len(text)),
	)

	return Result{Text: text}
}

func degraded(text string) Result {
	return Result{Text: text, Degraded: true}
}

// callChatCompletion serves both OpenAI and DeepSeek; DeepSeek exposes an
// OpenAI-compatible API behind a different base URL.
func (g *Gateway) callChatCompletion(ctx context.Context, client *openai.Client, model, prompt string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Gateway) callAnthropic(ctx context.Context, model, prompt string) (string, error) {
	message, err := g.anthropic.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if block, ok := content.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (g *Gateway) callGoogle(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.google.Models.GenerateContent(
		ctx,
		model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String(), nil
}
