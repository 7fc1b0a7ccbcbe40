package ai

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"NovaChat/internal/config"
	"NovaChat/internal/lib/sl"
)

// MissingCredentialMarker is returned in place of a completion when the
// configured provider has no API key. Callers must discard responses
// containing it instead of showing them to visitors.
const MissingCredentialMarker = "[AI_PROVIDER_KEY_MISSING]"

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Role is the two-role schema conversation history is mapped to before it is
// handed to a provider: visitor turns vs. everything else.
type Role string

const (
	RoleVisitor   Role = "visitor"
	RoleAssistant Role = "assistant"
)

// Turn is one prior exchange in the conversation history.
type Turn struct {
	Role    Role
	Content string
}

// Request carries everything a completion needs; provider, model and
// knowledge-base instructions come from the tenant's widget configuration.
type Request struct {
	Message      string
	History      []Turn
	Instructions string
	Provider     string
	Model        string
	TenantID     string
}

// Responder produces AI completions for visitor messages, switching between
// providers per tenant configuration.
type Responder struct {
	openaiKey    string
	anthropicKey string
	log          *slog.Logger
}

func NewResponder(conf *config.Config, logger *slog.Logger) *Responder {
	return &Responder{
		openaiKey:    conf.OpenAI.ApiKey,
		anthropicKey: conf.Anthropic.ApiKey,
		log:          logger.With(sl.Module("ai")),
	}
}

// GetAIResponse requests a completion from the configured provider. A missing
// provider credential yields the marker string, not an error: the caller
// treats it as a configuration problem and stays silent toward the visitor.
func (r *Responder) GetAIResponse(ctx context.Context, req Request) (string, error) {
	var (
		text string
		err  error
	)

	switch req.Provider {
	case ProviderAnthropic:
		if r.anthropicKey == "" {
			return MissingCredentialMarker, nil
		}
		text, err = r.askAnthropic(ctx, req)
	default:
		if r.openaiKey == "" {
			return MissingCredentialMarker, nil
		}
		text, err = r.askOpenAI(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("ai completion: %w", err)
	}

	return stripCitations(text), nil
}

// Assistants quote knowledge-base passages with bracketed citation markers
// that mean nothing to a visitor.
var citationRe = regexp.MustCompile(`【\d+:\d+†[^】]+】`)

func stripCitations(text string) string {
	return strings.TrimSpace(citationRe.ReplaceAllString(text, ""))
}
