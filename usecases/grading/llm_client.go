package grading

import (
	"sync"

	"github.com/checkmarble/llmberjack"
	"github.com/checkmarble/llmberjack/llms/openai"
	"github.com/pkg/errors"

	"github.com/campuskit/grader-backend/infra"
)

// LlmClientProvider lazily builds the shared llmberjack adapter used by all
// grading personas. The adapter is created once and reused across passes.
type LlmClientProvider struct {
	config infra.GraderConfiguration

	mu      sync.Mutex
	adapter *llmberjack.Llmberjack
}

func NewLlmClientProvider(config infra.GraderConfiguration) *LlmClientProvider {
	return &LlmClientProvider{config: config}
}

func (p *LlmClientProvider) createOpenAIProvider() (llmberjack.Llm, error) {
	opts := []openai.Opt{}
	if p.config.ProviderUrl != "" {
		opts = append(opts, openai.WithBaseUrl(p.config.ProviderUrl))
	}
	if p.config.ProviderKey != "" {
		opts = append(opts, openai.WithApiKey(p.config.ProviderKey))
	}

	provider, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OpenAI provider")
	}
	return provider, nil
}

func (p *LlmClientProvider) GetClient() (*llmberjack.Llmberjack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.adapter != nil {
		return p.adapter, nil
	}

	var mainProvider llmberjack.Llm
	var err error

	switch p.config.ProviderType {
	case infra.GraderProviderTypeOpenAI:
		mainProvider, err = p.createOpenAIProvider()
	default:
		return nil, errors.Errorf("unsupported provider type: %s", p.config.ProviderType)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM provider")
	}

	adapter, err := llmberjack.New(llmberjack.WithProvider("main", mainProvider))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM adapter")
	}

	p.adapter = adapter
	return p.adapter, nil
}
