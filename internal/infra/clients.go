// README: Outbound client initialization for the language model and the flight provider.
package infra

import (
	"context"
	"fmt"

	"flightchat/internal/ai"
	"flightchat/internal/config"
	"flightchat/internal/modules/flights"
)

// NewToolCaller builds the configured model backend. The returned close
// function releases SDK resources and is always safe to call.
func NewToolCaller(ctx context.Context, cfg config.Config) (ai.ToolCaller, func(), error) {
	switch cfg.AI.Provider {
	case config.ProviderFireworks:
		p := ai.NewOpenAIProvider(cfg.AI.FireworksURL, cfg.AI.FireworksKey, cfg.AI.FireworksModel, nil)
		return p, func() {}, nil
	case config.ProviderGemini:
		p, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiModel)
		if err != nil {
			return nil, func() {}, err
		}
		return p, p.Close, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}
}

// NewFlightService wires the extraction pipeline around llm.
func NewFlightService(cfg config.Config, llm ai.ToolCaller) *flights.Service {
	return flights.NewService(
		flights.NewExtractor(llm, nil),
		flights.NewGateway(cfg.Provider.BaseURL, cfg.Provider.SerpAPIKey, nil),
		flights.NewNormalizer(cfg.Normalize),
	)
}
