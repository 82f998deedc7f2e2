package gemini

import (
	"fmt"

	"github.com/lumen-labs/lumen/core"
	"github.com/lumen-labs/lumen/providers"
)

func init() {
	providers.Register("gemini", func(cfg providers.Config) (core.Provider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: gemini requires an API key (set GEMINI_API_KEY or run `lumen keys set gemini`)", core.ErrConfig)
		}

		var opts []Option
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(cfg.HTTPClient))
		}

		return New(cfg.APIKey, opts...), nil
	})
}
