package ollama

import (
	"github.com/lumen-labs/lumen/core"
	"github.com/lumen-labs/lumen/providers"
)

func init() {
	providers.Register("ollama", func(cfg providers.Config) (core.Provider, error) {
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
		return New(opts...), nil
	})
}
