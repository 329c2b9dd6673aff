package translator

import (
	"fmt"
	"strings"

	"google.golang.org/api/option"

	"github.com/bohradivyansh-maker/translation-assistant/internal/config"
)

// Names lists the services New can build.
var Names = []string{"google", "mymemory", "ollama", "openai"}

// New builds the named service from the services configuration. "openrouter"
// is accepted as an alias of "openai".
func New(name string, services config.ServicesConfig) (TranslationService, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google":
		var opts []option.ClientOption
		if services.Google.ProjectID != "" {
			opts = append(opts, option.WithQuotaProject(services.Google.ProjectID))
		}
		return NewGoogleService(services.Google.Credentials, opts...), nil
	case "mymemory":
		return NewMyMemoryService(services.MyMemory.Email), nil
	case "ollama":
		return NewOllamaTranslator(services.Ollama.BaseURL, services.Ollama.Model), nil
	case "openai", "openrouter":
		return NewOpenAIService(services.OpenAI.APIKey, services.OpenAI.BaseURL, services.OpenAI.Model), nil
	default:
		return nil, fmt.Errorf("unknown translation service %q (available: %s)", name, strings.Join(Names, ", "))
	}
}
