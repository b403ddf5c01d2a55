package scoring

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
	"github.com/almashriq/backoffice/pkg/configuration"
)

// FromConfig selects the scorer backend. Both variants satisfy the same
// contract; the reconciler never knows which one is active.
func FromConfig(conf *configuration.Configuration) importing.Scorer {
	if conf.Import.Scorer == "openai" {
		client := openai.NewClient(conf.OpenAIKey)
		return NewOpenAI(client, conf.Import.OpenAIModel, conf.Import.OpenAITimeout, conf.Logger())
	}
	return NewLocal()
}
