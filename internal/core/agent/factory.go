package agent

import (
	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/dbchat/dbchat/internal/llm"
)

// Factory builds a fresh agent for every turn from the current handle and
// credential. It holds configuration only.
type Factory struct {
	LLM        llm.Config
	Options    Options
	SampleRows int
	// NewModel overrides model construction, mainly in tests.
	NewModel func(cfg llm.Config) llm.ChatModel
}

// Build returns an agent bound to handle, authenticating with credential.
func (f Factory) Build(handle database.Adapter, credential string) (*SQLAgent, error) {
	toolkit, err := sqltools.New(handle, sqltools.WithSampleRows(f.SampleRows))
	if err != nil {
		return nil, err
	}

	cfg := f.LLM
	cfg.APIKey = credential

	var model llm.ChatModel
	if f.NewModel != nil {
		model = f.NewModel(cfg)
	} else {
		model = llm.NewOpenAI(cfg)
	}

	return New(toolkit, model, f.Options), nil
}
