package bootstrap

import (
	"filetotext/internal/config"
	"filetotext/internal/history"
	"filetotext/internal/keystore"
	"filetotext/internal/ports"
	"filetotext/internal/providers/openai"
	"filetotext/internal/storage"
	"filetotext/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.Controller
	Keys       *keystore.Store
	History    *history.Store
	Config     config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(events ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		return Services{}, err
	}

	keys := keystore.New(store)
	historyStore := history.New(store, events)

	controller := usecase.NewController(
		openai.NewProvider(openai.Config{
			APIBaseURL: cfg.OpenAI.APIBaseURL,
			Model:      cfg.OpenAI.Model,
			Prompt:     cfg.OpenAI.Prompt,
		}),
		keys,
		historyStore,
		events,
		usecase.Config{
			MaxFileSize: cfg.Upload.MaxFileSize,
			Prompt:      cfg.OpenAI.Prompt,
			ResetDelay:  cfg.Session.ResetDelay,
		},
	)

	return Services{
		Controller: controller,
		Keys:       keys,
		History:    historyStore,
		Config:     cfg,
	}, nil
}
