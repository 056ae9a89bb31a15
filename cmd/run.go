package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/app"
	"github.com/abhisek/careercoach/internal/config"
	"github.com/abhisek/careercoach/internal/logging"
	"github.com/abhisek/careercoach/internal/store"
)

// env is what every backend-facing command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	client *api.Client
}

func (e *env) Close() {
	_ = e.logger.Sync()
	if e.store != nil {
		e.store.Close()
	}
}

// setup loads config, opens the journal and builds a client whose
// requests are journalled.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	client, err := api.New(cfg.API.BaseURL,
		api.WithTransport(api.WithRecorder(nil, st.EventRepo(), logger.Named("http"))),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger.Named("api")),
	)
	if err != nil {
		st.Close()
		logger.Sync()
		return nil, fmt.Errorf("create api client: %w", err)
	}

	logger.Info("configured",
		zap.String("config", cfg.Path),
		zap.String("api", client.BaseURL()),
		zap.String("user", cfg.User.ID),
		zap.String("db", cfg.Store.Path),
	)
	return &env{cfg: cfg, logger: logger, store: st, client: client}, nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Client:     e.client,
		EventRepo:  e.store.EventRepo(),
		User:       e.cfg.User.ID,
		QuizCount:  e.cfg.Quiz.DefaultCount,
		Logger:     e.logger,
		SkipSplash: skip,
	})
}
