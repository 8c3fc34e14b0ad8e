package main

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/learningnavigator/navigator/internal/client"
	"github.com/learningnavigator/navigator/internal/config"
	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	analyticsservice "github.com/learningnavigator/navigator/internal/service/analytics"
	chatservice "github.com/learningnavigator/navigator/internal/service/chat"
	recommendservice "github.com/learningnavigator/navigator/internal/service/recommend"
	"github.com/learningnavigator/navigator/internal/service/session"
	"github.com/learningnavigator/navigator/internal/service/translate"
	"github.com/learningnavigator/navigator/internal/storage"
)

// app holds the services one command invocation needs.
type app struct {
	cfg        *config.Config
	session    *session.Context
	api        *client.Client
	translator *translate.Service
}

func newApp() (*app, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		return nil, err
	}

	store, err := storage.OpenFileStore(cfg.Client.StateFile)
	if err != nil {
		return nil, errors.Wrap(err, "open state file")
	}
	sess := session.Open(store, nil)

	api, err := client.New(cfg.Client.APIBaseURL, sess, cfg.Client.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		session:    sess,
		api:        api,
		translator: translate.NewService(api),
	}, nil
}

func (a *app) dispatcher() (*chatservice.Dispatcher, error) {
	return chatservice.NewDispatcher(a.cfg.Client.WebSocketURL, a.session, chatservice.WithTimeout(a.cfg.Client.ResponseTimeout))
}

func (a *app) recommendations() *recommendservice.Service {
	return recommendservice.NewService(
		recommend.NewMemoryStore(recommend.Seed()),
		a.api,
		a.session,
		a.translator,
		a.cfg.Client.UseTranslateAPI,
	)
}

func (a *app) dashboard() *analyticsservice.Dashboard {
	return analyticsservice.NewDashboard(a.api)
}

// appKey is how subcommands reach the app built by the root command.
type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}
