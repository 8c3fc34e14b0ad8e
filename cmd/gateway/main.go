package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/learningnavigator/navigator/internal/config"
	"github.com/learningnavigator/navigator/internal/handler"
	"github.com/learningnavigator/navigator/internal/handler/api"
	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/handler/ws"
	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	"github.com/learningnavigator/navigator/internal/service/ai"
	"github.com/learningnavigator/navigator/internal/service/classifier"
	"github.com/learningnavigator/navigator/internal/service/conversation"
	"github.com/learningnavigator/navigator/internal/service/escalation"
	"github.com/learningnavigator/navigator/internal/service/knowledge"
	"github.com/learningnavigator/navigator/internal/service/profile"
	"github.com/learningnavigator/navigator/internal/service/translate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file, using system environment variables only")
	}

	kb := knowledge.NewBase(knowledge.Seed())
	recs := recommend.NewMemoryStore(recommend.Seed())
	profiles := profile.NewStore(recs.Roles())

	// Initialize chat model
	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize chat model, answering from the knowledge base only")
			chatModel = nil
		} else {
			log.Info().Str("model", cfg.AI.Model).Msg("chat model initialized")
		}
	} else {
		log.Info().Msg("Ark 凭证未配置，使用内置知识库回答")
	}

	classifierSvc, err := classifier.NewService(ctx, chatModel, cfg.AI.ClassifierEnabled)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize classifier, falling back to keyword rules")
		classifierSvc, _ = classifier.NewService(ctx, nil, false)
	}
	conversations := conversation.NewService(classifierSvc)

	wsOpts := ws.Options{
		Responder:         kb,
		Conversations:     conversations,
		Profiles:          profiles,
		HeartbeatInterval: cfg.Server.HeartbeatInterval,
	}
	var translator api.Translator
	if chatModel != nil {
		if aiSvc, err := ai.NewService(ctx, chatModel, kb); err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI answers")
		} else {
			wsOpts.Responder = aiSvc
			wsOpts.Fallback = kb
		}
		if tr, err := ai.NewTranslator(ctx, chatModel); err != nil {
			log.Warn().Err(err).Msg("failed to initialize translator")
		} else {
			translator = translate.NewService(tr)
		}
	}

	router := handler.NewRouter(
		cfg.Server.CORSOrigins,
		auth.NewVerifier(cfg.Server.JWTSecret),
		api.New(conversations, recs, profiles, escalation.NewService(nil), translator, kb),
		ws.New(wsOpts),
	)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("learning navigator gateway listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
