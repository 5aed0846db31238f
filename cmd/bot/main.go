package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/Valeria115/VK-chat-bot/config"
	"github.com/Valeria115/VK-chat-bot/database"
	"github.com/Valeria115/VK-chat-bot/router"

	"github.com/Valeria115/VK-chat-bot/pkg/ai"
	"github.com/Valeria115/VK-chat-bot/pkg/audience"
	"github.com/Valeria115/VK-chat-bot/pkg/bot"
	"github.com/Valeria115/VK-chat-bot/pkg/crawler"
	"github.com/Valeria115/VK-chat-bot/pkg/freshness"
	"github.com/Valeria115/VK-chat-bot/pkg/intent"
	"github.com/Valeria115/VK-chat-bot/pkg/text"
	"github.com/Valeria115/VK-chat-bot/pkg/vk"

	healthCtrlImp "github.com/Valeria115/VK-chat-bot/pkg/health/controllerImp"
	kbCtrlImp "github.com/Valeria115/VK-chat-bot/pkg/kb/controllerImp"
	kbEmbedder "github.com/Valeria115/VK-chat-bot/pkg/kb/embedder"
	kbRepoImp "github.com/Valeria115/VK-chat-bot/pkg/kb/repositoryImp"
	kbServiceImp "github.com/Valeria115/VK-chat-bot/pkg/kb/serviceImp"
)

func main() {
	start := time.Now()
	logger := slog.Default()

	// 1) Config
	cfg := config.Load()

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)
	kbRepo := kbRepoImp.New(db)

	// 3) Embedder + search engine
	emb := kbEmbedder.New(cfg.EmbedderEndpoint, cfg.EmbedderAPIKey, cfg.EmbedderModel)
	kbSvc := kbServiceImp.New(kbRepo, emb, cfg.SiteURL)

	// 4) Crawler + freshness; the store must be populated before serving
	crawl := crawler.New(crawler.NewHTTPFetcher(), emb, logger)
	fresh := freshness.New(kbRepo, crawl, cfg.SiteURL,
		time.Duration(cfg.RefreshDays)*24*time.Hour, emb.ModelVersion(), logger)
	if err := fresh.EnsureFresh(context.Background()); err != nil {
		log.Fatalf("knowledge base refresh: %v", err)
	}

	// 5) Intent triggers (YAML override optional)
	triggers := intent.DefaultTriggers()
	if cfg.TriggersPath != "" {
		t, err := intent.LoadTriggers(cfg.TriggersPath)
		if err != nil {
			logger.Warn("trigger file ignored", "err", err)
		} else {
			triggers = t
		}
	}
	classifier := intent.NewClassifier(triggers)

	// 6) LLM (mock fallback)
	var llm ai.Client
	if cfg.GigaChatEndpoint != "" && cfg.GigaChatAuthKey != "" {
		llm = ai.NewGigaChat(cfg.GigaChatEndpoint, cfg.GigaChatAuthKey, cfg.GigaChatModel)
	} else {
		logger.Warn("no GigaChat credentials, using mock completion client")
		llm = ai.NewMock()
	}

	// 7) VK messaging; auth failure here is fatal
	vkClient := vk.NewClient(cfg.VKAPIToken, cfg.VKGroupID, logger)
	longpoll, err := vk.NewLongPoll(vkClient)
	if err != nil {
		log.Fatalf("vk long poll auth: %v", err)
	}

	// 8) Text collaborators; absent endpoints degrade to pass-through
	var corrector text.Corrector = text.NewNoopCorrector()
	if cfg.SpellerEndpoint != "" {
		corrector = text.NewRemoteCorrector(cfg.SpellerEndpoint)
	}
	var toxicity text.ToxicityChecker = text.NewPermissiveChecker()
	if cfg.ToxicityEndpoint != "" {
		toxicity = text.NewRemoteToxicity(cfg.ToxicityEndpoint, 0.7)
	}

	// 9) Pipeline
	b := bot.New(
		kbSvc,
		classifier,
		audience.New(kbRepo),
		llm,
		corrector,
		toxicity,
		vkClient,
		logger,
	)
	handle := func(ev vk.Event) { b.HandleEvent(context.Background(), ev) }

	// 10) HTTP surface: health, callback webhook, KB admin
	e := echo.New()
	e.Use(echoMiddleware.Recover())
	r := router.New(
		e,
		kbCtrlImp.New(kbSvc, kbRepo, fresh),
		vk.NewWebhook(cfg.VKConfirmToken, handle, logger),
		healthCtrlImp.NewHealthCtrl(db, kbRepo),
	)
	go func() {
		if err := r.Start(":" + cfg.Port); err != nil {
			log.Fatalf("http: %v", err)
		}
	}()

	// 11) Serve
	logger.Info("bot started", "init", time.Since(start).String())
	if err := longpoll.Listen(context.Background(), handle); err != nil {
		log.Fatalf("long poll: %v", err)
	}
}
