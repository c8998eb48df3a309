package app

import (
	"context"
	"time"

	"github.com/DimaStam/expenses-bot/pkg/ledger"
	"github.com/DimaStam/expenses-bot/pkg/services"
	"github.com/DimaStam/expenses-bot/pkg/telegram"
	"github.com/DimaStam/expenses-bot/pkg/wydatki"

	"github.com/labstack/echo/v4"
	"github.com/vmkteam/appkit"
	"github.com/vmkteam/embedlog"
)

type Config struct {
	Server struct {
		Host    string
		Port    int
		IsDevel bool
	}
	Telegram struct {
		Token string
		Debug bool
	}
	OpenAI struct {
		Token string
		Model string
	}
	AssemblyAI struct {
		Token string
	}
	Ledger struct {
		Path  string
		Sheet string
	}
}

type App struct {
	embedlog.Logger
	appName string
	cfg     Config
	ledger  *ledger.Ledger
	echo    *echo.Echo
	tgBot   *telegram.Bot
}

func New(ctx context.Context, appName string, sl embedlog.Logger, cfg Config, lr *ledger.Ledger) (*App, error) {
	a := &App{
		appName: appName,
		cfg:     cfg,
		ledger:  lr,
		echo:    appkit.NewEcho(),
		Logger:  sl,
	}

	if cfg.Telegram.Token != "" {
		manager := wydatki.NewManager(a.newExtractor(), lr, sl)

		tgBot, err := telegram.New(ctx, telegram.Config{
			Token: cfg.Telegram.Token,
			Debug: cfg.Telegram.Debug,
		}, manager, a.newTranscriber(), sl)
		if err != nil {
			return nil, err
		}
		a.tgBot = tgBot
	}

	return a, nil
}

// newExtractor returns the OpenAI extractor, or the pattern-based mock when
// no token is configured (devel runs).
func (a *App) newExtractor() services.Extractor {
	if a.cfg.OpenAI.Token == "" {
		return services.NewMockExtractor(a.Logger)
	}
	return wydatki.NewOpenAI(a.cfg.OpenAI.Token, a.cfg.OpenAI.Model)
}

// newTranscriber prefers AssemblyAI and falls back to a local whisper-cli
// binary when no token is configured.
func (a *App) newTranscriber() services.Transcriber {
	if a.cfg.AssemblyAI.Token == "" {
		return wydatki.NewLocalWhisper()
	}
	return wydatki.NewAssemblyAI(a.cfg.AssemblyAI.Token)
}

// Run is a function that runs application.
func (a *App) Run(ctx context.Context) error {
	a.registerMetrics()
	a.registerHandlers()
	a.registerDebugHandlers()
	a.registerMetadata()

	// Start Telegram bot if configured
	if a.tgBot != nil {
		go func() {
			if err := a.tgBot.Start(ctx); err != nil {
				a.Error(ctx, "telegram bot error", "err", err)
			}
		}()
	}

	return a.runHTTPServer(ctx, a.cfg.Server.Host, a.cfg.Server.Port)
}

// Shutdown is a function that gracefully stops HTTP server.
func (a *App) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop Telegram bot
	if a.tgBot != nil {
		a.tgBot.Stop(ctx)
	}

	return a.echo.Shutdown(ctx)
}

// registerMetadata is a function that registers meta info from service.
func (a *App) registerMetadata() {
	svcs := []appkit.ServiceMetadata{}
	if a.tgBot != nil {
		// Telegram bot runs asynchronously in a separate goroutine
		svcs = append(svcs, appkit.NewServiceMetadata("telegram-bot", appkit.MetadataServiceTypeAsync))
	}

	opts := appkit.MetadataOpts{
		HasPublicAPI:  false, // No public API, only Telegram bot
		HasPrivateAPI: false,
		Services:      svcs,
	}

	md := appkit.NewMetadataManager(opts)
	md.RegisterMetrics()

	a.echo.GET("/debug/metadata", md.Handler)
}
