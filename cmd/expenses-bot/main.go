package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/DimaStam/expenses-bot/pkg/app"
	"github.com/DimaStam/expenses-bot/pkg/ledger"

	"github.com/joho/godotenv"
	"github.com/vmkteam/embedlog"
)

const appName = "expenses-bot"

var (
	flHost        = flag.String("host", "0.0.0.0", "listen host")
	flPort        = flag.Int("port", 8080, "listen port")
	flDevel       = flag.Bool("devel", false, "enable devel mode")
	flVerbose     = flag.Bool("verbose", false, "enable debug output")
	flJSONLogs    = flag.Bool("json", false, "enable json output")
	flLedgerPath  = flag.String("ledger", "wydatki.xlsx", "path to ledger workbook")
	flLedgerSheet = flag.String("sheet", "", "ledger worksheet tab (default: current year)")
)

func main() {
	flag.Parse()

	// load credentials from .env if present
	_ = godotenv.Load()

	sl := embedlog.NewLogger(*flVerbose, *flJSONLogs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg app.Config
	cfg.Server.Host = *flHost
	cfg.Server.Port = *flPort
	cfg.Server.IsDevel = *flDevel
	cfg.Telegram.Token = os.Getenv("WYDATKI_BOT_API_KEY")
	cfg.Telegram.Debug, _ = strconv.ParseBool(os.Getenv("TELEGRAM_DEBUG"))
	cfg.OpenAI.Token = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAI.Model = os.Getenv("OPENAI_MODEL")
	cfg.AssemblyAI.Token = os.Getenv("ASSEMBLYAI_API_KEY")
	cfg.Ledger.Path = *flLedgerPath
	cfg.Ledger.Sheet = *flLedgerSheet
	if cfg.Ledger.Sheet == "" {
		cfg.Ledger.Sheet = strconv.Itoa(time.Now().Year())
	}

	lr, err := ledger.New(cfg.Ledger.Path, cfg.Ledger.Sheet, sl)
	exitOnError(sl, err)

	a, err := app.New(ctx, appName, sl, cfg, lr)
	exitOnError(sl, err)

	go func() {
		<-ctx.Done()
		if err := a.Shutdown(5 * time.Second); err != nil {
			sl.Error(context.Background(), "shutdown error", "err", err)
		}
	}()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitOnError(sl, err)
	}
}

func exitOnError(sl embedlog.Logger, err error) {
	if err != nil {
		sl.Error(context.Background(), "fatal error", "err", err)
		os.Exit(1)
	}
}
