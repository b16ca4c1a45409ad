package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/riftlabs/riftotc/internal/analysis"
	"github.com/riftlabs/riftotc/internal/configs"
	"github.com/riftlabs/riftotc/internal/deal"
	dealmemory "github.com/riftlabs/riftotc/internal/deal/memory"
	dealpostgres "github.com/riftlabs/riftotc/internal/deal/postgres"
	"github.com/riftlabs/riftotc/internal/market"
	binancemarket "github.com/riftlabs/riftotc/internal/market/binance"
	"github.com/riftlabs/riftotc/internal/market/coingecko"
	"github.com/riftlabs/riftotc/internal/narrative"
	openainarrative "github.com/riftlabs/riftotc/internal/narrative/openai"
	"github.com/riftlabs/riftotc/internal/server"
)

var (
	flagconf string

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}))
)

func init() {
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// .env 仅用于本地开发
	_ = godotenv.Load()

	config, err := configs.Load(flagconf)
	if err != nil {
		log.Error("Error loading config", "err", err)
		return
	}

	log.Debug("Loaded config", "listen_addr", config.ListenAddr, "ai_enabled", config.AIConfig.Enabled)

	// 初始化各个组件
	var providerOpts []coingecko.Option
	if config.MarketConfig.CoinGeckoBaseURL != "" {
		providerOpts = append(providerOpts, coingecko.WithBaseURL(config.MarketConfig.CoinGeckoBaseURL))
	}
	provider := coingecko.NewClient(providerOpts...)

	log.Debug("init market provider")

	sources := []market.CandleSource{provider}
	if config.MarketConfig.BinanceFallback {
		sources = append(sources, binancemarket.NewCandleSource())
	}
	candles := market.NewMultiCandleSource(sources, log)

	log.Debug("init candle sources", "count", len(sources))

	var narrator narrative.Narrator
	if config.AIConfig.Enabled && config.AIConfig.APIKey != "" {
		narrator = openainarrative.NewNarrator(config.AIConfig.APIKey, config.AIConfig.ModelType)
		log.Debug("init narrator", "model", config.AIConfig.ModelType)
	} else {
		log.Info("narrator disabled, analyses use deterministic summaries")
	}

	var store deal.Store
	if config.Database.ConnStr != "" {
		pgStore, err := dealpostgres.NewStore(config.Database.ConnStr)
		if err != nil {
			log.Error("Error creating deal store", "err", err)
			return
		}
		defer pgStore.Close()
		store = pgStore
		log.Debug("init postgres deal store")
	} else {
		store = dealmemory.NewStore()
		log.Debug("init memory deal store")
	}

	deals := deal.NewService(store, nil)
	analyzer := analysis.NewAnalyzer(provider, candles, narrator, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.SeedDemo {
		if err := deals.SeedDemoDeals(ctx); err != nil {
			log.Error("Error seeding demo deals", "err", err)
		} else {
			log.Debug("seeded demo deals")
		}
	}

	srv := server.New(config.ListenAddr, analyzer, deals, provider, log)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", "err", err)
	}
}
