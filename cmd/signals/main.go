package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/shop-signals/config"
	"github.com/aluiziolira/shop-signals/events"
	"github.com/aluiziolira/shop-signals/metrics"
	"github.com/aluiziolira/shop-signals/product"
	"github.com/aluiziolira/shop-signals/reminder"
	"github.com/aluiziolira/shop-signals/storefront"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	baseURLDefault := defaultCfg.BaseURL
	if value, ok := config.EnvString("SIGNALS_BASE_URL"); ok {
		baseURLDefault = value
	}
	intervalDefault := int(defaultCfg.Interval / time.Millisecond)
	if value, ok, err := config.EnvInt("SIGNALS_INTERVAL_MS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SIGNALS_INTERVAL_MS: %v\n", err)
		os.Exit(1)
	} else if ok {
		intervalDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SIGNALS_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	localeDefault := localeFromEnv()
	if value, ok := config.EnvString("SIGNALS_LOCALE"); ok {
		localeDefault = value
	}
	disableReminderDefault := false
	if value, ok, err := config.EnvBool("SIGNALS_DISABLE_CART_REMINDER"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SIGNALS_DISABLE_CART_REMINDER: %v\n", err)
		os.Exit(1)
	} else if ok {
		disableReminderDefault = value
	}

	baseURL := flag.String("base-url", baseURLDefault, "Storefront origin (https://<host>)")
	intervalMs := flag.Int("interval", intervalDefault, "Cart polling interval (milliseconds)")
	strategy := flag.String("strategy", defaultCfg.Reminder.Strategy, "Reminder product selection: latest, most-expensive, or least-expensive")
	destination := flag.String("destination", defaultCfg.Reminder.Destination, "Reminder click destination: product, cart, homepage, or checkout")
	message := flag.String("message", "", "Reminder message (empty uses the localized default)")
	discountCode := flag.String("discount-code", "", "Discount code applied to the reminder URL")
	utmSource := flag.String("utm-source", "", "utm_source attribution value")
	utmMedium := flag.String("utm-medium", "", "utm_medium attribution value")
	utmCampaign := flag.String("utm-campaign", "", "utm_campaign attribution value")
	utmContent := flag.String("utm-content", "", "utm_content mode: product-name or unset")
	disableImage := flag.Bool("disable-image", false, "Omit the product image from the reminder")
	disableReminder := flag.Bool("disable-cart-reminder", disableReminderDefault, "Never start the cart reminder poller")
	assumeSubscribed := flag.Bool("assume-subscribed", false, "Treat the visitor as subscribed (full polling cadence)")
	pageURL := flag.String("page-url", "", "Product page URL for a one-shot exit-intent probe")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	locale := flag.String("locale", localeDefault, "Locale for the default reminder message")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.Interval = time.Duration(*intervalMs) * time.Millisecond
	cfg.MetricsAddr = *metricsAddr
	cfg.Locale = *locale
	cfg.Verbose = *verbose
	cfg.Reminder = config.ReminderConfig{
		Disabled:     *disableReminder,
		Strategy:     *strategy,
		Destination:  *destination,
		Message:      *message,
		DisableImage: *disableImage,
		DiscountCode: *discountCode,
		UTMSource:    *utmSource,
		UTMMedium:    *utmMedium,
		UTMCampaign:  *utmCampaign,
		UTMContent:   *utmContent,
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	m := metrics.NewMetrics()

	client, err := storefront.NewClient(cfg.BaseURL, nil, cfg.Timeout, m)
	if err != nil {
		slog.Error("initialising storefront client", slog.Any("error", err))
		os.Exit(1)
	}

	sink := events.NewLogSink(logger)
	translate := reminder.NewTranslator(cfg.Locale)

	var isSubscribed reminder.SubscriptionFunc
	if *assumeSubscribed {
		isSubscribed = func(context.Context) (bool, error) { return true, nil }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	poller := reminder.NewPoller(cfg.Reminder, cfg.BaseURL, client, isSubscribed, sink, translate, cfg.Interval, m)
	if !cfg.Reminder.Disabled {
		slog.Info("starting cart reminder poller",
			slog.String("base_url", cfg.BaseURL),
			slog.Duration("interval", cfg.Interval),
		)
		poller.Start()
		defer poller.Stop()
	}

	if *pageURL != "" {
		if err := runExitProbe(ctx, *pageURL, cfg, client, sink, m); err != nil {
			slog.Error("exit-intent probe failed", slog.Any("error", err))
		}
	}

	<-ctx.Done()
	slog.Info("shutdown signal received")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}
}

// runExitProbe simulates a single viewport exit on the given page and runs
// the full extraction and gating pipeline once.
func runExitProbe(ctx context.Context, pageURL string, cfg *config.Config, client *storefront.Client, sink events.Sink, m *metrics.Metrics) error {
	page, err := product.NewCollyPage(pageURL, cfg.UserAgent, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("build page source: %w", err)
	}
	memory, err := events.NewMemory()
	if err != nil {
		return fmt.Errorf("build event memory: %w", err)
	}

	normalizer := product.NewNormalizer(page, client)
	gate := events.NewGate(memory, sink, m)

	signals := make(chan events.PointerLeave, 1)
	signals <- events.PointerLeave{}
	close(signals)

	events.NewDetector(normalizer, gate, pageURL, signals).Run(ctx)
	return nil
}

func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		if dot := strings.IndexByte(value, '.'); dot >= 0 {
			value = value[:dot]
		}
		return strings.ReplaceAll(value, "_", "-")
	}
	return ""
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
