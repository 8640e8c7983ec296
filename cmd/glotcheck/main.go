// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/api"
	"github.com/glotcheck/glotcheck/checker"
	"github.com/glotcheck/glotcheck/config"
	"github.com/glotcheck/glotcheck/i18n"
	"github.com/glotcheck/glotcheck/langid"
	"github.com/glotcheck/glotcheck/languagetool"
	"github.com/glotcheck/glotcheck/logger"
	"github.com/glotcheck/glotcheck/metrics"
	"github.com/glotcheck/glotcheck/rules"
	"github.com/glotcheck/glotcheck/spancache"
	"github.com/glotcheck/glotcheck/suggestion"
)

const version = "0.1.0"

var (
	listenAddr      string
	defaultLanguage string
	languageToolURL string
	ltLevel         string
	genProvider     string
	genAPIKey       string
	genAPIURL       string
	genModel        string
	translateURL    string
	cacheTTL        int
	cacheEntries    int
	warmup          bool
	debug           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "glotcheck",
		Short:   "Multi-source grammar and spelling check service",
		Long: `glotcheck aggregates annotations from per-language rule engines, a
general-purpose grammar service, and an optional generative-suggestion
backend into one ranked, deduplicated result.`,
		Version: version,
		RunE:    runServer,
	}

	rootCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8090", "HTTP listen address")
	rootCmd.Flags().StringVar(&defaultLanguage, "default-language", "en-US", "Fallback language when detection is inconclusive")
	rootCmd.Flags().StringVar(&languageToolURL, "languagetool-url", "https://api.languagetool.org", "Grammar service base URL")
	rootCmd.Flags().StringVar(&ltLevel, "languagetool-level", "default", "Grammar service checking level (default or picky)")
	rootCmd.Flags().StringVar(&genProvider, "generative-provider", "", "Generative suggestion provider (openai, openai-compatible, anthropic; empty disables)")
	rootCmd.Flags().StringVar(&genAPIKey, "generative-api-key", "", "Generative provider API key (or GLOTCHECK_GENERATIVE_API_KEY env var)")
	rootCmd.Flags().StringVar(&genAPIURL, "generative-api-url", "", "Generative provider base URL (openai-compatible only)")
	rootCmd.Flags().StringVar(&genModel, "generative-model", "", "Generative provider model name")
	rootCmd.Flags().StringVar(&translateURL, "translate-url", "", "Translation service base URL (empty disables message translation)")
	rootCmd.Flags().IntVar(&cacheTTL, "cache-ttl", 300, "Span cache TTL in seconds")
	rootCmd.Flags().IntVar(&cacheEntries, "cache-max-entries", 1024, "Span cache maximum entries")
	rootCmd.Flags().BoolVar(&warmup, "warmup", false, "Ping the grammar service per supported language at startup")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig() *config.Config {
	cfg := config.Default()
	cfg.ListenAddress = listenAddr
	cfg.DefaultLanguage = defaultLanguage
	cfg.LanguageTool.BaseURL = languageToolURL
	cfg.LanguageTool.Level = ltLevel
	cfg.Generative.Provider = genProvider
	cfg.Generative.APIKey = genAPIKey
	if cfg.Generative.APIKey == "" {
		cfg.Generative.APIKey = os.Getenv("GLOTCHECK_GENERATIVE_API_KEY")
	}
	cfg.Generative.APIURL = genAPIURL
	cfg.Generative.Model = genModel
	cfg.Translation.BaseURL = translateURL
	cfg.Cache.TTLSeconds = cacheTTL
	cfg.Cache.MaxEntries = cacheEntries
	cfg.Debug = debug
	return cfg
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.Debug)

	container := &config.Container{}
	container.Update(cfg)

	m := metrics.NewMetrics(metrics.InstanceInfo{Version: version})

	bundle, err := i18n.NewBundle()
	if err != nil {
		return fmt.Errorf("failed to load message catalogs: %w", err)
	}

	grammarCache := spancache.New[languagetool.CheckResponse](cfg.Cache.MaxEntries, cfg.CacheTTL())
	grammar := languagetool.New(languagetool.Config{
		BaseURL:     cfg.LanguageTool.BaseURL,
		Level:       cfg.LanguageTool.Level,
		EnabledOnly: cfg.LanguageTool.EnabledOnly,
		Timeout:     cfg.LanguageToolTimeout(),
	}, http.DefaultClient, grammarCache, log)

	identifier := langid.New(grammar, cfg.SupportedLanguages, cfg.DefaultLanguage, log)
	registry := rules.NewRegistry()

	var generator checker.SuggestionSource
	var validator checker.SuggestionValidator
	if cfg.GenerativeEnabled() {
		model, err := buildLanguageModel(cfg)
		if err != nil {
			return err
		}
		generator = suggestion.NewGenerator(model, cfg.Generative.MaxTokens, log)
		validator = suggestion.NewValidator(grammar, log)
		log.Info("generative suggestion path enabled", "provider", cfg.Generative.Provider, "model", cfg.Generative.Model)
	}

	resultCache := spancache.New[annotation.CheckResult](cfg.Cache.MaxEntries, cfg.CacheTTL())
	chk := checker.New(identifier, registry, grammar, generator, validator, resultCache, m, log, checker.Options{
		DefaultLanguage:     cfg.DefaultLanguage,
		MismatchConfidence:  cfg.MismatchConfidence,
		GenerativeLanguages: cfg.Generative.Languages,
	})

	var translator i18n.Translator = i18n.NoopTranslator{}
	if cfg.Translation.BaseURL != "" {
		translator = i18n.NewHTTPTranslator(cfg.Translation.BaseURL,
			time.Duration(cfg.Translation.TimeoutSeconds)*time.Second, http.DefaultClient, log)
	}

	a := api.New(chk, identifier, registry, container, bundle, translator, m, log)

	if warmup {
		go grammar.Warmup(context.Background(), cfg.SupportedLanguages)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("glotcheck listening", "address", cfg.ListenAddress, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildLanguageModel(cfg *config.Config) (suggestion.LanguageModel, error) {
	switch cfg.Generative.Provider {
	case "openai":
		return suggestion.NewOpenAI(suggestion.OpenAIConfig{
			APIKey:           cfg.Generative.APIKey,
			DefaultModel:     cfg.Generative.Model,
			OutputTokenLimit: cfg.Generative.MaxTokens,
		}, http.DefaultClient), nil
	case "openai-compatible":
		return suggestion.NewOpenAICompatible(suggestion.OpenAIConfig{
			APIKey:           cfg.Generative.APIKey,
			APIURL:           cfg.Generative.APIURL,
			DefaultModel:     cfg.Generative.Model,
			OutputTokenLimit: cfg.Generative.MaxTokens,
		}, http.DefaultClient), nil
	case "anthropic":
		return suggestion.NewAnthropic(suggestion.AnthropicConfig{
			APIKey:           cfg.Generative.APIKey,
			DefaultModel:     cfg.Generative.Model,
			OutputTokenLimit: cfg.Generative.MaxTokens,
		}, http.DefaultClient), nil
	default:
		return nil, fmt.Errorf("unknown generative provider %q", cfg.Generative.Provider)
	}
}
