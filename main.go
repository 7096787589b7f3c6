package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"content_repurposer/chat"
	"content_repurposer/config"
	"content_repurposer/extractor"
	"content_repurposer/generator"
	"content_repurposer/logger"
	"content_repurposer/metrics"
	"content_repurposer/pipeline"
	"content_repurposer/publisher"
	"content_repurposer/reader"
	"content_repurposer/server"
)

const shutdownTimeout = 15 * time.Second

type flags struct {
	configPath string
	serve      bool
	addr       string
	verbose    bool
	text       string
	file       string
	url        string
	ask        string
	export     string
}

func main() {
	if err := runMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMain() error {
	var f flags
	flag.StringVar(&f.configPath, "config", config.DefaultPath, "path to config.json")
	flag.BoolVar(&f.serve, "serve", false, "start web server")
	flag.StringVar(&f.addr, "addr", "", "http listen address when --serve (overrides config.server_addr)")
	flag.BoolVar(&f.verbose, "v", false, "enable debug logs")
	flag.StringVar(&f.text, "text", "", "source text to repurpose")
	flag.StringVar(&f.file, "file", "", "path to a PDF or DOCX to repurpose")
	flag.StringVar(&f.url, "url", "", "web page to repurpose")
	flag.StringVar(&f.ask, "ask", "", "ask a question about the source instead of generating")
	flag.StringVar(&f.export, "export", "", "also write an HTML preview of the bundle to this path")
	flag.Parse()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(logger.NewHandler(os.Stderr, &logger.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    color.NoColor,
	}))
	slog.SetDefault(log)

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.ServerAddr = f.addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	p, hasGen, err := buildPipeline(cfg, m, log)
	if err != nil {
		return err
	}

	if f.serve {
		srv, err := server.New(p, server.Options{
			MaxUploadBytes: cfg.MaxUploadBytes,
			Metrics:        m,
			Publisher:      publisher.New(log),
			Logger:         log,
			HasGenerator:   hasGen,
		})
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx, cfg.ServerAddr, shutdownTimeout)
	}

	src, err := f.source()
	if err != nil {
		return err
	}
	if f.ask != "" {
		return runAsk(ctx, p, src, f.ask)
	}
	return runOnce(ctx, p, src, f.export, log)
}

func (f flags) source() (pipeline.SourceInput, error) {
	n := 0
	for _, v := range []string{f.text, f.file, f.url} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return pipeline.SourceInput{}, errors.New("exactly one of --text, --file or --url is required (or --serve)")
	}
	switch {
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return pipeline.SourceInput{}, err
		}
		return pipeline.FileSource(data, extractor.ResolveMimeType("", f.file)), nil
	case f.url != "":
		return pipeline.URLSource(f.url), nil
	default:
		return pipeline.TextSource(f.text), nil
	}
}

func runOnce(ctx context.Context, p *pipeline.Pipeline, src pipeline.SourceInput, exportPath string, log *slog.Logger) error {
	res, err := p.Repurpose(ctx, src)
	if err != nil {
		return err
	}
	if exportPath != "" {
		page, err := publisher.New(log).Render(res.Bundle)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportPath, []byte(page), 0o644); err != nil {
			return err
		}
		log.Info("preview written", "path", exportPath)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Bundle)
}

func runAsk(ctx context.Context, p *pipeline.Pipeline, src pipeline.SourceInput, question string) error {
	sess := pipeline.NewSession("cli")
	if _, err := sess.Load(ctx, p, src); err != nil {
		return err
	}
	reply, err := sess.Ask(ctx, p, question)
	if err != nil {
		return err
	}
	fmt.Println(reply.Content)
	return nil
}

func buildPipeline(cfg config.Config, m *metrics.Metrics, log *slog.Logger) (*pipeline.Pipeline, bool, error) {
	ext := extractor.New(extractor.Config{
		MaxFileSize: cfg.MaxUploadBytes,
		Logger:      log,
	})
	rd, err := reader.New(reader.Config{
		Provider: cfg.Reader.Provider,
		BaseURL:  cfg.Reader.BaseURL,
		APIKey:   cfg.Reader.APIKey,
		Timeout:  cfg.Reader.Timeout.Std(),
		Logger:   log,
	})
	if err != nil {
		return nil, false, err
	}

	var gen pipeline.Generator
	llm, err := buildLLM(cfg)
	switch {
	case errors.Is(err, generator.ErrProviderNotConfigured):
		log.Warn("no LLM API key configured; generation requests will fail")
	case err != nil:
		return nil, false, err
	default:
		g, err := generator.NewGenerator(llm,
			generator.WithCallTimeout(cfg.LLM.Timeout.Std()),
			generator.WithMetrics(m),
			generator.WithLogger(log),
		)
		if err != nil {
			return nil, false, err
		}
		gen = g
	}

	responder := chat.NewResponder(chat.WithDelay(cfg.Chat.Delay.Std()), chat.WithLogger(log))
	p := pipeline.New(ext, rd, gen, responder, pipeline.WithMetrics(m), pipeline.WithLogger(log))
	return p, gen != nil, nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai", "deepseek":
		// deepseek is OpenAI-compatible; config validation requires its base_url.
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
			Timeout:  cfg.LLM.Timeout.Std(),
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
