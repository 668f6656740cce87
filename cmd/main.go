package main

import (
	"context"
	"log/slog"
	"memosbridge/internal/bridge"
	"memosbridge/internal/config"
	"memosbridge/internal/dialect"
	"memosbridge/internal/logger"
	"memosbridge/internal/memo"
	"memosbridge/internal/redirect"
	"memosbridge/internal/server"
	"memosbridge/internal/upstream"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	jsoniter "github.com/json-iterator/go"
)

type cli struct {
	Serve serveCmd `cmd:"" default:"1" help:"Serve the Memos API for a Mastodon-compatible account."`
	Dump  dumpCmd  `cmd:""             help:"Print the translated memos as JSON and exit."`
}

type app struct {
	cfg      config.Config
	svc      *bridge.Service
	resolver *redirect.Resolver
	log      *slog.Logger
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("memosbridge"),
		kong.Description("Serves Mastodon, GoToSocial or Pleroma statuses as Memos API memos."),
		kong.UsageOnError(),
	)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("Failed to load config",
			"error", err)

		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err = kctx.Run(newApp(cfg, log)); err != nil {
		log.Error("Command failed",
			"error", err,
			"command", kctx.Command())

		os.Exit(1)
	}
}

func newApp(cfg config.Config, log *slog.Logger) *app {
	d := dialect.For(cfg.InstanceType)
	client := upstream.NewClient(cfg.BaseURL, cfg.AccessToken, cfg.HTTPTimeout, log)
	translator := memo.NewTranslator(memo.ContentFormat(cfg.ContentFormat), log)
	svc := bridge.New(client, d, translator, cfg.AccountID, cfg.Username, log)

	return &app{
		cfg:      cfg,
		svc:      svc,
		resolver: redirect.NewResolver(cfg.BaseURL, cfg.RSSUsername, d, svc),
		log:      log,
	}
}

type serveCmd struct{}

func (serveCmd) Run(a *app) error {
	start := time.Now()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if a.cfg.InstanceType != a.svc.Dialect().Name() {
		a.log.WarnContext(ctx, "Unknown instance type so mastodon dialect will be used",
			"instanceType", a.cfg.InstanceType)
	}

	a.log.InfoContext(ctx, "Server is starting",
		"listenAddr", a.cfg.ListenAddr,
		"baseURL", a.cfg.BaseURL,
		"accountID", a.cfg.AccountID,
		"dialect", a.svc.Dialect().Name(),
		"contentFormat", a.cfg.ContentFormat)

	srv := server.New(a.svc, a.resolver, a.log)
	if err := srv.ListenAndServe(ctx, a.cfg.ListenAddr); err != nil {
		return err
	}

	a.log.InfoContext(ctx, "Server is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}

type dumpCmd struct {
	Limit int `default:"20" help:"Number of statuses to fetch."`
}

func (d dumpCmd) Run(a *app) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
	defer cancel()

	memos, err := a.svc.ListMemos(ctx, memo.Filter{Limit: d.Limit})
	if err != nil {
		return err
	}

	enc := jsoniter.Config{EscapeHTML: false}.Froze().NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(memos)
}
