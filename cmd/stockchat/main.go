// Package main is the interactive terminal client for the stock chat
// backend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finsight-ai/stockchat-client/internal/api"
	"github.com/finsight-ai/stockchat-client/internal/auth"
	"github.com/finsight-ai/stockchat-client/internal/chat"
	"github.com/finsight-ai/stockchat-client/internal/config"
	"github.com/finsight-ai/stockchat-client/internal/handler"
	"github.com/finsight-ai/stockchat-client/internal/transport"
	"github.com/finsight-ai/stockchat-client/pkg/logger"
	"github.com/finsight-ai/stockchat-client/pkg/tracing"
)

func main() {
	email := flag.String("email", "", "login email (used when STOCKCHAT_TOKEN is unset)")
	password := flag.String("password", "", "login password")
	chatID := flag.String("chat", "", "chat ID to join; defaults to the most recent chat")
	title := flag.String("title", "Portfolio chat", "title for a new chat when none exists")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting stockchat client")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "stockchat-client", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	tokens := auth.NewTokenStore(cfg.AccessToken)
	apiClient := api.NewClient(cfg.APIBaseURL, tokens, log)

	if tokens.Token() == "" {
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "no token configured; pass -email and -password to log in")
			os.Exit(1)
		}
		if err := apiClient.Login(ctx, *email, *password); err != nil {
			log.Error("login failed", zap.Error(err))
			os.Exit(1)
		}
	}

	target, err := resolveChat(ctx, apiClient, *chatID, *title)
	if err != nil {
		log.Error("failed to resolve chat", zap.Error(err))
		os.Exit(1)
	}
	log.Info("using chat", zap.String("chat_id", target.ID), zap.String("title", target.Title))

	render := newRenderer(os.Stdout)
	dialer := transport.NewDialer(cfg.WebSocketURL, cfg.DialTimeout, log)

	var client *chat.Client
	client = chat.NewClient(dialer, tokens, log,
		chat.WithKeepAliveInterval(cfg.KeepAliveInterval),
		chat.WithOnChange(func() { render.update(client.Messages()) }),
	)

	if err := client.Connect(ctx); err != nil {
		log.Error("connect failed", zap.Error(err))
		os.Exit(1)
	}
	defer client.Disconnect()

	var debugServer *http.Server
	if cfg.DebugServerEnabled {
		debugServer = startDebugServer(cfg, client, log)
		defer shutdownDebugServer(debugServer, log)
	}

	go readInput(client, target.ID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
}

func resolveChat(ctx context.Context, apiClient *api.Client, chatID, title string) (*chatTarget, error) {
	if chatID != "" {
		return &chatTarget{ID: chatID}, nil
	}

	chats, err := apiClient.ListChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	if len(chats) > 0 {
		return &chatTarget{ID: chats[0].ID, Title: chats[0].Title}, nil
	}

	created, err := apiClient.CreateChat(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	return &chatTarget{ID: created.ID, Title: created.Title}, nil
}

type chatTarget struct {
	ID    string
	Title string
}

func readInput(client *chat.Client, chatID string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")

	for scanner.Scan() {
		line := scanner.Text()
		if line == "/quit" {
			// Let the signal handler path do the teardown.
			_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
			return
		}
		if !client.SendMessage(chatID, line) {
			fmt.Println("(send ignored: not connected, mid-turn, or empty)")
			fmt.Print("> ")
		}
	}
}

func startDebugServer(cfg *config.Config, client *chat.Client, log *logger.Logger) *http.Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(httprate.LimitByIP(cfg.DebugRateLimit, cfg.DebugRateWindow))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://*", "https://*"},
		AllowedMethods: []string{"GET"},
		MaxAge:         300,
	}))

	healthHandler := handler.NewHealthHandler(client)
	r.Get("/healthz", healthHandler.Health)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.DebugAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("debug server listening", zap.String("addr", cfg.DebugAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("debug server error", zap.Error(err))
		}
	}()

	return srv
}

func shutdownDebugServer(srv *http.Server, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("debug server shutdown", zap.Error(err))
	}
}
