package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/walletchat/internal/auth"
	"github.com/example/walletchat/internal/cache"
	"github.com/example/walletchat/internal/config"
	"github.com/example/walletchat/internal/handlers"
	"github.com/example/walletchat/internal/history"
	apihttp "github.com/example/walletchat/internal/http"
	"github.com/example/walletchat/internal/intent"
	"github.com/example/walletchat/internal/rate"
	"github.com/example/walletchat/internal/wallet"
)

func main() {
	cfg := config.Load()
	if cfg.SolanaRPCURL == "" {
		log.Println("warning: SOLANA_RPC_URL is empty; the last-resort ledger adapter will fail on first call")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	sessions, err := auth.NewMongoSessionStore(ctx, mongoClient, cfg.MongoDB, cfg.SessionCacheTTL)
	if err != nil {
		log.Fatalf("session store init error: %v", err)
	}
	chats, err := history.NewMongoStore(ctx, mongoClient, cfg.MongoDB)
	if err != nil {
		log.Fatalf("history store init error: %v", err)
	}

	// provider adapters; the SDK and HTTP clients are built here and
	// injected, never constructed at package load
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}
	var helius, shyft wallet.Provider
	if cfg.HeliusAPIKey != "" {
		helius = wallet.NewHelius(cfg.HeliusAPIURL, cfg.HeliusAPIKey, httpClient)
	} else {
		log.Println("warning: HELIUS_API_KEY is empty; helius adapter disabled")
	}
	if cfg.ShyftAPIKey != "" {
		shyft = wallet.NewShyft(cfg.ShyftAPIURL, cfg.ShyftAPIKey, cfg.Network, httpClient)
	} else {
		log.Println("warning: SHYFT_API_KEY is empty; shyft adapter disabled")
	}
	node := wallet.NewRPCNode(rpc.New(cfg.SolanaRPCURL), cfg.SolCommitment, cache.New(cfg.TxDetailCacheTTL))

	balanceChain, txChain := orderProviders(helius, shyft, node)
	resolver := wallet.NewResolver(
		wallet.NewThrottle(cfg.QueryMinInterval),
		balanceChain, txChain,
		cfg.ProviderTimeout, cfg.TxLimitMax,
	)

	classifier := intent.NewHTTPClassifier(cfg.IntentAPIURL, cfg.IntentAPIKey, cfg.IntentModel, nil)
	dispatcher := intent.NewDispatcher(resolver)

	ch := handlers.NewChatHandler(handlers.ChatDeps{
		Classifier: classifier,
		Dispatcher: dispatcher,
		History:    chats,
	})
	wh := handlers.NewWalletHandler(resolver)
	hh := handlers.NewHistoryHandler(chats)

	lm := rate.NewIPLimiter(cfg.RateLimitRPM, 5*time.Minute)
	defer lm.Stop()

	router := apihttp.NewRouter(ch, wh, hh, lm, sessions)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("shutting down...")
	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
}
