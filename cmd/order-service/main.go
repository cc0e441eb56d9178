package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safar/go-shop-services/internal/config"
	"github.com/safar/go-shop-services/internal/database"
	"github.com/safar/go-shop-services/internal/httpx"
	"github.com/safar/go-shop-services/internal/metrics"
	"github.com/safar/go-shop-services/internal/orders"
	"github.com/safar/go-shop-services/internal/productclient"
	"github.com/safar/go-shop-services/internal/store"
)

func main() {
	cfg, err := config.Load(config.OrderServiceDefaults())
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database successfully")

	repo := &store.OrderRepo{DB: db}
	service := &orders.Service{
		Store:    repo,
		Products: productclient.New(cfg.ProductAPI.BaseURL),
	}

	m := metrics.NewServerMetrics("order_service")
	router := httpx.NewRouter(m)

	handler := &httpx.OrdersHandler{Store: repo, Service: service}
	handler.Register(router)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Order service starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
