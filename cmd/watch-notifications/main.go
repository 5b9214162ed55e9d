package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/client"
	"github.com/aarothfresh/orderflow/internal/config"
	"github.com/aarothfresh/orderflow/internal/gateway"
	"github.com/aarothfresh/orderflow/internal/poller"
	"github.com/aarothfresh/orderflow/internal/service"
	"github.com/aarothfresh/orderflow/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	api := client.NewClient(cfg.API.BaseURL, cfg.API.Key, logger)
	store := view.NewMemoryStore()
	gw := gateway.New(store, logger)
	orders := service.NewFulfillmentService(api, gw, logger)
	svc := service.NewNotificationService(api, store, logger)

	seen := make(map[string]bool)
	notifications := poller.New("notifications", cfg.Polling.NotificationInterval, func(ctx context.Context) {
		if err := svc.Refresh(ctx); err != nil {
			return
		}
		for _, n := range svc.Notifications() {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			fmt.Printf("[%s] %s\n", n.CreatedAt.Format("15:04:05"), n.Message)
		}
		fmt.Printf("  (%d unread)\n", svc.UnreadCount())
	}, logger)

	workflows := poller.New("workflow", cfg.Polling.WorkflowInterval, func(ctx context.Context) {
		_ = orders.RefreshAll(ctx)
	}, logger)

	ctx := context.Background()
	notifications.Start(ctx)
	defer notifications.Stop()
	workflows.Start(ctx)
	defer workflows.Stop()

	fmt.Printf("Watching notifications every %s, workflows every %s, Ctrl-C to stop\n",
		cfg.Polling.NotificationInterval, cfg.Polling.WorkflowInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
