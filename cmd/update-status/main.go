package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/client"
	"github.com/aarothfresh/orderflow/internal/config"
	"github.com/aarothfresh/orderflow/internal/domain"
	"github.com/aarothfresh/orderflow/internal/gateway"
	"github.com/aarothfresh/orderflow/internal/service"
	"github.com/aarothfresh/orderflow/internal/view"
)

func main() {
	orderID := flag.String("order", "", "order id")
	target := flag.String("status", "", "target status")
	notes := flag.String("notes", "", "notes (required when cancelling)")
	estimatedTime := flag.String("eta", "", "estimated time (required when confirming)")
	flag.Parse()

	if *orderID == "" || *target == "" {
		fmt.Fprintln(os.Stderr, "Usage: update-status -order <id> -status <status> [-notes ...] [-eta ...]")
		os.Exit(1)
	}

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
	svc := service.NewFulfillmentService(api, gw, logger)

	ctx := context.Background()
	if err := svc.RefreshOrders(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch orders: %v\n", err)
		os.Exit(1)
	}

	req := service.TransitionRequest{
		Target:    domain.Status(*target),
		Notes:     *notes,
		UpdatedBy: "cli",
	}
	if *estimatedTime != "" {
		req.EstimatedTime = estimatedTime
	}

	outcome, err := svc.UpdateStatus(ctx, *orderID, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rejected locally: %v\n", err)
		os.Exit(1)
	}
	if !outcome.Committed {
		fmt.Fprintf(os.Stderr, "Rolled back: %v\n", outcome.Err)
		os.Exit(1)
	}

	order, _ := svc.Order(*orderID)
	fmt.Printf("Order %s is now %s\n", order.ID, order.Status)
}
