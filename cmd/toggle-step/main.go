package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/client"
	"github.com/aarothfresh/orderflow/internal/config"
	"github.com/aarothfresh/orderflow/internal/gateway"
	"github.com/aarothfresh/orderflow/internal/service"
	"github.com/aarothfresh/orderflow/internal/view"
)

func main() {
	orderID := flag.String("order", "", "order id")
	stepID := flag.String("step", "", "checklist step id")
	undo := flag.Bool("undo", false, "mark the step incomplete instead")
	notes := flag.String("notes", "", "step notes")
	flag.Parse()

	if *orderID == "" || *stepID == "" {
		fmt.Fprintln(os.Stderr, "Usage: toggle-step -order <id> -step <step_id> [-undo] [-notes ...]")
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
	if err := svc.RefreshWorkflow(ctx, *orderID); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch workflow: %v\n", err)
		os.Exit(1)
	}

	signal, outcome, err := svc.ToggleStep(ctx, *orderID, *stepID, !*undo, *notes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rejected locally: %v\n", err)
		os.Exit(1)
	}
	if !outcome.Committed {
		fmt.Fprintf(os.Stderr, "Rolled back: %v\n", outcome.Err)
		os.Exit(1)
	}

	fmt.Printf("Step %s updated on order %s\n", *stepID, *orderID)
	if signal.Available {
		fmt.Printf("All required steps done - order can advance to %q\n", signal.Next)
	}
}
