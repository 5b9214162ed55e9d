package main

import (
	"context"
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

	if err := svc.RefreshOrders(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch orders: %v\n", err)
		os.Exit(1)
	}

	orders := svc.Orders()
	if len(orders) == 0 {
		fmt.Println("No orders found.")
		return
	}

	fmt.Printf("Found %d order(s):\n\n", len(orders))
	for _, order := range orders {
		fmt.Printf("Order %s\n", order.ID)
		fmt.Printf("  Restaurant: %s\n", order.RestaurantName)
		fmt.Printf("  Status: %s\n", order.Status)
		fmt.Printf("  Total: %.2f\n", order.Total)
		if next := domain.NextCanonical(order.Status); next != "" {
			fmt.Printf("  Suggested next: %s\n", next)
		}
		for _, item := range order.Items {
			fmt.Printf("    %dx %s (%s)\n", item.Quantity, item.Title, item.SKU)
		}
		fmt.Println()
	}
}
