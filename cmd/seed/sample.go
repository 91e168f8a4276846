package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/nhiennh/supply-chain-analytics/pkg/logger"
	"github.com/urfave/cli/v2"
)

var sampleCategories = []string{
	"toys", "electronics", "furniture", "fashion", "sports",
	"books", "beauty", "garden", "automotive", "grocery",
}

func sampleCommand() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "generate a deterministic sample dataset in the upload directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Usage:   "output directory for the generated CSVs",
				Value:   "./data/uploads",
				EnvVars: []string{"APP_UPLOAD_DIR"},
			},
			&cli.IntFlag{
				Name:  "months",
				Usage: "number of months of order history",
				Value: 24,
			},
			&cli.IntFlag{
				Name:  "orders-per-month",
				Usage: "approximate orders generated per month",
				Value: 400,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed",
				Value: 42,
			},
		},
		Action: generateSample,
	}
}

// generateSample writes the four source CSVs with a seeded generator, so
// repeated runs produce identical data.
func generateSample(c *cli.Context) error {
	out := c.String("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rng := rand.New(rand.NewSource(c.Int64("seed")))
	months := c.Int("months")
	perMonth := c.Int("orders-per-month")

	customers := [][]string{{"customer_id", "customer_zip_code_prefix", "customer_city", "customer_state"}}
	orders := [][]string{{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_estimated_delivery_date", "order_delivered_timestamp"}}
	items := [][]string{{"order_id", "product_id", "seller_id", "price", "shipping_charges"}}
	products := [][]string{{"product_id", "product_category_name"}}

	productIDs := make([]string, 0, len(sampleCategories)*8)
	for ci, category := range sampleCategories {
		for p := 0; p < 8; p++ {
			id := fmt.Sprintf("prod-%02d-%02d", ci, p)
			productIDs = append(productIDs, id)
			products = append(products, []string{id, category})
		}
	}

	sellerIDs := make([]string, 30)
	for i := range sellerIDs {
		sellerIDs[i] = fmt.Sprintf("seller-%02d", i)
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	orderSeq := 0
	for m := 0; m < months; m++ {
		monthStart := start.AddDate(0, m, 0)
		// Mild seasonality plus noise keeps the series realistic.
		count := perMonth + int(float64(perMonth)*0.25*seasonal(m)) + rng.Intn(perMonth/5)

		for i := 0; i < count; i++ {
			orderSeq++
			orderID := fmt.Sprintf("order-%06d", orderSeq)
			customerID := fmt.Sprintf("customer-%05d", rng.Intn(5000))
			purchase := monthStart.Add(time.Duration(rng.Intn(28*24)) * time.Hour)
			estimated := purchase.AddDate(0, 0, 10+rng.Intn(15))

			delivered := ""
			shippingDays := 5 + rng.Intn(25)
			if rng.Float64() > 0.04 {
				delivered = purchase.AddDate(0, 0, shippingDays).Format("2006-01-02 15:04:05")
			}

			customers = append(customers, []string{customerID, fmt.Sprintf("%05d", rng.Intn(99999)), "hanoi", "HN"})
			orders = append(orders, []string{
				orderID, customerID, "delivered",
				purchase.Format("2006-01-02 15:04:05"),
				estimated.Format("2006-01-02 15:04:05"),
				delivered,
			})
			items = append(items, []string{
				orderID,
				productIDs[rng.Intn(len(productIDs))],
				sellerIDs[rng.Intn(len(sellerIDs))],
				fmt.Sprintf("%.2f", 20+rng.Float64()*480),
				fmt.Sprintf("%.2f", 5+rng.Float64()*45),
			})
		}
	}

	files := map[string][][]string{
		"df_Customers.csv":  customers,
		"df_Orders.csv":     orders,
		"df_OrderItems.csv": items,
		"df_Products.csv":   products,
	}
	for name, rows := range files {
		if err := writeCSV(filepath.Join(out, name), rows); err != nil {
			return err
		}
	}

	logger.Log.Info().
		Str("dir", out).
		Int("orders", orderSeq).
		Int("months", months).
		Msg("sample dataset generated")
	return nil
}

func seasonal(month int) float64 {
	// Peaks around the end of the year.
	switch month % 12 {
	case 10, 11:
		return 1
	case 0, 5:
		return 0.5
	default:
		return 0
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
