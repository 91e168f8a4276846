package dataset

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/currency"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
)

// Source file names expected in the upload directory.
const (
	CustomersFile  = "df_Customers.csv"
	OrdersFile     = "df_Orders.csv"
	OrderItemsFile = "df_OrderItems.csv"
	ProductsFile   = "df_Products.csv"
)

var sourceFiles = []string{CustomersFile, OrdersFile, OrderItemsFile, ProductsFile}

// Loader reads the uploaded CSV files and produces the unified record set.
// The engine used for a given load is chosen by a size policy: datasets
// beyond the configured byte threshold go through the low-memory chunked
// engine, everything else through the standard in-memory one.
type Loader struct {
	uploadDir      string
	converter      *currency.Converter
	largeThreshold int64
}

func NewLoader(uploadDir string, converter *currency.Converter, largeThresholdBytes int64) *Loader {
	return &Loader{
		uploadDir:      uploadDir,
		converter:      converter,
		largeThreshold: largeThresholdBytes,
	}
}

// Load builds the unified dataset from the upload directory.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	engine := l.selectEngine()
	log.Debug().Str("engine", engine.Name()).Msg("loading dataset")

	ds, err := engine.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// selectEngine applies the data-size policy: total source bytes above the
// threshold select the chunked engine.
func (l *Loader) selectEngine() Engine {
	if l.largeThreshold > 0 && l.totalSourceBytes() > l.largeThreshold {
		return newChunkedEngine(l.uploadDir, l.converter)
	}
	return newStandardEngine(l.uploadDir, l.converter)
}

func (l *Loader) totalSourceBytes() int64 {
	var total int64
	for _, name := range sourceFiles {
		info, err := os.Stat(filepath.Join(l.uploadDir, name))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// orderInfo is the per-order slice of the join, keyed by order_id.
type orderInfo struct {
	customerID string
	purchase   time.Time
	delivered  *time.Time
	estimated  *time.Time
}

// buildRecord derives the per-record fields from one joined row.
func buildRecord(itemOrderID, productID, sellerID string, priceVND, freightVND float64, order orderInfo, category string) domain.OrderRecord {
	rec := domain.OrderRecord{
		OrderID:            itemOrderID,
		CustomerID:         order.customerID,
		ProductID:          productID,
		SellerID:           sellerID,
		Category:           category,
		PurchaseTimestamp:  order.purchase,
		EstimatedDelivery:  order.estimated,
		DeliveredTimestamp: order.delivered,
		PriceVND:           priceVND,
		FreightVND:         freightVND,
		OrderMonth:         MonthStart(order.purchase),
	}

	if order.delivered != nil {
		duration := order.delivered.Sub(order.purchase).Hours() / 24
		rec.ShippingDuration = &duration
		if order.estimated != nil {
			delay := order.delivered.Sub(*order.estimated).Hours() / 24
			rec.DeliveryDelay = &delay
		}
	}
	return rec
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp tries the known layouts; it returns the zero time when
// the value is empty or unparseable. Rows with unparseable critical
// timestamps are excluded from duration/delay calculations, never treated
// as zero durations.
func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func optionalTimestamp(value string) *time.Time {
	if t, ok := parseTimestamp(value); ok {
		return &t
	}
	return nil
}
