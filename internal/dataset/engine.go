package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nhiennh/supply-chain-analytics/internal/currency"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
)

// Engine is the loading strategy. The standard engine materializes every
// source table before joining; the chunked engine indexes the dimension
// tables and streams the order items, which keeps peak memory at roughly
// one row of the largest file. Both yield the same Dataset.
type Engine interface {
	Name() string
	Load(ctx context.Context) (*Dataset, error)
}

type standardEngine struct {
	dir       string
	converter *currency.Converter
}

func newStandardEngine(dir string, converter *currency.Converter) *standardEngine {
	return &standardEngine{dir: dir, converter: converter}
}

func (e *standardEngine) Name() string { return "standard" }

func (e *standardEngine) Load(ctx context.Context) (*Dataset, error) {
	orders, err := loadOrders(e.dir)
	if err != nil {
		return nil, err
	}
	categories, err := loadProducts(e.dir)
	if err != nil {
		return nil, err
	}
	if _, err := loadCustomers(e.dir); err != nil {
		return nil, err
	}

	table, err := readTable(filepath.Join(e.dir, OrderItemsFile))
	if err != nil {
		return nil, err
	}
	cols, err := orderItemColumns(table.header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.OrderRecord, 0, len(table.rows))
	for _, row := range table.rows {
		rec, ok := joinItemRow(row, cols, orders, categories, e.converter)
		if ok {
			records = append(records, rec)
		}
	}
	return &Dataset{Records: records}, nil
}

type chunkedEngine struct {
	dir       string
	converter *currency.Converter
}

func newChunkedEngine(dir string, converter *currency.Converter) *chunkedEngine {
	return &chunkedEngine{dir: dir, converter: converter}
}

func (e *chunkedEngine) Name() string { return "chunked" }

func (e *chunkedEngine) Load(ctx context.Context) (*Dataset, error) {
	orders, err := loadOrders(e.dir)
	if err != nil {
		return nil, err
	}
	categories, err := loadProducts(e.dir)
	if err != nil {
		return nil, err
	}
	if _, err := loadCustomers(e.dir); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(e.dir, OrderItemsFile))
	if err != nil {
		return nil, domain.NewDataError("missing required file %s", OrderItemsFile)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewDataError("cannot read header of %s: %v", OrderItemsFile, err)
	}
	cols, err := orderItemColumns(append([]string(nil), header...))
	if err != nil {
		return nil, err
	}

	var records []domain.OrderRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Str("file", OrderItemsFile).Msg("skipping malformed row")
			continue
		}
		rec, ok := joinItemRow(row, cols, orders, categories, e.converter)
		if ok {
			records = append(records, rec)
		}
	}
	return &Dataset{Records: records}, nil
}

// itemColumns holds the resolved column indexes of the order items file.
type itemColumns struct {
	orderID   int
	productID int
	sellerID  int
	price     int
	freight   int
}

func orderItemColumns(header []string) (itemColumns, error) {
	idx := headerIndex(header)
	cols := itemColumns{orderID: -1, productID: -1, sellerID: -1, price: -1, freight: -1}

	var ok bool
	if cols.orderID, ok = idx["order_id"]; !ok {
		return cols, domain.NewDataError("%s: missing required column order_id", OrderItemsFile)
	}
	if cols.productID, ok = idx["product_id"]; !ok {
		return cols, domain.NewDataError("%s: missing required column product_id", OrderItemsFile)
	}
	if cols.sellerID, ok = idx["seller_id"]; !ok {
		return cols, domain.NewDataError("%s: missing required column seller_id", OrderItemsFile)
	}
	if cols.price, ok = idx["price"]; !ok {
		return cols, domain.NewDataError("%s: missing required column price", OrderItemsFile)
	}
	// The public dataset ships either name for the freight column.
	if i, ok := idx["shipping_charges"]; ok {
		cols.freight = i
	} else if i, ok := idx["freight_value"]; ok {
		cols.freight = i
	} else {
		return cols, domain.NewDataError("%s: missing freight_value/shipping_charges column", OrderItemsFile)
	}
	return cols, nil
}

// joinItemRow performs the inner join on orders and the left join on
// products for one order item row. The customers table is validated at
// load time but contributes no retained columns; its join is a left join,
// so unknown customers never drop a record.
func joinItemRow(row []string, cols itemColumns, orders map[string]orderInfo, categories map[string]string, conv *currency.Converter) (domain.OrderRecord, bool) {
	orderID := at(row, cols.orderID)
	order, ok := orders[orderID]
	if !ok {
		// Inner join: items without a parsable parent order are dropped.
		return domain.OrderRecord{}, false
	}

	price := parseFloat(at(row, cols.price))
	freight := parseFloat(at(row, cols.freight))

	productID := at(row, cols.productID)
	rec := buildRecord(
		orderID,
		productID,
		at(row, cols.sellerID),
		conv.ToVND(price),
		conv.ToVND(freight),
		order,
		categories[productID],
	)
	return rec, true
}

func loadOrders(dir string) (map[string]orderInfo, error) {
	table, err := readTable(filepath.Join(dir, OrdersFile))
	if err != nil {
		return nil, err
	}
	idx := headerIndex(table.header)
	for _, col := range []string{"order_id", "customer_id", "order_purchase_timestamp", "order_delivered_timestamp", "order_estimated_delivery_date"} {
		if _, ok := idx[col]; !ok {
			return nil, domain.NewDataError("%s: missing required column %s", OrdersFile, col)
		}
	}

	orders := make(map[string]orderInfo, len(table.rows))
	skipped := 0
	for _, row := range table.rows {
		purchase, ok := parseTimestamp(at(row, idx["order_purchase_timestamp"]))
		if !ok {
			skipped++
			continue
		}
		orders[at(row, idx["order_id"])] = orderInfo{
			customerID: at(row, idx["customer_id"]),
			purchase:   purchase,
			delivered:  optionalTimestamp(at(row, idx["order_delivered_timestamp"])),
			estimated:  optionalTimestamp(at(row, idx["order_estimated_delivery_date"])),
		}
	}
	if skipped > 0 {
		log.Warn().Int("rows", skipped).Msg("orders with unparseable purchase timestamps excluded")
	}
	return orders, nil
}

func loadProducts(dir string) (map[string]string, error) {
	table, err := readTable(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	idx := headerIndex(table.header)
	productCol, ok := idx["product_id"]
	if !ok {
		return nil, domain.NewDataError("%s: missing required column product_id", ProductsFile)
	}
	categoryCol, ok := idx["product_category_name"]
	if !ok {
		return nil, domain.NewDataError("%s: missing required column product_category_name", ProductsFile)
	}

	categories := make(map[string]string, len(table.rows))
	for _, row := range table.rows {
		categories[at(row, productCol)] = at(row, categoryCol)
	}
	return categories, nil
}

func loadCustomers(dir string) (map[string]struct{}, error) {
	table, err := readTable(filepath.Join(dir, CustomersFile))
	if err != nil {
		return nil, err
	}
	idx := headerIndex(table.header)
	customerCol, ok := idx["customer_id"]
	if !ok {
		return nil, domain.NewDataError("%s: missing required column customer_id", CustomersFile)
	}

	customers := make(map[string]struct{}, len(table.rows))
	for _, row := range table.rows {
		customers[at(row, customerCol)] = struct{}{}
	}
	return customers, nil
}

type csvTable struct {
	header []string
	rows   [][]string
}

func readTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewDataError("missing required file %s", filepath.Base(path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewDataError("cannot parse %s: %v", filepath.Base(path), err)
	}
	if len(all) == 0 {
		return nil, domain.NewDataError("%s is empty", filepath.Base(path))
	}
	return &csvTable{header: all[0], rows: all[1:]}, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func at(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return v
}
