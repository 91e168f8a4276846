package domain

import "time"

// OrderRecord is one row of the unified record set built by the loader:
// order items joined with orders, products and customers. Delivered and
// estimated timestamps are optional; cancelled or in-flight orders carry
// nil values and are excluded from duration/delay aggregates.
type OrderRecord struct {
	OrderID            string
	CustomerID         string
	ProductID          string
	SellerID           string
	Category           string
	PurchaseTimestamp  time.Time
	EstimatedDelivery  *time.Time
	DeliveredTimestamp *time.Time
	PriceVND           float64
	FreightVND         float64

	// Derived fields. ShippingDuration and DeliveryDelay are nil when the
	// timestamps needed to compute them are absent.
	ShippingDuration *float64
	DeliveryDelay    *float64
	OrderMonth       time.Time
}

// MonthlyPoint is one entry of a monthly demand series.
type MonthlyPoint struct {
	Month  time.Time `json:"month" bson:"month"`
	Orders float64   `json:"orders" bson:"orders"`
}

// ForecastRow is one month of the forecast table, carrying both models'
// predictions.
type ForecastRow struct {
	Month   string `json:"month" bson:"month"`
	Boosted int    `json:"boosted" bson:"boosted"`
	ARIMA   int    `json:"arima" bson:"arima"`
}

// ChartPoint is a chart-ready observation tagged by series type
// ("actual", "boosted", "arima").
type ChartPoint struct {
	Month    string `json:"month" bson:"month"`
	Orders   int    `json:"orders" bson:"orders"`
	Type     string `json:"type" bson:"type"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
}

// ModelMetrics reports in-sample fit quality for one model.
type ModelMetrics struct {
	MAE  float64 `json:"mae" bson:"mae"`
	RMSE float64 `json:"rmse" bson:"rmse"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ForecastResult is the outcome of forecasting one category (or the
// aggregate "Overall" series). Failures are carried as values with
// Status=error so batch callers can skip a category without aborting.
type ForecastResult struct {
	Category         string                  `json:"category" bson:"category"`
	Status           string                  `json:"status" bson:"status"`
	Message          string                  `json:"message,omitempty" bson:"message,omitempty"`
	ForecastTable    []ForecastRow           `json:"forecast_table" bson:"forecast_table"`
	ChartData        []ChartPoint            `json:"chart_data" bson:"chart_data"`
	Metrics          map[string]ModelMetrics `json:"mae_rmse_comparison,omitempty" bson:"mae_rmse_comparison,omitempty"`
	OptimalInventory int                     `json:"optimal_inventory,omitempty" bson:"optimal_inventory,omitempty"`
	HoldingCost      float64                 `json:"holding_cost,omitempty" bson:"holding_cost,omitempty"`
	Timestamp        time.Time               `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// OverallCategory names the aggregate series in forecast maps and the
// history store.
const OverallCategory = "Overall"

// ReorderPolicy is the inventory policy derived for one category from its
// forecast and historical lead-time statistics.
type ReorderPolicy struct {
	Category          string  `json:"category" bson:"category"`
	AvgLeadTimeDays   float64 `json:"avg_lead_time_days" bson:"avg_lead_time_days"`
	ForecastAvgDemand int     `json:"forecast_avg_demand" bson:"forecast_avg_demand"`
	DemandStd         int     `json:"demand_std" bson:"demand_std"`
	SafetyStock       int     `json:"safety_stock" bson:"safety_stock"`
	ReorderPoint      int     `json:"reorder_point" bson:"reorder_point"`
	OptimalInventory  int     `json:"optimal_inventory" bson:"optimal_inventory"`
	HoldingCost       float64 `json:"holding_cost" bson:"holding_cost"`
	Note              string  `json:"optimization_note,omitempty" bson:"optimization_note,omitempty"`
}

// Recommendation proposes a fixed perturbation of one category's policy
// (safety stock -20%, reorder point -10%) and reports the cost delta.
type Recommendation struct {
	Category             string  `json:"category" bson:"category"`
	CurrentSafetyStock   int     `json:"current_safety_stock" bson:"current_safety_stock"`
	ProposedSafetyStock  int     `json:"proposed_safety_stock" bson:"proposed_safety_stock"`
	CurrentReorderPoint  int     `json:"current_reorder_point" bson:"current_reorder_point"`
	ProposedReorderPoint int     `json:"proposed_reorder_point" bson:"proposed_reorder_point"`
	CurrentHoldingCost   float64 `json:"current_holding_cost" bson:"current_holding_cost"`
	ProposedHoldingCost  float64 `json:"proposed_holding_cost" bson:"proposed_holding_cost"`
	PotentialSaving      float64 `json:"potential_saving" bson:"potential_saving"`
}

// SupplierCluster is the k-means assignment for one supplier.
type SupplierCluster struct {
	SellerID        string  `json:"seller_id" bson:"seller_id"`
	TotalOrders     int     `json:"total_orders" bson:"total_orders"`
	AvgShippingDays float64 `json:"avg_shipping_days" bson:"avg_shipping_days"`
	AvgFreightCost  float64 `json:"avg_freight_cost" bson:"avg_freight_cost"`
	ClusterID       int     `json:"cluster_id" bson:"cluster_id"`
	ClusterLabel    string  `json:"cluster_label" bson:"cluster_label"`
}

// Bottleneck flags one supplier with an above-average late-delivery rate.
type Bottleneck struct {
	SellerID         string  `json:"seller_id" bson:"seller_id"`
	TotalOrders      int     `json:"total_orders" bson:"total_orders"`
	LateOrders       int     `json:"late_orders" bson:"late_orders"`
	LatePercentage   float64 `json:"late_percentage" bson:"late_percentage"`
	DominantCategory string  `json:"dominant_category" bson:"dominant_category"`
	Severity         string  `json:"severity" bson:"severity"`
}

// NamedValue is a generic chart entry (category or seller vs value).
type NamedValue struct {
	Name  string  `json:"category" bson:"category"`
	Value float64 `json:"value" bson:"value"`
}

// EDASummary aggregates the descriptive statistics shown on the analysis
// dashboard.
type EDASummary struct {
	OrdersByMonth        []MonthlyCount `json:"orders_by_month" bson:"orders_by_month"`
	TopCategories        []NamedValue   `json:"top_categories" bson:"top_categories"`
	DeliveryDelayRate    float64        `json:"delivery_delay_rate" bson:"delivery_delay_rate"`
	AvgShippingBySeller  []NamedValue   `json:"avg_shipping_duration_by_seller" bson:"avg_shipping_duration_by_seller"`
	AvgFreightByCategory []NamedValue   `json:"avg_shipping_cost_by_category" bson:"avg_shipping_cost_by_category"`
	Timestamp            time.Time      `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// MonthlyCount is a (month, count) pair rendered with the month formatted
// as "2006-01".
type MonthlyCount struct {
	Month string `json:"month" bson:"month"`
	Count int    `json:"value" bson:"value"`
}

// UploadedFile describes one CSV accepted by the upload endpoint.
type UploadedFile struct {
	Filename string `json:"filename" bson:"filename"`
	Path     string `json:"-"`
	Size     int64  `json:"size" bson:"size"`
}
