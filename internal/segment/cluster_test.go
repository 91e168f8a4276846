package segment

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

func testSegmentConfig() config.SegmentConfig {
	return config.SegmentConfig{
		Clusters:          3,
		MinSupplierOrders: 5,
		LateThresholdDays: 20,
		FastShippingDays:  12,
		CheapFreightBRL:   20,
	}
}

func addSupplier(ds *dataset.Dataset, sellerID, category string, orders int, shippingDays, freightVND float64) {
	for i := 0; i < orders; i++ {
		d := shippingDays
		ds.Records = append(ds.Records, domain.OrderRecord{
			OrderID:          fmt.Sprintf("%s-%d", sellerID, i),
			SellerID:         sellerID,
			Category:         category,
			FreightVND:       freightVND,
			ShippingDuration: &d,
		})
	}
}

func segmentTestDataset() *dataset.Dataset {
	ds := &dataset.Dataset{}
	// Two clearly fast/cheap suppliers, two slow/expensive ones, plus
	// middling ones so k=3 has room.
	addSupplier(ds, "s-fast-1", "toys", 10, 5, 50000)
	addSupplier(ds, "s-fast-2", "toys", 12, 6, 60000)
	addSupplier(ds, "s-mid-1", "books", 8, 14, 110000)
	addSupplier(ds, "s-mid-2", "books", 9, 15, 120000)
	addSupplier(ds, "s-slow-1", "garden", 10, 30, 300000)
	addSupplier(ds, "s-slow-2", "garden", 11, 28, 280000)
	return ds
}

func TestClusterSuppliersDeterministic(t *testing.T) {
	analyzer := NewAnalyzer(testSegmentConfig(), 104000)
	ds := segmentTestDataset()

	first := analyzer.ClusterSuppliers(ds)
	second := analyzer.ClusterSuppliers(ds)
	if !reflect.DeepEqual(first, second) {
		t.Error("clustering is not deterministic across runs")
	}
}

func TestClusterSuppliersFiltersThinSuppliers(t *testing.T) {
	ds := segmentTestDataset()
	addSupplier(ds, "s-thin", "toys", 3, 10, 80000)

	analyzer := NewAnalyzer(testSegmentConfig(), 104000)
	for _, c := range analyzer.ClusterSuppliers(ds) {
		if c.SellerID == "s-thin" {
			t.Error("supplier below the minimum order count must be excluded")
		}
	}
}

func TestClusterSuppliersSeparatesExtremes(t *testing.T) {
	analyzer := NewAnalyzer(testSegmentConfig(), 104000)
	clusters := analyzer.ClusterSuppliers(segmentTestDataset())

	byID := make(map[string]domain.SupplierCluster)
	for _, c := range clusters {
		byID[c.SellerID] = c
	}

	if byID["s-fast-1"].ClusterID == byID["s-slow-1"].ClusterID {
		t.Error("fast/cheap and slow/expensive suppliers landed in the same cluster")
	}
	if byID["s-fast-1"].ClusterID != byID["s-fast-2"].ClusterID {
		t.Error("near-identical suppliers split across clusters")
	}

	if label := byID["s-fast-1"].ClusterLabel; !strings.Contains(label, "fast") || !strings.Contains(label, "cheap") {
		t.Errorf("fast/cheap supplier labeled %q", label)
	}
	if label := byID["s-slow-1"].ClusterLabel; !strings.Contains(label, "slow") || !strings.Contains(label, "expensive") {
		t.Errorf("slow/expensive supplier labeled %q", label)
	}
}

func TestClusterSuppliersReducesK(t *testing.T) {
	ds := &dataset.Dataset{}
	// Only four qualifying suppliers: fewer than 2k for k=3, so k drops
	// to 2.
	addSupplier(ds, "a", "toys", 6, 5, 50000)
	addSupplier(ds, "b", "toys", 6, 6, 55000)
	addSupplier(ds, "c", "toys", 6, 25, 250000)
	addSupplier(ds, "d", "toys", 6, 26, 260000)

	analyzer := NewAnalyzer(testSegmentConfig(), 104000)
	clusters := analyzer.ClusterSuppliers(ds)
	if len(clusters) != 4 {
		t.Fatalf("expected 4 assignments, got %d", len(clusters))
	}

	ids := make(map[int]bool)
	for _, c := range clusters {
		ids[c.ClusterID] = true
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 clusters after reduction, got %d", len(ids))
	}
}

func TestClusterSuppliersEmptyDataset(t *testing.T) {
	analyzer := NewAnalyzer(testSegmentConfig(), 104000)
	if clusters := analyzer.ClusterSuppliers(&dataset.Dataset{}); len(clusters) != 0 {
		t.Errorf("expected no clusters for empty data, got %d", len(clusters))
	}
}
