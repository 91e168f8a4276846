package service

import (
	"context"
	"sync"

	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/rs/zerolog/log"
)

// DatasetProvider loads the uploaded CSVs once and shares the joined
// record set across services until an upload invalidates it. Loading is
// the most expensive step of every request, so it never happens twice
// for the same data.
type DatasetProvider struct {
	loader *dataset.Loader

	mu     sync.Mutex
	cached *dataset.Dataset
}

func NewDatasetProvider(loader *dataset.Loader) *DatasetProvider {
	return &DatasetProvider{loader: loader}
}

// Dataset returns the current dataset, loading it on first use.
func (p *DatasetProvider) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}

	ds, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int("records", len(ds.Records)).Msg("dataset loaded")
	p.cached = ds
	return ds, nil
}

// Invalidate drops the cached dataset; the next request reloads from
// disk.
func (p *DatasetProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
}
