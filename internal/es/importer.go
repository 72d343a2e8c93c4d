package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const (
	// flushBytes bounds the size of a single bulk request.
	flushBytes = 5e6

	flushInterval = 30 * time.Second
)

// Failure records one document that could not be fetched, mapped or indexed.
type Failure struct {
	TourID string
	Reason string
}

// Result accumulates the outcome of an import run. It is safe for concurrent
// use; the fetch workers and the bulk indexer callbacks append to it from
// different goroutines.
type Result struct {
	mu        sync.Mutex
	succeeded uint64
	failed    []Failure
}

// RecordFailure appends a failure in encounter order.
func (r *Result) RecordFailure(tourID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, Failure{TourID: tourID, Reason: reason})
}

func (r *Result) recordSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded++
}

// Succeeded returns the number of documents confirmed indexed.
func (r *Result) Succeeded() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.succeeded
}

// Failed returns the collected failures in encounter order.
func (r *Result) Failed() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failed))
	copy(out, r.failed)
	return out
}

// Importer batches documents and writes them to Elasticsearch via the bulk
// API. Per-document outcomes are independent: a rejected document is recorded
// on the Result and never aborts its batch. Documents are indexed under their
// tour id, so importing the same tours again overwrites in place.
type Importer struct {
	bi     esutil.BulkIndexer
	result *Result
}

// NewImporter creates a bulk importer writing into the given index. A single
// indexer worker keeps failures in encounter order; batches are flushed once
// they reach flushBytes.
func NewImporter(client *elasticsearch.Client, index string, result *Result) (*Importer, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         index,
		Client:        client,
		NumWorkers:    1,
		FlushBytes:    flushBytes,
		FlushInterval: flushInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating the indexer: %w", err)
	}
	return &Importer{bi: bi, result: result}, nil
}

// Add queues one document for indexing.
func (imp *Importer) Add(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cannot encode tour %s: %w", doc.TourID, err)
	}

	return imp.bi.Add(ctx, esutil.BulkIndexerItem{
		Action:     "index",
		DocumentID: doc.TourID,
		Body:       bytes.NewReader(data),
		OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
			imp.result.recordSuccess()
		},
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			if err != nil {
				imp.result.RecordFailure(item.DocumentID, err.Error())
			} else {
				imp.result.RecordFailure(item.DocumentID, fmt.Sprintf("%s: %s", res.Error.Type, res.Error.Reason))
			}
		},
	})
}

// Close flushes any buffered documents and waits for outstanding bulk
// requests to finish.
func (imp *Importer) Close(ctx context.Context) error {
	return imp.bi.Close(ctx)
}
