package es

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
)

// Config holds the Elasticsearch connection parameters.
type Config struct {
	// Host is the URL of the Elasticsearch instance.
	Host string
	// HTTPAuth optionally carries basic auth credentials as "user:password".
	HTTPAuth string
}

// NewClient creates an Elasticsearch client that retries throttled and
// temporarily unavailable requests with exponential backoff.
func NewClient(cfg Config) (*elasticsearch.Client, error) {
	retryBackoff := backoff.NewExponentialBackOff()
	escfg := elasticsearch.Config{
		Addresses:     []string{cfg.Host},
		RetryOnStatus: []int{429, 502, 503, 504},
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	}
	if cfg.HTTPAuth != "" {
		user, pass, ok := strings.Cut(cfg.HTTPAuth, ":")
		if !ok {
			return nil, fmt.Errorf("invalid http auth, expected user:password")
		}
		escfg.Username = user
		escfg.Password = pass
	}

	es, err := elasticsearch.NewClient(escfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}
	return es, nil
}

// Ping verifies the cluster is reachable. The importer treats a failure here
// as fatal since nothing can be written without a connection.
func Ping(es *elasticsearch.Client) error {
	res, err := es.Info()
	if err != nil {
		return fmt.Errorf("elasticsearch unreachable: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch unreachable: %s", res.String())
	}
	return nil
}

// indexMapping declares the geo_point fields so tour positions are queryable
// with geo queries. All other fields use dynamic mapping.
const indexMapping = `{
	"mappings": {
		"properties": {
			"start": {
				"type": "geo_point"
			},
			"track": {
				"properties": {
					"location": {
						"type": "geo_point"
					}
				}
			}
		}
	}
}`

// EnsureIndex creates the target index with its geo_point mapping. An index
// that already exists is fine; re-imports reuse it.
func EnsureIndex(es *elasticsearch.Client, index string) error {
	res, err := es.Indices.Create(
		index,
		es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("error creating index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("error creating index %s: %s", index, res.String())
	}
	return nil
}
