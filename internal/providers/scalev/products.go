package scalev

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"course-store/internal/concurrency"
)

// listCandidate is one plausible shape of the product-listing endpoint.
// The path and required parameters are not stable across Scalev
// deployments, so listing walks an ordered ladder instead of hard-coding
// one shape.
type listCandidate struct {
	name  string
	path  string
	query url.Values
}

func (c *Client) listCandidates() []listCandidate {
	byParam := url.Values{}
	byParam.Set("store_unique_id", c.StoreID)

	return []listCandidate{
		{name: "GET /products?store_unique_id", path: "/products", query: byParam},
		{name: "GET /stores/{store}/products", path: "/stores/" + c.StoreID + "/products"},
	}
}

// Products resolves the listing endpoint, then fans out one detail fetch per
// product (listings omit authoritative prices). The ladder is rerun on every
// call: remembering a winner would couple us to one deployment shape.
//
// Returns ErrNoProducts for an empty catalog and ErrAllEndpointsFailed when
// every candidate errored.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	candidates := c.listCandidates()
	failed := 0

	for _, cand := range candidates {
		body, err := c.do(ctx, http.MethodGet, cand.path, cand.query, nil, readRetryConfig())
		if err != nil {
			failed++
			c.logger.Warn("product endpoint failed",
				zap.String("endpoint", cand.name), zap.Error(err))
			continue
		}

		results, ok := extractResults(body)
		if !ok {
			c.logger.Warn("unrecognized product listing envelope",
				zap.String("endpoint", cand.name))
			continue
		}
		if len(results) == 0 {
			c.logger.Info("product endpoint returned no products",
				zap.String("endpoint", cand.name))
			continue
		}

		products := make([]Product, 0, len(results))
		for _, raw := range results {
			var p Product
			if err := json.Unmarshal(raw, &p); err != nil {
				c.logger.Warn("skipping unparseable product", zap.Error(err))
				continue
			}
			products = append(products, p)
		}
		if len(products) == 0 {
			continue
		}

		c.logger.Info("product listing resolved",
			zap.String("endpoint", cand.name), zap.Int("count", len(products)))
		return c.fetchDetails(ctx, products), nil
	}

	if failed == len(candidates) {
		return nil, ErrAllEndpointsFailed
	}
	return nil, ErrNoProducts
}

// fetchDetails issues one detail call per product concurrently. A failed
// detail fetch degrades that record to its listing summary; it never fails
// the batch.
func (c *Client) fetchDetails(ctx context.Context, products []Product) []Product {
	opts := concurrency.ParallelOptions{MaxWorkers: c.DetailWorkers}

	detailed, _ := concurrency.ProcessParallel(ctx, products, opts,
		func(ctx context.Context, _ int, p Product) (Product, error) {
			full, err := c.Product(ctx, p.ID.String())
			if err != nil {
				c.logger.Warn("product detail fetch failed, using summary",
					zap.String("product_id", p.ID.String()), zap.Error(err))
				return p, nil
			}
			return full, nil
		})

	return detailed
}

// Product fetches one product by its numeric id.
func (c *Client) Product(ctx context.Context, id string) (Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/products/"+id, nil, nil, readRetryConfig())
	if err != nil {
		return Product{}, fmt.Errorf("scalev: fetch product %s: %w", id, err)
	}

	data, err := unwrapData(body)
	if err != nil {
		return Product{}, err
	}

	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, fmt.Errorf("scalev: parse product %s: %w", id, err)
	}
	return p, nil
}

// ProductByVariant locates the product owning a variant. Scalev has no
// /variants/{id} endpoint, so variant ids ("variant_...") require scanning
// the full listing; anything else is treated as a product id.
func (c *Client) ProductByVariant(ctx context.Context, id string) (Product, error) {
	if !strings.HasPrefix(id, "variant_") {
		return c.Product(ctx, id)
	}

	products, err := c.Products(ctx)
	if err != nil {
		return Product{}, err
	}

	for _, p := range products {
		for _, v := range p.Variants {
			if v.UniqueID == id {
				return p, nil
			}
		}
	}
	return Product{}, ErrProductNotFound
}
