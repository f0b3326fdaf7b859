// Package catalog is the read-only product browsing client.
package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ceylonhub/storefront/internal/api"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
)

type Service struct {
	client *api.Client
}

func New(client *api.Client) *Service {
	return &Service{client: client}
}

type ListOptions struct {
	Search   string
	Category string
	Page     int
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Product, error) {

	query := url.Values{}

	if opts.Search != "" {
		query.Set("search", opts.Search)
	}

	if opts.Category != "" {
		query.Set("category", opts.Category)
	}

	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	path := "/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Products []models.Product `json:"products"`
	}

	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	return resp.Products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {

	if id == "" {
		return nil, apperrors.ValidationError("Product id is required")
	}

	var product models.Product

	if err := s.client.Get(ctx, "/products/"+id, &product); err != nil {
		return nil, err
	}

	return &product, nil
}
