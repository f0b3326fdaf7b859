// Package orders reads order history and lets a pending bank-transfer order
// receive its payment slip after the fact.
package orders

import (
	"context"
	"io"
	"log/slog"

	"github.com/ceylonhub/storefront/internal/api"
	"github.com/ceylonhub/storefront/internal/checkout"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/ceylonhub/storefront/pkg/cloudinary"
)

type Service struct {
	client   *api.Client
	uploader checkout.Uploader
	logger   *slog.Logger
}

func New(client *api.Client, up checkout.Uploader, logger *slog.Logger) *Service {
	return &Service{client: client, uploader: up, logger: logger}
}

func (s *Service) History(ctx context.Context) ([]models.Order, error) {

	var resp struct {
		Orders []models.Order `json:"orders"`
	}

	if err := s.client.Get(ctx, "/orders/my-orders", &resp); err != nil {
		return nil, err
	}

	return resp.Orders, nil
}

// SubmitSlip uploads a payment slip for an existing order, for users who
// skipped the upload step at checkout.
func (s *Service) SubmitSlip(ctx context.Context, orderID string, r io.Reader, size int64, progress cloudinary.ProgressFunc) (string, error) {

	if orderID == "" {
		return "", apperrors.ValidationError("Order id is required")
	}

	if s.uploader == nil {
		return "", apperrors.ValidationError("Payment-slip upload is not configured; set CLOUDINARY_URL")
	}

	url, err := s.uploader.Upload(ctx, r, size, progress)
	if err != nil {
		return "", apperrors.ThirdPartyError("Failed to upload payment slip").WithError(err)
	}

	if err := s.client.Post(ctx, "/orders/"+orderID+"/payment-slip", models.PaymentSlipRequest{URL: url}, nil); err != nil {
		return "", err
	}

	s.logger.Info("Payment slip submitted", slog.String("orderId", orderID))

	return url, nil
}
