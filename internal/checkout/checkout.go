// Package checkout turns cart contents (or a single buy-now item) into an
// order and drives the payment hand-off that follows.
package checkout

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ceylonhub/storefront/internal/api"
	"github.com/ceylonhub/storefront/internal/cart"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/ceylonhub/storefront/internal/utils"
	"github.com/ceylonhub/storefront/pkg/cloudinary"
	"github.com/go-playground/validator/v10"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateFailed
	// card path: order created, payment intent opened, user handed to payment
	StateRedirected
	// bank-transfer path
	StateAwaitingSlipUpload
	StateSlipUploaded
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	case StateRedirected:
		return "redirected"
	case StateAwaitingSlipUpload:
		return "awaiting_slip_upload"
	case StateSlipUploaded:
		return "slip_uploaded"
	default:
		return "idle"
	}
}

// Uploader is the slice of the asset-host client checkout needs.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, progress cloudinary.ProgressFunc) (string, error)
}

type Orchestrator struct {
	client   *api.Client
	cart     *cart.Cart
	uploader Uploader // nil when slip upload is not configured
	logger   *slog.Logger
	validate *validator.Validate

	mu      sync.Mutex
	state   State
	orderID string
	buyNow  *models.CartItem
}

func New(client *api.Client, crt *cart.Cart, up Uploader, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		cart:     crt,
		uploader: up,
		logger:   logger,
		validate: validator.New(),
		state:    StateIdle,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// OrderID is the identifier of the order created by the last successful
// Submit, empty before that.
func (o *Orchestrator) OrderID() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.orderID
}

// SetBuyNow switches checkout to single-item mode, bypassing the cart.
func (o *Orchestrator) SetBuyNow(item models.CartItem) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	o.buyNow = &item
}

func (o *Orchestrator) effectiveItems() []models.CartItem {
	o.mu.Lock()
	buyNow := o.buyNow
	o.mu.Unlock()

	if buyNow != nil {
		return []models.CartItem{*buyNow}
	}

	return o.cart.Items()
}

// Submit validates the effective item list and customer info, creates the
// order, and routes by payment method. On any failure the cart is preserved
// so the user can retry; on success it is cleared.
func (o *Orchestrator) Submit(ctx context.Context, info models.CustomerInfo, method models.PaymentMethod) (*models.Order, error) {

	items := o.effectiveItems()

	// Checked before anything touches the network.
	if len(items) == 0 {
		return nil, apperrors.ValidationError("Your cart is empty")
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	req := models.CheckoutRequest{
		Items:           orderItems,
		PaymentMethod:   method,
		ShippingAddress: info,
	}

	// validator recurses into ShippingAddress, so one call covers the
	// payment method and the billing fields.
	if err := o.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError("Invalid checkout details").WithDetail(utils.ValidationMessage(err))
	}

	o.setState(StateSubmitting)

	var resp models.CreateOrderResponse

	if err := o.client.Post(ctx, "/orders", req, &resp); err != nil {
		o.setState(StateFailed)
		o.logger.Warn("Order submission failed", slog.String("error", err.Error()))

		return nil, err
	}

	order := resp.Order
	o.logger.Info("Order created", slog.String("orderId", order.ID), slog.String("method", string(method)))

	o.mu.Lock()
	o.orderID = order.ID
	o.buyNow = nil
	o.mu.Unlock()

	if method == models.PaymentMethodCard {
		intent := models.PaymentIntentRequest{OrderID: order.ID}

		if err := o.client.Post(ctx, "/payments/create-payment-intent", intent, nil); err != nil {
			// Order exists but payment was not initiated; keep the cart
			// so the user can retry from order history.
			o.setState(StateFailed)

			return nil, err
		}

		o.cart.Clear()
		o.setState(StateRedirected)

		return &order, nil
	}

	o.cart.Clear()
	o.setState(StateAwaitingSlipUpload)

	return &order, nil
}

// SubmitPaymentSlip uploads proof of a bank transfer and attaches its URL to
// the order created by Submit. Upload failure never corrupts the committed
// order; the call can simply be repeated.
func (o *Orchestrator) SubmitPaymentSlip(ctx context.Context, r io.Reader, size int64, progress cloudinary.ProgressFunc) (string, error) {

	o.mu.Lock()
	orderID := o.orderID
	state := o.state
	o.mu.Unlock()

	if state != StateAwaitingSlipUpload || orderID == "" {
		return "", apperrors.BadRequestError("No order is awaiting a payment slip")
	}

	if o.uploader == nil {
		return "", apperrors.ValidationError("Payment-slip upload is not configured; set CLOUDINARY_URL")
	}

	url, err := o.uploader.Upload(ctx, r, size, progress)
	if err != nil {
		return "", apperrors.ThirdPartyError("Failed to upload payment slip").WithError(err)
	}

	if err := o.client.Post(ctx, "/orders/"+orderID+"/payment-slip", models.PaymentSlipRequest{URL: url}, nil); err != nil {
		return "", err
	}

	o.setState(StateSlipUploaded)
	o.logger.Info("Payment slip submitted", slog.String("orderId", orderID))

	return url, nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}
