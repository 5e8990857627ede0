package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ShopClient is the store backend. printful.Client implements it.
type ShopClient interface {
	Configured() bool
	StoreProducts(ctx context.Context) (json.RawMessage, error)
	StoreProduct(ctx context.Context, productID int) (json.RawMessage, error)
	CreateOrder(ctx context.Context, order interface{}) (json.RawMessage, error)
	ConfirmOrder(ctx context.Context, orderID int, payload interface{}) (json.RawMessage, error)
}

type OrderInput struct {
	Recipient  map[string]interface{}   `json:"recipient"`
	Items      []map[string]interface{} `json:"items"`
	Confirm    bool                     `json:"confirm"`
	ExternalID *string                  `json:"external_id,omitempty"`
}

type ConfirmOrderInput struct {
	ExternalID *string `json:"external_id,omitempty"`
}

type ShopService interface {
	Enabled() bool
	Products(ctx context.Context) (json.RawMessage, error)
	Product(ctx context.Context, productID int) (json.RawMessage, error)
	CreateOrder(ctx context.Context, input OrderInput) (json.RawMessage, error)
	ConfirmOrder(ctx context.Context, orderID int, input ConfirmOrderInput) (json.RawMessage, error)
}

type shopService struct {
	client ShopClient
	logger *slog.Logger
}

func NewShopService(client ShopClient, logger *slog.Logger) ShopService {
	return &shopService{client: client, logger: logger}
}

func (s *shopService) Enabled() bool {
	return s.client != nil && s.client.Configured()
}

func (s *shopService) Products(ctx context.Context) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, ErrFeatureNotConfigured
	}
	raw, err := s.client.StoreProducts(ctx)
	return raw, s.upstream(ctx, "list products", err)
}

func (s *shopService) Product(ctx context.Context, productID int) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, ErrFeatureNotConfigured
	}
	raw, err := s.client.StoreProduct(ctx, productID)
	return raw, s.upstream(ctx, "get product", err)
}

func (s *shopService) CreateOrder(ctx context.Context, input OrderInput) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, ErrFeatureNotConfigured
	}
	v := validator{}
	v.check(len(input.Recipient) > 0, "recipient", "must be provided")
	v.check(len(input.Items) > 0, "items", "must contain at least one item")
	if err := v.err(); err != nil {
		return nil, err
	}

	raw, err := s.client.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.upstream(ctx, "create order", err)
	}
	s.logger.InfoContext(ctx, "shop order created", slog.Int("items", len(input.Items)), slog.Bool("confirm", input.Confirm))
	return raw, nil
}

func (s *shopService) ConfirmOrder(ctx context.Context, orderID int, input ConfirmOrderInput) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, ErrFeatureNotConfigured
	}
	raw, err := s.client.ConfirmOrder(ctx, orderID, input)
	if err != nil {
		return nil, s.upstream(ctx, "confirm order", err)
	}
	s.logger.InfoContext(ctx, "shop order confirmed", slog.Int("order_id", orderID))
	return raw, nil
}

func (s *shopService) upstream(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.WarnContext(ctx, "shop upstream call failed", slog.String("op", op), slog.Any("error", err))
	return fmt.Errorf("%w: %s: %w", ErrUpstreamFailed, op, err)
}
