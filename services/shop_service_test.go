package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type fakeShopClient struct {
	configured bool
	err        error
	orders     []interface{}
}

func (c *fakeShopClient) Configured() bool { return c.configured }

func (c *fakeShopClient) StoreProducts(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"result":[]}`), c.err
}

func (c *fakeShopClient) StoreProduct(_ context.Context, id int) (json.RawMessage, error) {
	return json.RawMessage(`{"result":{"id":1}}`), c.err
}

func (c *fakeShopClient) CreateOrder(_ context.Context, order interface{}) (json.RawMessage, error) {
	c.orders = append(c.orders, order)
	return json.RawMessage(`{"result":{"id":5}}`), c.err
}

func (c *fakeShopClient) ConfirmOrder(context.Context, int, interface{}) (json.RawMessage, error) {
	return json.RawMessage(`{"result":{"status":"pending"}}`), c.err
}

func TestShopNotConfigured(t *testing.T) {
	for _, svc := range []ShopService{
		NewShopService(nil, discardLogger()),
		NewShopService(&fakeShopClient{}, discardLogger()),
	} {
		if svc.Enabled() {
			t.Error("Enabled() = true")
		}
		if _, err := svc.Products(context.Background()); !errors.Is(err, ErrFeatureNotConfigured) {
			t.Errorf("err = %v, want ErrFeatureNotConfigured", err)
		}
	}
}

func TestShopCreateOrder(t *testing.T) {
	client := &fakeShopClient{configured: true}
	svc := NewShopService(client, discardLogger())
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, OrderInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["recipient"] == "" || verr.Fields["items"] == "" {
		t.Fatalf("err = %v, want recipient and items errors", err)
	}
	if len(client.orders) != 0 {
		t.Fatal("invalid order reached the store")
	}

	raw, err := svc.CreateOrder(ctx, OrderInput{
		Recipient: map[string]interface{}{"name": "Jean"},
		Items:     []map[string]interface{}{{"sync_variant_id": 1, "quantity": 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if string(raw) != `{"result":{"id":5}}` || len(client.orders) != 1 {
		t.Errorf("raw = %s, orders = %d", raw, len(client.orders))
	}
}

func TestShopUpstreamFailure(t *testing.T) {
	upstream := errors.New("connection refused")
	svc := NewShopService(&fakeShopClient{configured: true, err: upstream}, discardLogger())

	_, err := svc.ConfirmOrder(context.Background(), 5, ConfirmOrderInput{})
	if !errors.Is(err, ErrUpstreamFailed) || !errors.Is(err, upstream) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Product(context.Background(), 1); !errors.Is(err, ErrUpstreamFailed) {
		t.Errorf("product err = %v", err)
	}
}
