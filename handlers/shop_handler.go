package handlers

import (
	"net/http"

	"github.com/badarts/club-backend/services"
)

// ShopHandler proxies the club shop to Printful. Upstream bodies are passed
// through untouched.
type ShopHandler struct {
	shopService services.ShopService
}

func NewShopHandler(ss services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: ss}
}

// Products godoc
// @Summary      Shop products
// @Tags         shop
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      503 {object} map[string]string
// @Router       /api/printful/store/products [get]
func (h *ShopHandler) Products(w http.ResponseWriter, r *http.Request) {
	raw, err := h.shopService.Products(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, raw, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Product godoc
// @Summary      One shop product with its variants
// @Tags         shop
// @Produce      json
// @Param        product_id path int true "Product ID"
// @Success      200 {object} map[string]interface{}
// @Router       /api/printful/store/products/{product_id} [get]
func (h *ShopHandler) Product(w http.ResponseWriter, r *http.Request) {
	productID, err := getIDFromURL(r, "product_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	raw, err := h.shopService.Product(r.Context(), productID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, raw, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateOrder godoc
// @Summary      Place a shop order
// @Tags         shop
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body services.OrderInput true "Order"
// @Success      200 {object} map[string]interface{}
// @Failure      422 {object} map[string]interface{}
// @Failure      502 {object} map[string]string
// @Router       /api/printful/orders [post]
func (h *ShopHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input services.OrderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	raw, err := h.shopService.CreateOrder(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, raw, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmOrder godoc
// @Summary      Confirm a draft shop order
// @Tags         shop
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path int true "Order ID"
// @Param        input body services.ConfirmOrderInput true "Confirmation"
// @Success      200 {object} map[string]interface{}
// @Router       /api/printful/orders/{order_id}/confirm [post]
func (h *ShopHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := getIDFromURL(r, "order_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ConfirmOrderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	raw, err := h.shopService.ConfirmOrder(r.Context(), orderID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, raw, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Health godoc
// @Summary      Shop configuration status
// @Tags         shop
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/printful/health [get]
func (h *ShopHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := jsonResponse{"status": "ok", "printful_set": h.shopService.Enabled()}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
