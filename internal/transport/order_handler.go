package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"storemart-be/internal/auth"
	"storemart-be/internal/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderItemPayload struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type placeOrderRequest struct {
	Items          []orderItemPayload `json:"items" binding:"required"`
	Address        addressPayload     `json:"address" binding:"required"`
	ShippingMethod string             `json:"shippingMethod"`
	ShippingCost   float64            `json:"shippingCost"`
	PaymentMethod  string             `json:"paymentMethod"`
	CouponCode     *string            `json:"couponCode"`
	Note           *string            `json:"note"`
}

type orderPatchRequest struct {
	Status        *string    `json:"status"`
	PaymentStatus *string    `json:"paymentStatus"`
	TransactionID *string    `json:"transactionId"`
	DeliveryDate  *time.Time `json:"deliveryDate"`
	Comment       *string    `json:"comment"`
}

type orderItemResponse struct {
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"lineTotal"`
}

type orderCommentResponse struct {
	Comment   string    `json:"comment"`
	AuthorID  *uint     `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type orderResponse struct {
	ID             uint                   `json:"id"`
	OrderNumber    string                 `json:"orderNumber"`
	CustomerID     uint                   `json:"customerId"`
	Items          []orderItemResponse    `json:"items"`
	CouponCode     *string                `json:"couponCode,omitempty"`
	Discount       float64                `json:"discount"`
	TotalAmount    float64                `json:"totalAmount"`
	Status         string                 `json:"status"`
	PaymentStatus  string                 `json:"paymentStatus"`
	ShippingMethod string                 `json:"shippingMethod"`
	ShippingCost   float64                `json:"shippingCost"`
	PaymentMethod  string                 `json:"paymentMethod"`
	Note           *string                `json:"note,omitempty"`
	Comments       []orderCommentResponse `json:"comments"`
	OrderDate      time.Time              `json:"orderDate"`
	DeliveryDate   *time.Time             `json:"deliveryDate,omitempty"`
	Address        addressPayload         `json:"address"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		CouponCode:     o.CouponCode,
		Discount:       o.Discount,
		TotalAmount:    o.TotalAmount,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		ShippingMethod: string(o.ShippingMethod),
		ShippingCost:   o.ShippingCost,
		PaymentMethod:  string(o.PaymentMethod),
		Note:           o.Note,
		OrderDate:      o.OrderDate,
		DeliveryDate:   o.DeliveryDate,
		Address: addressPayload{
			Street:     o.Address.Street,
			City:       o.Address.City,
			State:      o.Address.State,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		},
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: it.LineTotal,
		})
	}
	for _, cm := range o.Comments {
		resp.Comments = append(resp.Comments, orderCommentResponse{
			Comment:   cm.Comment,
			AuthorID:  cm.AuthorID,
			CreatedAt: cm.CreatedAt,
		})
	}
	return resp
}

// Place creates an order for the authenticated customer.
func (h *OrderHandler) Place(c *gin.Context) {
	p, ok := auth.PrincipalFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	input := order.PlaceOrderInput{
		CustomerID: p.ID,
		Address: order.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			State:      req.Address.State,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		},
		ShippingMethod: order.ShippingMethod(req.ShippingMethod),
		ShippingCost:   req.ShippingCost,
		PaymentMethod:  order.PaymentMethod(req.PaymentMethod),
		CouponCode:     req.CouponCode,
		Note:           req.Note,
	}
	if input.ShippingMethod == "" {
		input.ShippingMethod = order.ShippingStandard
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = order.PaymentCOD
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, order.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	o, err := h.svc.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) List(c *gin.Context) {
	p, ok := auth.PrincipalFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}

	opts := order.QueryOptions{}
	if p.Kind == auth.KindCustomer {
		// Customers only ever see their own orders.
		id := p.ID
		opts.CustomerID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := order.Status(raw)
		opts.Status = &st
	}

	orders, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, ok := auth.PrincipalFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}

	o, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if p.Kind == auth.KindCustomer && o.CustomerID != p.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot access another customer's order"})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// Update patches an order. The raw body keys are validated first so a
// request naming a frozen field is rejected before anything else runs.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	if err := order.ValidatePatchKeys(keys); err != nil {
		respondError(c, err)
		return
	}

	var req orderPatchRequest
	if err := bindRaw(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	patch := order.Patch{
		TransactionID: req.TransactionID,
		DeliveryDate:  req.DeliveryDate,
		Comment:       req.Comment,
	}
	if req.Status != nil {
		st := order.Status(*req.Status)
		patch.Status = &st
	}
	if req.PaymentStatus != nil {
		ps := order.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &ps
	}
	if p, ok := auth.PrincipalFromCtx(c.Request.Context()); ok && p.Kind == auth.KindUser {
		authorID := p.ID
		patch.AuthorID = &authorID
	}

	o, err := h.svc.UpdateOrder(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func bindRaw(raw map[string]json.RawMessage, dst *orderPatchRequest) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
