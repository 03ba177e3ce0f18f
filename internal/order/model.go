package order

import "time"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "Standard"
	ShippingExpress  ShippingMethod = "Express"
	ShippingPriority ShippingMethod = "Priority"
)

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "Cash On Delivery"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

// Address is snapshotted onto the order at placement. The customer editing
// their profile later never rewrites where an existing order ships.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

type Item struct {
	ID        uint
	ProductID uint
	Quantity  int
	Price     float64
	LineTotal float64
}

type Comment struct {
	ID        uint
	Comment   string
	AuthorID  *uint
	CreatedAt time.Time
}

type Order struct {
	ID             uint
	OrderNumber    string
	CustomerID     uint
	Items          []Item
	CouponCode     *string
	Discount       float64
	TotalAmount    float64
	TransactionID  *string
	Note           *string
	Status         Status
	PaymentStatus  PaymentStatus
	ShippingMethod ShippingMethod
	ShippingCost   float64
	PaymentMethod  PaymentMethod
	Comments       []Comment
	OrderDate      time.Time
	DeliveryDate   *time.Time
	Address        Address
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
}

func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Patch enumerates what an existing order accepts after placement.
// Everything else on the row is frozen at creation.
type Patch struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	TransactionID *string
	DeliveryDate  *time.Time
	Comment       *string
	AuthorID      *uint
}

var patchableKeys = map[string]bool{
	"status":        true,
	"paymentStatus": true,
	"transactionId": true,
	"deliveryDate":  true,
	"comment":       true,
}

var immutableKeys = map[string]bool{
	"items":          true,
	"totalAmount":    true,
	"discount":       true,
	"couponCode":     true,
	"address":        true,
	"customer":       true,
	"orderDate":      true,
	"orderNumber":    true,
	"shippingMethod": true,
	"shippingCost":   true,
	"paymentMethod":  true,
}

// ValidatePatchKeys rejects a patch before it touches the row: frozen
// fields fail ErrImmutableField, anything unrecognized fails
// ErrUnknownField.
func ValidatePatchKeys(keys []string) error {
	for _, k := range keys {
		if immutableKeys[k] {
			return ErrImmutableField
		}
		if !patchableKeys[k] {
			return ErrUnknownField
		}
	}
	return nil
}
