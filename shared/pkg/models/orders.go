package models

type OrderBookedPayload struct {
	ProductID     string `json:"product_id"`
	CustomerEmail string `json:"customer_email"`
}

type OrderDeletedPayload struct {
	ProductID     string `json:"product_id"`
	CustomerEmail string `json:"customer_email"`
	DeletedBy     string `json:"deleted_by"`
}

func NewOrderBookedEvent(orderID, productID, customerEmail string) Event[OrderBookedPayload] {
	return NewEvent(TypeOrderBooked, orderID, OrderBookedPayload{
		ProductID:     productID,
		CustomerEmail: customerEmail,
	})
}

func NewOrderDeletedEvent(orderID, productID, customerEmail, deletedBy string) Event[OrderDeletedPayload] {
	return NewEvent(TypeOrderDeleted, orderID, OrderDeletedPayload{
		ProductID:     productID,
		CustomerEmail: customerEmail,
		DeletedBy:     deletedBy,
	})
}
