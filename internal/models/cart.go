package models

// Cart represents a customer's in-progress collection of tickets.
// A cart spans zero or more events.
type Cart struct {
	ID int `json:"id" db:"id"`
}

// CartContents is the read view of a cart returned to clients
type CartContents struct {
	CartID    int         `json:"cart_id"`
	Tickets   []*Ticket   `json:"tickets"`
	Discounts []*Discount `json:"discounts"`
}
