package model

// Customer identifies an account holder. Two customers are the same
// customer when their IDs are equal.
type Customer struct {
	ID string
}

// NewCustomer wraps id as a Customer.
func NewCustomer(id string) Customer {
	return Customer{ID: id}
}

func (c Customer) String() string {
	return c.ID
}
