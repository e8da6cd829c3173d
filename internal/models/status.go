package models

// OrderStatus is the closed set of order lifecycle states. The happy path is
// placed -> processing -> delivered -> received; canceled is reachable from
// any non-terminal state.
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusProcessing OrderStatus = "processing"
	StatusDelivered  OrderStatus = "delivered"
	StatusReceived   OrderStatus = "received"
	StatusCanceled   OrderStatus = "canceled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:     {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusDelivered, StatusCanceled},
	StatusDelivered:  {StatusReceived, StatusCanceled},
	StatusReceived:   {},
	StatusCanceled:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusReceived || s == StatusCanceled
}

// CanTransition reports whether the status machine allows moving from s to
// target. Unknown states never transition anywhere.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
