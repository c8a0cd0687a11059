package models

type OrderStatus string

const (
	OrderStatusNotProcess OrderStatus = "Not Process"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderTransitions liste, pour chaque statut, ceux vers lesquels un admin peut passer.
var OrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNotProcess: {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := OrderTransitions[s]
	return ok
}

// CanTransition indique si s peut passer à next. Rester sur place est toujours permis.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, allowed := range OrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
