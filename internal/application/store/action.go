package store

import (
	"github.com/storefront/backend/internal/domain/cart"
)

// ActionType names a state transition
type ActionType string

const (
	ActionIncrement         ActionType = "counter/increment"
	ActionDecrement         ActionType = "counter/decrement"
	ActionAddProduct        ActionType = "cart/addProductToCart"
	ActionRemoveProduct     ActionType = "cart/removeProductFromCart"
	ActionIncrementQuantity ActionType = "cart/incrementQuantity"
	ActionDecrementQuantity ActionType = "cart/decrementQuantity"
	ActionSetQuantity       ActionType = "cart/setQuantity"
	ActionClearCart         ActionType = "cart/clear"
)

// Action is a dispatched state transition and its payload
type Action struct {
	Type      ActionType
	Item      cart.CartItem
	ProductID int64
	Quantity  int
}

func Increment() Action { return Action{Type: ActionIncrement} }
func Decrement() Action { return Action{Type: ActionDecrement} }
func ClearCart() Action { return Action{Type: ActionClearCart} }

func AddProduct(item cart.CartItem) Action {
	return Action{Type: ActionAddProduct, Item: item, ProductID: item.ID}
}

func RemoveProduct(id int64) Action {
	return Action{Type: ActionRemoveProduct, ProductID: id}
}

func IncrementQuantity(id int64) Action {
	return Action{Type: ActionIncrementQuantity, ProductID: id}
}

func DecrementQuantity(id int64) Action {
	return Action{Type: ActionDecrementQuantity, ProductID: id}
}

func SetQuantity(id int64, quantity int) Action {
	return Action{Type: ActionSetQuantity, ProductID: id, Quantity: quantity}
}
