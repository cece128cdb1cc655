package models

import "time"

// BasketItem is one product line in a basket.
type BasketItem struct {
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	PictureURL  string `json:"pictureUrl"`
}

// Basket is a client-owned cart kept in Redis. The ID is generated by the
// frontend, so guests can carry a basket without an account.
type Basket struct {
	ID        string       `json:"id"`
	Items     []BasketItem `json:"items"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Total sums the line totals.
func (b *Basket) Total() int64 {
	var total int64
	for _, item := range b.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}
