package domain

import "time"

// BagItem is a product reference held in a shopping bag. Only the product id
// and quantity are stored; prices and names are resolved at read time.
type BagItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Bag is a user's shopping bag. One bag per user, created lazily.
type Bag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Items     []BagItem `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetItem upserts a bag entry. Re-adding a product replaces its quantity
// rather than accumulating, so the bag holds at most one entry per product.
func (b *Bag) SetItem(productID string, quantity int) {
	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items[i].Quantity = quantity
			return
		}
	}
	b.Items = append(b.Items, BagItem{ProductID: productID, Quantity: quantity})
}

// RemoveItem drops a product from the bag. Removing a product that is not
// present is a no-op; it reports whether an entry was removed.
func (b *Bag) RemoveItem(productID string) bool {
	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return true
		}
	}
	return false
}

// BagProduct is the live product snapshot joined into a bag view.
type BagProduct struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Stock        int      `json:"stock"`
	Category     Category `json:"category"`
	DefaultImage Image    `json:"defaultImage"`
}

// BagViewItem is one materialized bag line: the live product joined with the
// stored quantity.
type BagViewItem struct {
	Product   BagProduct `json:"product"`
	Quantity  int        `json:"quantity"`
	ItemPrice int64      `json:"itemPrice"`
}

// BagView is the materialized bag returned to clients. Entries whose product
// no longer exists are dropped and excluded from every total.
type BagView struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Items         []BagViewItem `json:"items"`
	TotalPrice    int64         `json:"totalPrice"`
	TotalProducts int           `json:"totalProducts"`
}
