package models

// Product is a single catalog item as shown on the product index.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
