package models

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type ProductImage struct {
	URL string `json:"url"`
}

type Product struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Category    string         `json:"category,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`
	Rating      Rating         `json:"rating"`
}

// CartItem converts a product into the line item the cart stores.
func (p *Product) CartItem() CartItem {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0].URL
	}

	return CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     image,
		Quantity:  1,
	}
}
