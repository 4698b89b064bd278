package order

import "github.com/storelab/orders-service/internal/product"

// Pricing is the result of pricing a requested item list against the
// validated product records.
type Pricing struct {
	TotalAmount float64
	TotalItems  int
	Items       []Item
}

// PriceItems computes the per-line snapshot price and the order totals
// from the validator's records. Lookup is by first match; a requested
// id absent from the validated set contributes 0 to the totals and an
// empty name, and the line is still included in the order.
func PriceItems(items []LineItem, products []product.Product) Pricing {
	p := Pricing{Items: make([]Item, 0, len(items))}
	for _, line := range items {
		price, name := lookupProduct(products, line.ProductID)
		p.TotalAmount += price * float64(line.Quantity)
		p.TotalItems += line.Quantity
		p.Items = append(p.Items, Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
			Name:      name,
		})
	}
	return p
}

// EnrichItems attaches current product names to stored items. Prices
// and quantities stay exactly as persisted.
func EnrichItems(items []Item, products []product.Product) []Item {
	enriched := make([]Item, len(items))
	for i, item := range items {
		_, name := lookupProduct(products, item.ProductID)
		item.Name = name
		enriched[i] = item
	}
	return enriched
}

func lookupProduct(products []product.Product, id int) (price float64, name string) {
	for _, p := range products {
		if p.ID == id {
			return p.Price, p.Name
		}
	}
	return 0, ""
}

// DistinctProductIDs returns the product ids of the requested lines in
// first-seen order, without duplicates.
func DistinctProductIDs(items []LineItem) []int {
	seen := make(map[int]struct{}, len(items))
	ids := make([]int, 0, len(items))
	for _, line := range items {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}
