// Package resources defines the JSON projections for API responses. They
// are the single place deciding what leaves the system: password hashes,
// security answers and photo bytes never do.
package resources

import (
	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/pkg/resource"
)

// User is the safe user payload returned by auth endpoints.
func User(u models.User) resource.Map {
	return resource.Map{
		"_id":     u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"address": u.Address,
		"role":    u.Role,
	}
}

// Category projects a category.
func Category(c models.Category) resource.Map {
	return resource.Map{
		"_id":  c.ID,
		"name": c.Name,
		"slug": c.Slug,
	}
}

// Product projects a product for listings and detail views. Photo bytes are
// never inlined; clients fetch them from the photo endpoint.
func Product(p models.Product) resource.Map {
	return resource.Map{
		"_id":         p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

// OrderItem projects one snapshotted line item.
func OrderItem(i models.OrderItem) resource.Map {
	return resource.Map{
		"_id":         i.ProductID,
		"name":        i.Name,
		"description": i.Description,
		"price":       i.Price,
		"quantity":    i.Quantity,
	}
}

// Order projects an order for the listings. The payment block is passed
// through as stored; buyer is reduced to the id (the buyer name join is
// done by BuyerName when the listing needs it).
func Order(o models.Order) resource.Map {
	return resource.Map{
		"_id":       o.ID,
		"products":  resource.Items(OrderItem, o.Products),
		"payment":   o.Payment,
		"buyer":     o.Buyer,
		"status":    o.Status,
		"createdAt": o.CreatedAt,
		"updatedAt": o.UpdatedAt,
	}
}

// OrderWithBuyer is Order plus the buyer's display name.
func OrderWithBuyer(o models.Order, buyerName string) resource.Map {
	m := Order(o)
	m["buyer"] = resource.Map{"_id": o.Buyer, "name": buyerName}
	return m
}
