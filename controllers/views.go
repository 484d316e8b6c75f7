package controllers

import (
	"storefront/images"
	"storefront/models"
	"storefront/services"
)

// productView is a product as the storefront renders it, with CDN URLs for
// its lead image.
type productView struct {
	models.Product
	ImageURL string `json:"imageUrl,omitempty"`
	SrcSet   string `json:"srcSet,omitempty"`
}

func newProductView(p models.Product) productView {
	v := productView{Product: p}
	if len(p.Images) > 0 {
		v.ImageURL = images.URL(p.Images[0], images.Options{})
		v.SrcSet = images.SrcSet(p.Images[0])
	}
	return v
}

func productViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

type categoryPageView struct {
	*services.CategoryPage
	Products []productView `json:"products"`
}

type orderItemView struct {
	models.OrderItem
	ImageURL string `json:"imageUrl,omitempty"`
}

type orderView struct {
	*models.Order
	Items []orderItemView `json:"items,omitempty"`
}

// newOrderView resolves each item's stored image to a thumbnail URL.
func newOrderView(o *models.Order) orderView {
	v := orderView{Order: o, Items: make([]orderItemView, 0, len(o.Items))}
	for _, item := range o.Items {
		iv := orderItemView{OrderItem: item}
		if item.ProductImage != nil {
			iv.ImageURL = images.URL(*item.ProductImage, images.Options{W: orderThumbWidth})
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

const orderThumbWidth = 160
