package catalog

import (
	"strings"

	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	ImageURL      string          `json:"imageUrl"`
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	BrandID       int64           `json:"brandId"`
	BrandName     string          `json:"brandName"`
	Specification *Specification  `json:"specification"`
	// Local date time without a zone, as the backend sends it.
	CreatedAt     string          `json:"createdAt"`
}

type Specification struct {
	ID              int64  `json:"id"`
	ScreenSize      string `json:"screenSize"`
	ScreenType      string `json:"screenType"`
	Resolution      string `json:"resolution"`
	Processor       string `json:"processor"`
	RAM             string `json:"ram"`
	Storage         string `json:"storage"`
	BatteryCapacity string `json:"batteryCapacity"`
	CameraMain      string `json:"cameraMain"`
	CameraFront     string `json:"cameraFront"`
	OSVersion       string `json:"osVersion"`
	Connectivity    string `json:"connectivity"`
	Weight          string `json:"weight"`
	Color           string `json:"color"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconName    string `json:"iconName"`
}

type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	LogoURL     string `json:"logoUrl"`
	Description string `json:"description"`
}

// CartProduct is the reference of p the cart keeps.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: ImageURL(p),
	}
}

// PlaceholderImage is shown for products without any picture.
const PlaceholderImage = "/placeholder-product.jpg"

type image struct {
	name string
	file string
}

// images lists the bundled product pictures. A name comes before every
// shorter name it contains so partial matches find the most specific one.
var images = []image{
	{"samsung galaxy s24 ultra", "/telefon_samsung_galaxy_s24_ultra_5g_titanium_black_01_0b110de8.avif"},
	{"samsung galaxy watch 6 classic", "/galaxy watch 6 classic.png"},
	{"samsung galaxy tab s9 ultra", "/galaxy tab s9 ultra.jpg"},
	{"samsung 45w super fast charger", "/samsung super fast charger.webp"},
	{"xiaomi redmi note 13 pro+", "/xiaomi redmi note 13 pro+.jpg"},
	{"samsung galaxy buds2 pro", "/galaxy vuds 2 pro.jpg"},
	{"samsung galaxy z fold5", "/samsung galaxy Z fold5.webp"},
	{"samsung galaxy s24+", "/telefon_samsung_galaxy_s24_plus_cobalt_violet_01_1762ecd2.avif"},
	{"iphone 15 pro max", "/apple_iphone_15_pro_max_black_1_7416a980.webp"},
	{"xiaomi 120w hypercharge", "/xiaomi hypercharge.avif"},
	{"apple watch ultra 2", "/apple watch ultra 2.avif"},
	{"samsung galaxy s24", "/telefon_samsung_galaxy_s24+_5g_onyx_black_01_e743bbe1.avif"},
	{"ipad pro 12.9\" m4", "/ipad pro 12.9 m4.png"},
	{"google pixel 8 pro", "/google pixel 8 pro.webp"},
	{"xiaomi 14 ultra", "/xiaomi 14 ultra.webp"},
	{"magsafe charger", "/magsafe charger.webp"},
	{"iphone 15 pro", "/apple_iphone_15_pro_blue_1_38e3a2b7.avif"},
	{"google pixel 8", "/google pixel 8.avif"},
	{"airpods pro 2", "/airpods pro 2.webp"},
	{"oneplus 12r", "/oneplus12r.avif"},
	{"oneplus 12", "/oneplus 12.avif"},
	{"iphone 15", "/apple_iphone_15_pink_1_b6e24474.avif"},
	{"xiaomi 14", "/xiaomi14.webp"},
}

// ImageURL picks the bundled picture of p by name, exact match first, then
// partial, falling back to the picture the catalog knows.
func ImageURL(p Product) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))

	for _, img := range images {
		if img.name == name {
			return img.file
		}
	}

	if name != "" {
		for _, img := range images {
			if strings.Contains(name, img.name) || strings.Contains(img.name, name) {
				return img.file
			}
		}
	}

	if p.ImageURL != "" {
		return p.ImageURL
	}
	return PlaceholderImage
}
