package models

import "time"

// Variant is one purchasable color/style of a product design. All variants
// sharing a ParentCode form one variant group.
type Variant struct {
	SubCode        string  `json:"sub_code"`
	ParentCode     string  `json:"parent_code"`
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	ColorName      string  `json:"color_name"`
	ColorHex       string  `json:"color_hex"`
	BasePrice      float64 `json:"base_price"`
	DiscountPrice  float64 `json:"discount_price"`
	DiscountActive bool    `json:"discount_active"`
	IsNew          bool    `json:"is_new"`
	MainImageURL   string  `json:"main_image_url"`
	Description    string  `json:"description"`
}

// DisplayPrice is the price a shopper pays right now. DiscountPrice is only
// meaningful while the discount is active.
func (v Variant) DisplayPrice() float64 {
	if v.DiscountActive {
		return v.DiscountPrice
	}
	return v.BasePrice
}

// InventoryRecord maps one (variant, size) pair to its SKU and stock count.
// At most one record exists per pair.
type InventoryRecord struct {
	SubCode  string `json:"sub_code"`
	Size     string `json:"size"`
	SKUID    string `json:"sku_id"`
	StockQty int    `json:"stock_qty"`
}

// CartLine is one purchasable row in the cart. Price and MaxQty are snapshots
// taken at add-time and never re-derived from the live catalog.
type CartLine struct {
	SKU         string  `json:"sku"`
	ParentCode  string  `json:"parent_code"`
	ProductName string  `json:"product_name"`
	Image       string  `json:"image"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
	MaxQty      int     `json:"maxQty"`
	Qty         int     `json:"qty"`
}

// Zone is one row of the delivery fee table.
type Zone struct {
	Region       string  `json:"Region"`
	TownCity     string  `json:"Town_City"`
	AreaLocality string  `json:"Area_Locality"`
	Price        float64 `json:"Delivery_Price"`
}

// User is the minimal shopper profile persisted between reloads.
type User struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// StoreConfig is the key/value configuration block served by the commerce API.
type StoreConfig map[string]string

// ConfigKeyPaystackPublicKey holds the publishable payment key. Checkout
// cannot proceed without it.
const ConfigKeyPaystackPublicKey = "PAYSTACK_PUBLIC_KEY"

// PublicKey returns the publishable payment key, or "" when unconfigured.
func (c StoreConfig) PublicKey() string {
	return c[ConfigKeyPaystackPublicKey]
}

// StoreData is everything the commerce API returns for one storefront load.
type StoreData struct {
	Products  []Variant         `json:"products"`
	Inventory []InventoryRecord `json:"inventory"`
	Config    StoreConfig       `json:"config"`
	Locations []Zone            `json:"locations"`
}

// Delivery methods
const (
	DeliveryMethodPickup   = "pickup"
	DeliveryMethodDelivery = "delivery"
)

// PickupAddress is the address sentinel submitted for store pickup orders.
const PickupAddress = "Store Pickup"

// OrderItem is one itemized line of a submitted order.
type OrderItem struct {
	SKUID    string  `json:"sku_id"`
	ItemName string  `json:"item_name"`
	Size     string  `json:"size"`
	Qty      int     `json:"qty"`
	Price    float64 `json:"price"`
}

// OrderPayload is the processOrder request body.
type OrderPayload struct {
	StoreName        string      `json:"storeName"`
	CustomerName     string      `json:"customerName"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	Location         string      `json:"location"`
	DeliveryMethod   string      `json:"deliveryMethod"`
	PaymentMethod    string      `json:"paymentMethod"`
	GrandTotal       float64     `json:"grandTotal"`
	Items            []OrderItem `json:"items"`
	PaymentReference string      `json:"paymentReference"`
}

// Receipt is the local read model of a completed order, kept for the
// shopper's order history. The commerce API stays the system of record.
type Receipt struct {
	ID             int64     `db:"id" json:"id"`
	Reference      string    `db:"reference" json:"reference"`
	Email          string    `db:"email" json:"email"`
	CustomerName   string    `db:"customer_name" json:"customer_name"`
	Total          float64   `db:"total" json:"total"`
	DeliveryMethod string    `db:"delivery_method" json:"delivery_method"`
	Items          string    `db:"items" json:"items"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
