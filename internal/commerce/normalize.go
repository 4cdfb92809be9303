package commerce

import (
	"encoding/json"
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// The spreadsheet-backed endpoint is loose about scalar types: prices and
// stock counts may arrive as numbers or strings, booleans as true/false or
// "TRUE"/"FALSE". Raw mirror types absorb that here so the rest of the
// service only ever sees normalized models.

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

type flexBool bool

func (fb *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*fb = flexBool(strings.EqualFold(s, "true"))
	return nil
}

type rawVariant struct {
	SubCode        string    `json:"sub_code"`
	ParentCode     string    `json:"parent_code"`
	ProductName    string    `json:"product_name"`
	Category       string    `json:"category"`
	ColorName      string    `json:"color_name"`
	ColorHex       string    `json:"color_hex"`
	BasePrice      flexFloat `json:"base_price"`
	DiscountPrice  flexFloat `json:"discount_price"`
	DiscountActive flexBool  `json:"discount_active"`
	IsNew          flexBool  `json:"is_new"`
	MainImageURL   string    `json:"main_image_url"`
	Description    string    `json:"description"`
}

type rawInventory struct {
	SubCode  string  `json:"sub_code"`
	Size     string  `json:"size"`
	SKUID    string  `json:"sku_id"`
	StockQty flexInt `json:"stock_qty"`
}

type rawZone struct {
	Region       string    `json:"Region"`
	TownCity     string    `json:"Town_City"`
	AreaLocality string    `json:"Area_Locality"`
	Price        flexFloat `json:"Delivery_Price"`
}

type rawStoreData struct {
	Products  []rawVariant    `json:"products"`
	Inventory []rawInventory  `json:"inventory"`
	Config    json.RawMessage `json:"config"`
	Locations []rawZone       `json:"locations"`
}

func (r *rawStoreData) normalize() *models.StoreData {
	data := &models.StoreData{
		Products:  make([]models.Variant, 0, len(r.Products)),
		Inventory: make([]models.InventoryRecord, 0, len(r.Inventory)),
		Config:    models.StoreConfig{},
		Locations: make([]models.Zone, 0, len(r.Locations)),
	}

	for _, p := range r.Products {
		data.Products = append(data.Products, models.Variant{
			SubCode:        p.SubCode,
			ParentCode:     p.ParentCode,
			ProductName:    p.ProductName,
			Category:       p.Category,
			ColorName:      p.ColorName,
			ColorHex:       p.ColorHex,
			BasePrice:      float64(p.BasePrice),
			DiscountPrice:  float64(p.DiscountPrice),
			DiscountActive: bool(p.DiscountActive),
			IsNew:          bool(p.IsNew),
			MainImageURL:   p.MainImageURL,
			Description:    p.Description,
		})
	}

	for _, i := range r.Inventory {
		data.Inventory = append(data.Inventory, models.InventoryRecord{
			SubCode:  i.SubCode,
			Size:     i.Size,
			SKUID:    i.SKUID,
			StockQty: int(i.StockQty),
		})
	}

	// config values may be numbers in the sheet; stringify everything
	if len(r.Config) > 0 {
		var rawCfg map[string]any
		if err := json.Unmarshal(r.Config, &rawCfg); err == nil {
			for k, v := range rawCfg {
				switch t := v.(type) {
				case string:
					data.Config[k] = t
				case float64:
					data.Config[k] = strconv.FormatFloat(t, 'f', -1, 64)
				case bool:
					data.Config[k] = strconv.FormatBool(t)
				}
			}
		}
	}

	for _, z := range r.Locations {
		data.Locations = append(data.Locations, models.Zone{
			Region:       z.Region,
			TownCity:     z.TownCity,
			AreaLocality: z.AreaLocality,
			Price:        float64(z.Price),
		})
	}

	return data
}
