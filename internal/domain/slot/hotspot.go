package slot

import log "github.com/sirupsen/logrus"

// Device is the device class a hotspot can be shown on.
type Device int

const (
	DeviceDesktop Device = iota
	DeviceMobile
)

// ProductRef links a hotspot to a product. SkuID is optional; zero means
// the first available SKU is picked when the variation loads.
type ProductRef struct {
	ProductID int `json:"productId" mapstructure:"product_id"`
	SkuID     int `json:"skuId" mapstructure:"sku_id"`
}

// Hotspot is a coordinate-anchored marker over an image, linked to one
// product. X and Y are percentages of the image dimensions. Visibility
// flags are tri-state: nil means visible.
type Hotspot struct {
	Product       ProductRef `json:"product" mapstructure:"product"`
	X             float64    `json:"x" mapstructure:"x"`
	Y             float64    `json:"y" mapstructure:"y"`
	ShowOnDesktop *bool      `json:"showOnDesktop" mapstructure:"show_on_desktop"`
	ShowOnMobile  *bool      `json:"showOnMobile" mapstructure:"show_on_mobile"`
}

// ClampedX returns X forced into [0,100]. Out-of-range coordinates are
// clamped at render time, never rejected at input time.
func (h Hotspot) ClampedX() float64 {
	return clamp(h.X)
}

// ClampedY returns Y forced into [0,100].
func (h Hotspot) ClampedY() float64 {
	return clamp(h.Y)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// VisibleOn reports whether the hotspot should render on the given device
// class. Both flags default to visible when unset.
func (h Hotspot) VisibleOn(device Device) bool {
	switch device {
	case DeviceMobile:
		return h.ShowOnMobile == nil || *h.ShowOnMobile
	default:
		return h.ShowOnDesktop == nil || *h.ShowOnDesktop
	}
}

// FilterHotspots drops hotspots that do not reference a product. A marker
// without a product can never open a detail view, so it never renders.
func FilterHotspots(hotspots []Hotspot) []Hotspot {
	valid := make([]Hotspot, 0, len(hotspots))
	for _, h := range hotspots {
		if h.Product.ProductID <= 0 {
			log.Warnf("Dropping hotspot at (%.0f, %.0f) without a product id", h.X, h.Y)
			continue
		}
		valid = append(valid, h)
	}
	return valid
}
