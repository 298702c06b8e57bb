package slot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestHotspotClamping(t *testing.T) {
	h := Hotspot{Product: ProductRef{ProductID: 1}, X: -12.5, Y: 140}
	require.Equal(t, 0.0, h.ClampedX())
	require.Equal(t, 100.0, h.ClampedY())

	h = Hotspot{Product: ProductRef{ProductID: 1}, X: 24, Y: 57}
	require.Equal(t, 24.0, h.ClampedX())
	require.Equal(t, 57.0, h.ClampedY())
}

func TestHotspotVisibilityDefaultsToVisible(t *testing.T) {
	h := Hotspot{Product: ProductRef{ProductID: 1}}
	require.True(t, h.VisibleOn(DeviceDesktop))
	require.True(t, h.VisibleOn(DeviceMobile))
}

func TestHotspotVisibilityPerDevice(t *testing.T) {
	h := Hotspot{
		Product:       ProductRef{ProductID: 1},
		ShowOnDesktop: boolPtr(false),
		ShowOnMobile:  boolPtr(true),
	}
	require.False(t, h.VisibleOn(DeviceDesktop))
	require.True(t, h.VisibleOn(DeviceMobile))
}

func TestFilterHotspotsDropsMissingProduct(t *testing.T) {
	hotspots := []Hotspot{
		{Product: ProductRef{ProductID: 10}, X: 10, Y: 51},
		{X: 24, Y: 57}, // no product
		{Product: ProductRef{ProductID: 0}, X: 30, Y: 50},
		{Product: ProductRef{ProductID: 20}, X: 75, Y: 50},
	}

	valid := FilterHotspots(hotspots)
	require.Len(t, valid, 2)
	require.Equal(t, 10, valid[0].Product.ProductID)
	require.Equal(t, 20, valid[1].Product.ProductID)
}
