package domain

// SkuImage is one image record of a SKU detail. The platform marks the main
// product shots with an empty name; named images are auxiliary assets
// (swatches, size charts) that the detail carousel must not show.
type SkuImage struct {
	URL  string `json:"ImageUrl"`
	Name string `json:"ImageName"`
}

// SkuDetails carries the per-SKU image set used by the hotspot detail view.
type SkuDetails struct {
	ID     int        `json:"Id"`
	Images []SkuImage `json:"Images"`
}

// MainImages returns the images that belong in the detail carousel.
func (d SkuDetails) MainImages() []SkuImage {
	images := make([]SkuImage, 0, len(d.Images))
	for _, img := range d.Images {
		if img.Name == "" {
			images = append(images, img)
		}
	}
	return images
}
