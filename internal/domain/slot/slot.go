package slot

import "strconv"

// Key addresses one position in a bundle. Fixed-list and hotspot slots are
// keyed by product id, collection slots by declaration index.
type Key string

func ProductKey(productID int) Key {
	return Key("product:" + strconv.Itoa(productID))
}

func IndexKey(index int) Key {
	return Key("slot:" + strconv.Itoa(index))
}
