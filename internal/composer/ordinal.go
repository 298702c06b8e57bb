package composer

import "fmt"

var ordinals = []string{"primer", "segundo", "tercer", "cuarto", "quinto", "sexto"}

// OrdinalLabel returns the storefront copy for a collection slot prompt
// ("Selecciona tu primer producto"). Positions beyond the known words fall
// back to a numeric form.
func OrdinalLabel(index int) string {
	if index >= 0 && index < len(ordinals) {
		return ordinals[index]
	}
	return fmt.Sprintf("%dº", index+1)
}
