package imageref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAt(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	got := NormalizeAt("https://acme.vtexassets.com/arquivos/ids/155242/look.jpg", 800, now)
	require.Equal(t,
		"https://acme.vtexassets.com/arquivos/ids/155242-800-auto?v=202503140000&width=800&height=auto&aspect=true",
		got)
}

func TestNormalizeAtSameDayIsDeterministic(t *testing.T) {
	morning := time.Date(2025, 3, 14, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)

	url := "https://acme.vtexassets.com/arquivos/ids/99/photo.png"
	require.Equal(t, NormalizeAt(url, 400, morning), NormalizeAt(url, 400, evening))
}

func TestNormalizeAtDifferentDaysDifferOnlyInToken(t *testing.T) {
	url := "https://acme.vtexassets.com/arquivos/ids/99/photo.png"

	day1 := NormalizeAt(url, 400, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))
	day2 := NormalizeAt(url, 400, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))

	require.NotEqual(t, day1, day2)
	require.Contains(t, day1, "v=202503140000")
	require.Contains(t, day2, "v=202503150000")
}

func TestNormalizeFailsSoft(t *testing.T) {
	cases := []string{
		"https://acme.vtexassets.com/arquivos/other/155242.jpg", // no /ids/ segment
		"not a url at all",
		"/relative/path/ids/123",
		"",
	}
	for _, raw := range cases {
		require.Equal(t, raw, Normalize(raw, 800))
	}
}
