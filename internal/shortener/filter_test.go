package shortener_test

import (
	"testing"

	"github.com/snaplinkhq/snaplink/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestCodeFilter(t *testing.T) {
	t.Run("unknown code is definitely absent", func(t *testing.T) {
		filter := shortener.NewCodeFilter(1000, 0.01)

		assert.False(t, filter.MightContain("Abc12"))
	})

	t.Run("added code is reported present", func(t *testing.T) {
		filter := shortener.NewCodeFilter(1000, 0.01)

		filter.Add("Abc12")

		assert.True(t, filter.MightContain("Abc12"))
	})

	t.Run("matches regardless of case", func(t *testing.T) {
		filter := shortener.NewCodeFilter(1000, 0.01)

		filter.Add("MyBrand")

		assert.True(t, filter.MightContain("mybrand"))
		assert.True(t, filter.MightContain("MYBRAND"))
	})

	t.Run("seeded codes are reported present", func(t *testing.T) {
		filter := shortener.NewCodeFilter(1000, 0.01)

		filter.Seed([]string{"Aaaaa", "Jbbbb", "Rcccc"})

		assert.True(t, filter.MightContain("Aaaaa"))
		assert.True(t, filter.MightContain("Jbbbb"))
		assert.True(t, filter.MightContain("Rcccc"))
	})
}
