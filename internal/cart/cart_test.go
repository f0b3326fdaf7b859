package cart_test

import (
	"testing"

	"github.com/ceylonhub/storefront/internal/cart"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func itemA() models.CartItem {
	return models.CartItem{ProductID: "prod-a", Name: "Pro License", UnitPrice: 10.00}
}

func itemB() models.CartItem {
	return models.CartItem{ProductID: "prod-b", Name: "Starter Key", UnitPrice: 5.00}
}

func TestAddItem(t *testing.T) {

	t.Run("Success - New product gets quantity 1", func(t *testing.T) {
		// Arrange
		c := cart.New()

		// Act
		c.AddItem(itemA())

		// Assert
		items := c.Items()
		assert.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, 1, c.ItemCount())
		assert.Equal(t, 10.00, c.Total())
	})

	t.Run("Success - Repeated adds accumulate into one line", func(t *testing.T) {
		c := cart.New()

		c.AddItem(itemA())
		c.AddItem(itemA())
		c.AddItem(itemA())

		items := c.Items()
		assert.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, 3, c.ItemCount())
		assert.Equal(t, 30.00, c.Total())
	})

	t.Run("Success - Incoming quantity field is ignored", func(t *testing.T) {
		c := cart.New()
		item := itemA()
		item.Quantity = 99

		c.AddItem(item)

		assert.Equal(t, 1, c.ItemCount())
	})

	t.Run("Success - Insertion order preserved", func(t *testing.T) {
		c := cart.New()

		c.AddItem(itemA())
		c.AddItem(itemB())
		c.AddItem(itemA())

		items := c.Items()
		assert.Len(t, items, 2)
		assert.Equal(t, "prod-a", items[0].ProductID)
		assert.Equal(t, "prod-b", items[1].ProductID)
	})
}

func TestUpdateQuantity(t *testing.T) {

	t.Run("Success - Set explicit quantity", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())

		c.UpdateQuantity("prod-a", 5)

		assert.Equal(t, 5, c.ItemCount())
		assert.Equal(t, 50.00, c.Total())
	})

	t.Run("Success - Zero removes the line", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())

		c.UpdateQuantity("prod-a", 0)

		assert.Empty(t, c.Items())
		assert.Equal(t, 0, c.ItemCount())
		assert.Equal(t, 0.00, c.Total())
	})

	t.Run("Success - Negative also removes the line", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())

		c.UpdateQuantity("prod-a", -3)

		assert.Empty(t, c.Items())
	})

	t.Run("Success - Unknown product is a no-op", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())
		c.AddItem(itemB())
		before := c.Items()

		c.UpdateQuantity("prod-missing", 4)

		assert.Equal(t, before, c.Items())
	})
}

func TestRemoveItem(t *testing.T) {

	t.Run("Success - Removes the line and keeps order", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())
		c.AddItem(itemA())
		c.AddItem(itemB())

		c.RemoveItem("prod-b")

		items := c.Items()
		assert.Len(t, items, 1)
		assert.Equal(t, "prod-a", items[0].ProductID)
		assert.Equal(t, 2, c.ItemCount())
		assert.Equal(t, 20.00, c.Total())
	})

	t.Run("Success - Unknown product is a no-op", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())
		before := c.Items()

		c.RemoveItem("prod-missing")

		assert.Equal(t, before, c.Items())
	})

	t.Run("Success - Middle removal reindexes later lines", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())
		c.AddItem(itemB())
		c.AddItem(models.CartItem{ProductID: "prod-c", Name: "Bundle", UnitPrice: 2.50})

		c.RemoveItem("prod-b")
		c.UpdateQuantity("prod-c", 4)

		items := c.Items()
		assert.Len(t, items, 2)
		assert.Equal(t, "prod-c", items[1].ProductID)
		assert.Equal(t, 4, items[1].Quantity)
	})
}

func TestClear(t *testing.T) {

	t.Run("Success - Always yields an empty cart", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemA())
		c.AddItem(itemB())

		c.Clear()

		assert.Empty(t, c.Items())
		assert.Equal(t, 0, c.ItemCount())
		assert.Equal(t, 0.00, c.Total())

		// cart stays usable afterwards
		c.AddItem(itemA())
		assert.Equal(t, 1, c.ItemCount())
	})
}

func TestAggregates(t *testing.T) {

	t.Run("Success - Worked scenario", func(t *testing.T) {
		// {A: qty 2 @ 10.00, B: qty 1 @ 5.00}
		c := cart.New()
		c.AddItem(itemA())
		c.AddItem(itemA())
		c.AddItem(itemB())

		assert.Equal(t, 25.00, c.Total())
		assert.Equal(t, 3, c.ItemCount())

		c.RemoveItem("prod-b")

		assert.Equal(t, 20.00, c.Total())
		assert.Equal(t, 2, c.ItemCount())
	})
}

func TestRestore(t *testing.T) {

	t.Run("Success - Duplicates collapse and quantities clamp", func(t *testing.T) {
		c := cart.New()
		c.AddItem(itemB())

		c.Restore([]models.CartItem{
			{ProductID: "prod-a", Name: "Pro License", UnitPrice: 10.00, Quantity: 2},
			{ProductID: "prod-a", Name: "Pro License", UnitPrice: 10.00, Quantity: 1},
			{ProductID: "prod-c", Name: "Bundle", UnitPrice: 2.50, Quantity: 0},
		})

		items := c.Items()
		assert.Len(t, items, 2)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, 1, items[1].Quantity)
		assert.Equal(t, 32.50, c.Total())
	})
}

func TestSubscribe(t *testing.T) {

	t.Run("Success - Notified synchronously on every mutation", func(t *testing.T) {
		c := cart.New()

		var calls int
		var last []models.CartItem
		c.Subscribe(func(items []models.CartItem) {
			calls++
			last = items
		})

		c.AddItem(itemA())
		c.UpdateQuantity("prod-a", 2)
		c.RemoveItem("prod-a")
		c.Clear()

		assert.Equal(t, 4, calls)
		assert.Empty(t, last)
	})

	t.Run("Success - No-op mutations do not notify", func(t *testing.T) {
		c := cart.New()

		var calls int
		c.Subscribe(func([]models.CartItem) { calls++ })

		c.UpdateQuantity("prod-missing", 4)
		c.RemoveItem("prod-missing")

		assert.Equal(t, 0, calls)
	})

	t.Run("Success - Subscriber can read the cart", func(t *testing.T) {
		c := cart.New()

		var total float64
		c.Subscribe(func([]models.CartItem) { total = c.Total() })

		c.AddItem(itemA())

		assert.Equal(t, 10.00, total)
	})
}
