package cart

import (
	"reflect"
	"testing"

	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

func TestAddInsertsAndIncrements(t *testing.T) {
	c := New(nil)
	c.Add("Cube")
	c.Add("Sphere")
	c.Add("Cube")

	want := map[string]int{"Cube": 2, "Sphere": 1}
	if !reflect.DeepEqual(c.Items(), want) {
		t.Fatalf("expected %v, got %v", want, c.Items())
	}
	if c.Total() != 3 {
		t.Fatalf("expected total 3, got %d", c.Total())
	}
	if c.Quantity("Cube") != 2 || c.Quantity("Pyramid") != 0 {
		t.Fatalf("unexpected quantities: cube=%d pyramid=%d", c.Quantity("Cube"), c.Quantity("Pyramid"))
	}

	wantLines := []Line{{Name: "Cube", Quantity: 2}, {Name: "Sphere", Quantity: 1}}
	if !reflect.DeepEqual(c.Lines(), wantLines) {
		t.Fatalf("expected %v, got %v", wantLines, c.Lines())
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New(nil)
	c.Add("Cube")

	items := c.Items()
	items["Cube"] = 99
	items["Ghost"] = 1

	if c.Quantity("Cube") != 1 || c.Quantity("Ghost") != 0 {
		t.Fatalf("external mutation leaked into cart: %v", c.Items())
	}
}

func TestAddPublishesSnapshot(t *testing.T) {
	b := bus.New(bus.Options{})
	var updates []signals.CartUpdate
	bus.Listen(b, signals.CartUpdated, func(u signals.CartUpdate) { updates = append(updates, u) })

	c := New(b)
	c.Add("Cube")
	c.Add("Cube")

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	first := updates[0]
	if first.Added != "Cube" || first.Total != 1 || first.Items["Cube"] != 1 {
		t.Fatalf("unexpected first update: %#v", first)
	}
	if updates[1].Items["Cube"] != 2 {
		t.Fatalf("expected second snapshot to hold 2 cubes, got %v", updates[1].Items)
	}
	if first.Items["Cube"] != 1 {
		t.Fatalf("earlier snapshot changed after a later add: %v", first.Items)
	}
}

func TestTotalMatchesNumberOfAdds(t *testing.T) {
	names := []string{"a", "b", "a", "c", "a", "b"}
	c := New(nil)
	previous := map[string]int{}
	for i, name := range names {
		c.Add(name)
		if c.Total() != i+1 {
			t.Fatalf("after %d adds expected total %d, got %d", i+1, i+1, c.Total())
		}
		for key, qty := range previous {
			if c.Quantity(key) < qty {
				t.Fatalf("quantity of %s decreased from %d to %d", key, qty, c.Quantity(key))
			}
		}
		previous = c.Items()
	}
}
