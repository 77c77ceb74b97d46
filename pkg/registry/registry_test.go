package registry

import (
	"reflect"
	"strings"
	"sync"
	"testing"
)

type Brand struct {
	Name string `po:"name,varchar(64),primaryKey"`
}

func (Brand) TableName() string { return "brands" }

type Product struct {
	Code  string `po:"code,varchar(64),primaryKey"`
	Brand string `po:"brand,varchar(64),fk(brands.name)"`
}

func (Product) TableName() string { return "products" }

type OtherProduct struct {
	Code string `po:"code,primaryKey"`
}

func (OtherProduct) TableName() string { return "products" }

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	t.Run("register new model", func(t *testing.T) {
		if err := registry.Register(Brand{}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if !registry.Has(reflect.TypeOf(Brand{})) {
			t.Error("expected model to be registered")
		}
	})

	t.Run("register duplicate model", func(t *testing.T) {
		if err := registry.Register(Brand{}); err != nil {
			t.Errorf("Duplicate register failed: %v", err)
		}
		if got := len(registry.All()); got != 1 {
			t.Errorf("expected 1 table, got %d", got)
		}
	})

	t.Run("register pointer model", func(t *testing.T) {
		if err := registry.Register(&Product{}); err != nil {
			t.Fatalf("Register with pointer failed: %v", err)
		}
		if !registry.Has(reflect.TypeOf(&Product{})) {
			t.Error("expected pointer lookup to find the model")
		}
	})

	t.Run("register table name twice", func(t *testing.T) {
		err := registry.Register(OtherProduct{})
		if err == nil || !strings.Contains(err.Error(), "already registered") {
			t.Errorf("expected name clash, got %v", err)
		}
	})

	t.Run("register non-struct", func(t *testing.T) {
		if err := registry.Register("brands"); err == nil {
			t.Error("expected error for non-struct model")
		}
	})
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Product{}); err != nil {
		t.Fatal(err)
	}

	table, err := registry.Get(reflect.TypeOf(Product{}))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if table.Name != "products" {
		t.Errorf("expected products, got %s", table.Name)
	}

	if _, err := registry.Get(reflect.TypeOf(Brand{})); err == nil {
		t.Error("expected error for unregistered model")
	}

	table, err = For[Product](registry)
	if err != nil || table.Name != "products" {
		t.Errorf("For[Product] = %v, %v", table, err)
	}
}

func TestRegistry_Order(t *testing.T) {
	registry := NewRegistry()
	for _, m := range []any{Product{}, Brand{}} {
		if err := registry.Register(m); err != nil {
			t.Fatal(err)
		}
	}

	if got := strings.Join(registry.AllNames(), ","); got != "products,brands" {
		t.Errorf("expected registration order, got %s", got)
	}
	all := registry.All()
	if all[0].Name != "products" || all[1].Name != "brands" {
		t.Errorf("All() out of order: %s, %s", all[0].Name, all[1].Name)
	}

	names := registry.AllNames()
	names[0] = "changed"
	if registry.AllNames()[0] != "products" {
		t.Error("AllNames must return a copy")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	registry := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := registry.Register(Brand{}); err != nil {
				t.Errorf("Register failed: %v", err)
			}
			_ = registry.All()
		}()
	}
	wg.Wait()

	if got := len(registry.AllNames()); got != 1 {
		t.Errorf("expected 1 table, got %d", got)
	}
}
