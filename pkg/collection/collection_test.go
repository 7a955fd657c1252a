package collection_test

import (
	"reflect"
	"testing"

	"github.com/rishavanand/bazario/pkg/collection"
)

func TestMapAndFilter(t *testing.T) {
	prices := []float64{19.99, 25.50, 0}

	cents := collection.Map(prices, func(p float64) int64 { return int64(p * 100) })
	if !reflect.DeepEqual(cents, []int64{1999, 2550, 0}) {
		t.Errorf("Map = %v", cents)
	}

	nonZero := collection.Filter(prices, func(p float64) bool { return p > 0 })
	if len(nonZero) != 2 {
		t.Errorf("Filter kept %d items", len(nonZero))
	}
}

func TestFirstAndContains(t *testing.T) {
	statuses := []string{"Not Processed", "Shipped", "Delivered"}

	got, ok := collection.First(statuses, func(s string) bool { return s == "Shipped" })
	if !ok || got != "Shipped" {
		t.Errorf("First = %q, %v", got, ok)
	}

	if _, ok := collection.First(statuses, func(s string) bool { return s == "Returned" }); ok {
		t.Error("First found a missing element")
	}
	if !collection.Contains(statuses, func(s string) bool { return s == "Delivered" }) {
		t.Error("Contains missed an element")
	}
}

func TestGroupByAndKeyBy(t *testing.T) {
	type order struct {
		ID     string
		Status string
	}
	orders := []order{
		{"a", "Shipped"}, {"b", "Shipped"}, {"c", "Cancelled"},
	}

	grouped := collection.GroupBy(orders, func(o order) string { return o.Status })
	if len(grouped["Shipped"]) != 2 || len(grouped["Cancelled"]) != 1 {
		t.Errorf("GroupBy = %v", grouped)
	}

	keyed := collection.KeyBy(orders, func(o order) string { return o.ID })
	if keyed["c"].Status != "Cancelled" {
		t.Errorf("KeyBy = %v", keyed)
	}
}

func TestUnique(t *testing.T) {
	got := collection.Unique([]string{"books", "music", "books", "books"})
	if !reflect.DeepEqual(got, []string{"books", "music"}) {
		t.Errorf("Unique = %v", got)
	}
}

func TestChunk(t *testing.T) {
	chunks := collection.Chunk([]int{1, 2, 3, 4, 5}, 2)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		t.Errorf("Chunk = %v", chunks)
	}
}

func TestReduceAndSum(t *testing.T) {
	type item struct{ Cents int64 }
	items := []item{{1999}, {2550}}

	total := collection.Sum(items, func(i item) int64 { return i.Cents })
	if total != 4549 {
		t.Errorf("Sum = %d", total)
	}

	joined := collection.Reduce([]string{"a", "b", "c"}, "", func(carry, s string) string {
		return carry + s
	})
	if joined != "abc" {
		t.Errorf("Reduce = %q", joined)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	if got := collection.Paginate(items, 2, 3); !reflect.DeepEqual(got, []int{4, 5, 6}) {
		t.Errorf("page 2 = %v", got)
	}
	if got := collection.Paginate(items, 3, 3); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("page 3 = %v", got)
	}
	if got := collection.Paginate(items, 4, 3); len(got) != 0 {
		t.Errorf("page past end = %v", got)
	}
}
