package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheaper(t *testing.T) {
	got := Names(Cheaper(Tacos(), 6))
	if diff := cmp.Diff([]string{"Cheese", "Pastor"}, got); diff != "" {
		t.Errorf("Cheaper() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, Cheaper(Tacos(), 4))
	assert.Len(t, Cheaper(Tacos(), 100), 4)
}

func TestSpicy(t *testing.T) {
	assert.Equal(t, []string{"Cheese", "Pastor"}, Names(Spicy(Tacos())))
}

func TestInflate(t *testing.T) {
	items := Tacos()
	got := Inflate(items, 4)

	want := []Item{
		{Name: "Cheese", Price: 8, Spicy: true},
		{Name: "Pastor", Price: 9, Spicy: true},
		{Name: "Beef", Price: 11},
		{Name: "Fish", Price: 13},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inflate() mismatch (-want +got):\n%s", diff)
	}

	// The input keeps its prices.
	assert.Equal(t, Tacos(), items)
}

func TestSpanisho(t *testing.T) {
	items := Tacos()
	got := Spanisho(items)

	assert.Equal(t, []string{"Cheeseo", "Pastoro", "Beefo", "Fisho"}, Names(got))
	assert.Equal(t, "Cheese", items[0].Name)
}

func TestTotals(t *testing.T) {
	assert.Equal(t, 25, TotalPrice(Tacos()))
	assert.Equal(t, 0, TotalPrice(nil))
	assert.Equal(t, 36, SumAmounts(DemoAmounts))
}

func TestTacosReturnsFreshSlice(t *testing.T) {
	a := Tacos()
	a[0].Name = "Changed"
	assert.Equal(t, "Cheese", Tacos()[0].Name)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid menu", func(t *testing.T) {
		path := filepath.Join(dir, "menu.yml")
		content := `items:
  - name: Al Pastor
    price: 5
    spicy: true
  - name: Carnitas
    price: 6
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		items, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []Item{
			{Name: "Al Pastor", Price: 5, Spicy: true},
			{Name: "Carnitas", Price: 6},
		}, items)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read menu")
	})

	t.Run("empty menu", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yml")
		require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "has no items")
	})

	t.Run("invalid item", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("items:\n  - name: Free\n    price: -1\n"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "price must be >= 0")
	})
}
