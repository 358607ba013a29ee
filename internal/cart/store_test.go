package cart

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/catalog"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("ci_%d", n)
	})
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return NewStore(catalog.NewSeeded(), append([]Option{sequentialIDs()}, opts...)...)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddMergesByProduct(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add("1", 2)
	require.NoError(t, err)
	second, err := s.Add("1", 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, "1", second.Product.ID)

	c, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Count)
	assert.Equal(t, 5, s.Count())
}

func TestAddKeepsFirstInsertionOrder(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"3", "1", "3", "2"} {
		_, err := s.Add(id, 1)
		require.NoError(t, err)
	}

	c, err := s.Snapshot()
	require.NoError(t, err)
	var order []string
	for _, l := range c.Items {
		order = append(order, l.ProductID)
	}
	assert.Equal(t, []string{"3", "1", "2"}, order)
}

func TestSnapshotTotals(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("1", 2)
	require.NoError(t, err)
	_, err = s.Add("3", 1)
	require.NoError(t, err)

	c, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count)
	assert.True(t, c.Total.Equal(dec("1599.97")), "total=%s", c.Total)
}

func TestScenarioAddAddRemove(t *testing.T) {
	s := newTestStore(t)

	line, err := s.Add("1", 1)
	require.NoError(t, err)
	c, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count)
	assert.True(t, c.Total.Equal(dec("699.99")))

	_, err = s.Add("1", 2)
	require.NoError(t, err)
	c, err = s.Snapshot()
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(dec("2099.97")))

	assert.True(t, s.Remove(line.ID))
	c, err = s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Count)
	assert.True(t, c.Total.IsZero())
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	keep, err := s.Add("2", 1)
	require.NoError(t, err)
	gone, err := s.Add("4", 1)
	require.NoError(t, err)

	assert.True(t, s.Remove(gone.ID))
	assert.True(t, s.Remove(gone.ID))
	assert.True(t, s.Remove("ci_never"))

	c, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, keep.ID, c.Items[0].ID)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	assert.True(t, s.Clear())

	_, err := s.Add("5", 4)
	require.NoError(t, err)
	assert.True(t, s.Clear())

	c, err := s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Count)
	assert.True(t, c.Total.IsZero())
}

func TestAddFailuresLeaveCartUnchanged(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("2", 1)
	require.NoError(t, err)
	before, err := s.Snapshot()
	require.NoError(t, err)

	_, err = s.Add("does-not-exist", 1)
	require.ErrorIs(t, err, ErrNotFound)
	var pnf *ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, "does-not-exist", pnf.ProductID)

	for _, q := range []int{0, -1} {
		_, err = s.Add("1", q)
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.NotErrorIs(t, err, ErrNotFound)
	}

	_, err = s.Add("does-not-exist", 0)
	require.ErrorIs(t, err, ErrInvalidArgument, "quantity is checked first")

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAddRejectsOverflow(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("1", math.MaxInt32)
	require.NoError(t, err)

	_, err = s.Add("1", 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, math.MaxInt32, s.Count())
}

type mapLookup map[string]catalog.Product

func (m mapLookup) Get(id string) (catalog.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func TestSnapshotReportsDanglingItem(t *testing.T) {
	products := mapLookup{"x": {ID: "x", Price: dec("1.50")}}
	s := NewStore(products, sequentialIDs())

	line, err := s.Add("x", 2)
	require.NoError(t, err)

	delete(products, "x")

	_, err = s.Snapshot()
	require.ErrorIs(t, err, ErrInvariant)
	var dangling *DanglingItemError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, line.ID, dangling.ItemID)

	_, err = s.Checkout()
	require.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, 2, s.Count(), "failed checkout keeps the cart")
}

func TestSnapshotUsesCurrentPrices(t *testing.T) {
	products := mapLookup{"x": {ID: "x", Price: dec("1.00")}}
	s := NewStore(products, sequentialIDs())

	_, err := s.Add("x", 3)
	require.NoError(t, err)

	products["x"] = catalog.Product{ID: "x", Price: dec("2.00")}

	c, err := s.Snapshot()
	require.NoError(t, err)
	assert.True(t, c.Total.Equal(dec("6.00")))
}

func TestCheckout(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Checkout()
	require.ErrorIs(t, err, ErrEmptyCart)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Add("1", 2)
	require.NoError(t, err)
	_, err = s.Add("3", 1)
	require.NoError(t, err)

	c, err := s.Checkout()
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Count)
	assert.True(t, c.Total.Equal(dec("1599.97")))

	assert.Equal(t, 0, s.Count())
}

func TestResolveProduct(t *testing.T) {
	s := newTestStore(t)

	p, err := s.ResolveProduct(Item{ID: "ci_1", ProductID: "6", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "6", p.ID)

	_, err = s.ResolveProduct(Item{ID: "ci_2", ProductID: "gone", Quantity: 1})
	require.ErrorIs(t, err, ErrInvariant)
}

func TestConcurrentAddsMerge(t *testing.T) {
	s := NewStore(catalog.NewSeeded())

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := s.Add("1", 1); err != nil {
					t.Errorf("add: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	c, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, workers*perWorker, c.Count)
}

func TestMetricsRecordOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	s := newTestStore(t, WithMetrics(m))

	_, _ = s.Add("1", 1)
	_, _ = s.Add("nope", 1)
	_, _ = s.Add("1", 0)
	s.Remove("ci_1")
	_, _ = s.Checkout()

	assert.Equal(t, 1.0, counterValue(t, m.mutations.WithLabelValues(opAdd, "ok")))
	assert.Equal(t, 1.0, counterValue(t, m.mutations.WithLabelValues(opAdd, "not_found")))
	assert.Equal(t, 1.0, counterValue(t, m.mutations.WithLabelValues(opAdd, "invalid_argument")))
	assert.Equal(t, 1.0, counterValue(t, m.mutations.WithLabelValues(opRemove, "ok")))
	assert.Equal(t, 1.0, counterValue(t, m.mutations.WithLabelValues(opCheckout, "invalid_argument")))
	assert.Equal(t, 0.0, counterValue(t, m.checkouts))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}
