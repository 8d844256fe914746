package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
	"StockBalancer/internal/portfolio"
	"StockBalancer/internal/pricing"
	"StockBalancer/internal/recorder"
)

type memRecorder struct {
	mu   sync.Mutex
	runs []recorder.Run
	err  error
}

func (m *memRecorder) RecordRun(run *recorder.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memRecorder) RecentRuns(int) ([]recorder.Run, error) { return m.runs, nil }
func (m *memRecorder) Close() error                          { return nil }

func twoStocks() []model.Stock {
	return []model.Stock{
		{Name: "A", Quantity: 10, PriceHistory: []float64{10}},
		{Name: "B", Quantity: 10, PriceHistory: []float64{10}},
	}
}

func newTestScheduler(t *testing.T, stocks []model.Stock, alloc allocation.Map) (*Scheduler, *MockSource, *MockNotifier, *memRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	n := NewMockNotifier(ctrl)
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), stocks, alloc, pricing.NewCollector(src, 2), n, rec, "USD")
	return s, src, n, rec
}

func TestWatchTask_RefreshesRebalancesNotifiesAndRecords(t *testing.T) {
	s, src, n, rec := newTestScheduler(t, twoStocks(), allocation.Map{"A": 0.5, "B": 0.5})

	src.EXPECT().Next("A", 10.0).Return(15.0, nil).Times(1)
	src.EXPECT().Next("B", 10.0).Return(5.0, nil).Times(1)

	var got *model.Report
	n.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *model.Report) error {
			got = r
			return nil
		}).
		Times(1)

	s.watchTask()

	require.NotNil(t, got)
	assert.Equal(t, model.TriggerScheduled, got.Trigger)
	assert.Equal(t, 200.0, got.TotalValue)
	assert.Equal(t, []model.RebalanceAction{
		{Stock: "A", Action: model.ActionSell, Quantity: 3},
		{Stock: "B", Action: model.ActionBuy, Quantity: 10},
	}, got.Actions)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, got.Actions, rec.runs[0].Actions)
	assert.NotEmpty(t, rec.runs[0].ID)

	stocks := s.Stocks()
	assert.Equal(t, []float64{10, 15}, stocks[0].PriceHistory)
	assert.Equal(t, []float64{10, 5}, stocks[1].PriceHistory)
}

func TestWatchTask_RefreshFailureKeepsLastPrice(t *testing.T) {
	s, src, n, rec := newTestScheduler(t, twoStocks(), allocation.Map{"A": 0.7, "B": 0.3})

	src.EXPECT().Next("A", 10.0).Return(0.0, errors.New("offline"))
	src.EXPECT().Name().Return("mock").AnyTimes()
	src.EXPECT().Next("B", 10.0).Return(10.0, nil)
	n.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("telegram down"))

	s.watchTask()

	require.Len(t, rec.runs, 1)
	assert.Equal(t, []model.RebalanceAction{
		{Stock: "A", Action: model.ActionBuy, Quantity: 4},
		{Stock: "B", Action: model.ActionSell, Quantity: 4},
	}, rec.runs[0].Actions)
	assert.Equal(t, []float64{10}, s.Stocks()[0].PriceHistory)
}

func TestRunNow_DoesNotRefresh(t *testing.T) {
	s, _, n, rec := newTestScheduler(t, twoStocks(), allocation.Map{"A": 0.7, "B": 0.3})
	rec.err = errors.New("disk full")
	n.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	r, err := s.RunNow(model.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, model.TriggerManual, r.Trigger)
	assert.Equal(t, model.ActionBuy, r.Actions[0].Action)
}

func TestRunNow_ZeroValuePortfolio(t *testing.T) {
	stocks := []model.Stock{{Name: "A", Quantity: 1, PriceHistory: []float64{0}}}
	s, _, _, rec := newTestScheduler(t, stocks, allocation.Map{"A": 1})

	_, err := s.RunNow(model.TriggerManual)
	require.Error(t, err)
	assert.ErrorIs(t, err, portfolio.ErrZeroValuePortfolio)
	assert.Empty(t, rec.runs)
}

func TestHandleCommand(t *testing.T) {
	s, _, n, rec := newTestScheduler(t, twoStocks(), allocation.Map{"A": 0.7, "B": 0.3})

	help := s.HandleCommand(context.Background(), "hello")
	assert.Contains(t, help, "/rebalance")
	assert.Contains(t, help, "/portfolio")

	p := s.HandleCommand(context.Background(), "/portfolio")
	assert.Contains(t, p, "A: 10 @ $10.00 (target 70.00%)")
	assert.Contains(t, p, "B: 10 @ $10.00 (target 30.00%)")

	n.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *model.Report) error {
			assert.Equal(t, model.TriggerCommand, r.Trigger)
			return nil
		})
	assert.Empty(t, s.HandleCommand(context.Background(), "/Rebalance"))
	assert.Len(t, rec.runs, 1)
}

func TestHandleCommand_RebalanceError(t *testing.T) {
	stocks := []model.Stock{{Name: "A", Quantity: 0, PriceHistory: []float64{3}}}
	s, _, _, _ := newTestScheduler(t, stocks, allocation.Map{"A": 1})
	assert.Contains(t, s.HandleCommand(context.Background(), "/rebalance"), "rebalance failed")
}

func TestRegister(t *testing.T) {
	s, _, _, _ := newTestScheduler(t, twoStocks(), allocation.Map{"A": 0.5, "B": 0.5})
	assert.Error(t, s.Register("not a cron"))
	require.NoError(t, s.Register("0 0 9 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	s.Start()
	s.Stop()
}

func TestNewScheduler_CopiesStocks(t *testing.T) {
	stocks := twoStocks()
	s, _, _, _ := newTestScheduler(t, stocks, allocation.Map{"A": 0.5, "B": 0.5})
	stocks[0].PriceHistory[0] = 99
	assert.Equal(t, 10.0, s.Stocks()[0].CurrentPrice())
}
