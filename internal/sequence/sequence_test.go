package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/internal/testdb"
	"github.com/grocerly/storefront-api/pkg/config"
)

func TestDBSequencerIncrements(t *testing.T) {
	seq, err := NewDBSequencer(testdb.Open(t))
	require.NoError(t, err)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, "order_number")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := seq.Next(ctx, "invoice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "counters are independent")
}

// drawConcurrently calls Next from callers goroutines at once and returns
// every value handed out.
func drawConcurrently(t *testing.T, seq Sequencer, callers int) []int64 {
	t.Helper()
	values := make([]int64, callers)
	errs := make([]error, callers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			values[i], errs[i] = seq.Next(context.Background(), "order_number")
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	return values
}

func TestDBSequencerConcurrentCallersGetContiguousValues(t *testing.T) {
	seq, err := NewDBSequencer(testdb.OpenConcurrent(t))
	require.NoError(t, err)

	values := drawConcurrently(t, seq, 50)
	assert.NoError(t, testdb.Contiguous(values))
}

// readThenWrite is the lost-update shape the single upsert statement avoids:
// read the counter, then store read+1. gate holds every caller between the
// two steps until all of them have read.
type readThenWrite struct {
	db   *gorm.DB
	gate *sync.WaitGroup
}

func (s readThenWrite) Next(ctx context.Context, name string) (int64, error) {
	var current int64
	if err := s.db.WithContext(ctx).
		Raw(`SELECT COALESCE(MAX(value), 0) FROM sequences WHERE name = ?`, name).
		Scan(&current).Error; err != nil {
		return 0, err
	}
	s.gate.Done()
	s.gate.Wait()

	next := current + 1
	err := s.db.WithContext(ctx).Exec(`INSERT INTO sequences (name, value) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value`, name, next).Error
	return next, err
}

func TestContiguityCheckCatchesReadThenWriteRace(t *testing.T) {
	const callers = 4
	gate := &sync.WaitGroup{}
	gate.Add(callers)
	racy := readThenWrite{db: testdb.OpenConcurrent(t), gate: gate}

	values := drawConcurrently(t, racy, callers)
	assert.Error(t, testdb.Contiguous(values), "duplicate values %v must be rejected", values)
}

func TestContiguous(t *testing.T) {
	assert.NoError(t, testdb.Contiguous([]int64{3, 1, 2}))
	assert.NoError(t, testdb.Contiguous(nil))
	assert.ErrorContains(t, testdb.Contiguous([]int64{1, 2, 2}), "twice")
	assert.ErrorContains(t, testdb.Contiguous([]int64{1, 3}), "gap")
}

func TestSequencerRejectsEmptyName(t *testing.T) {
	seq, err := NewDBSequencer(testdb.Open(t))
	require.NoError(t, err)
	_, err = seq.Next(context.Background(), " ")
	assert.Error(t, err)
}

type fakeCounter struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (f *fakeCounter) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if f.values == nil {
		f.values = map[string]int64{}
	}
	f.values[key]++
	return f.values[key], nil
}

func (f *fakeCounter) CounterKey(name string) string { return "grocer:counter:" + name }

func TestRedisSequencer(t *testing.T) {
	counter := &fakeCounter{}
	seq, err := NewRedisSequencer(counter)
	require.NoError(t, err)

	first, err := seq.Next(context.Background(), "order_number")
	require.NoError(t, err)
	second, err := seq.Next(context.Background(), "order_number")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(2), counter.values["grocer:counter:order_number"])

	counter.err = errors.New("connection refused")
	_, err = seq.Next(context.Background(), "order_number")
	assert.ErrorContains(t, err, "connection refused")
}

func TestNewSelectsBackend(t *testing.T) {
	db := testdb.Open(t)

	seq, err := New(config.OrdersConfig{SequenceBackend: config.SequenceBackendDB}, db, nil)
	require.NoError(t, err)
	assert.IsType(t, &DBSequencer{}, seq)

	seq, err = New(config.OrdersConfig{SequenceBackend: config.SequenceBackendRedis}, db, &fakeCounter{})
	require.NoError(t, err)
	assert.IsType(t, &RedisSequencer{}, seq)

	_, err = New(config.OrdersConfig{SequenceBackend: config.SequenceBackendRedis}, db, nil)
	assert.Error(t, err)

	_, err = New(config.OrdersConfig{SequenceBackend: "etcd"}, db, nil)
	assert.Error(t, err)
}

func TestDBSequencerRollsBackWithTransaction(t *testing.T) {
	db := testdb.Open(t)
	seq, err := NewDBSequencer(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = seq.Next(ctx, "order_number")
	require.NoError(t, err)

	tx := db.Begin()
	inTx, err := seq.WithTx(tx).Next(ctx, "order_number")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inTx)
	require.NoError(t, tx.Rollback().Error)

	next, err := seq.Next(ctx, "order_number")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next, "rolled back increment is reused")
}
