package scheduler

import (
	"context"
	"cosbackup/logger"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	restore := logger.Replace(zap.NewNop())
	code := m.Run()
	restore()
	os.Exit(code)
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name       string
		expression string
		expected   time.Time
		wantErr    bool
	}{
		{name: "daily at three", expression: "0 3 * * *", expected: time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC)},
		{name: "every quarter hour", expression: "*/15 * * * *", expected: time.Date(2024, 6, 1, 12, 45, 0, 0, time.UTC)},
		{name: "descriptor", expression: "@hourly", expected: time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)},
		{name: "seconds field is rejected", expression: "0 0 3 * * *", wantErr: true},
		{name: "garbage", expression: "every day", wantErr: true},
		{name: "empty", expression: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			next, err := Validate(test.expression, now)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, next)
		})
	}
}

func TestRun_InvalidExpression(t *testing.T) {
	called := false
	err := Run(context.Background(), Job{
		Name:     "test",
		Interval: "not a cron",
		Task: func(ctx context.Context) error {
			called = true
			return nil
		},
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestRun_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Run(ctx, Job{
		Name:     "test",
		Interval: "0 3 1 1 *",
		Task: func(ctx context.Context) error {
			return nil
		},
	})
	assert.NoError(t, err)
}

func TestRun_KeepsGoingAfterFailedRun(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 3, 0, 30, 0, time.UTC))
	runs := make(chan int, 2)
	count := 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Job{
			Name:     "nightly",
			Interval: "* * * * *",
			Task: func(ctx context.Context) error {
				count++
				runs <- count
				if count == 1 {
					return errors.New("bucket unreachable")
				}
				return nil
			},
		}, gocron.WithClock(clock))
	}()

	for want := 1; want <= 2; want++ {
		clock.BlockUntil(1)
		clock.Advance(time.Minute)
		select {
		case got := <-runs:
			assert.Equal(t, want, got)
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d did not fire", want)
		}
	}

	cancel()
	require.NoError(t, <-done)

	failed := logs.FilterMessage("job returned error").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "bucket unreachable", failed[0].ContextMap()["error"])
	assert.Equal(t, 1, logs.FilterMessage("scheduled run completed").Len())
}
