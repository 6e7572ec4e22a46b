package logger

import (
	"context"
	"testing"
	"time"

	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(Replace(zap.New(core)))
	return logs
}

func TestGormLoggerAdapter_Levels(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  logger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn", logger.Warn, false, false},
		{"info", logger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observe(t)
			adapter := NewGormLoggerAdapter(tc.logLevel)
			ctx := context.Background()

			adapter.Info(ctx, "info %d", 1)
			adapter.Warn(ctx, "warn %d", 2)
			adapter.Error(ctx, "error %d", 3)
			adapter.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT * FROM products", 1 }, nil)

			if got := logs.FilterMessage("info 1").Len() == 1; got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if logs.FilterMessage("warn 2").Len() != 1 {
				t.Error("warn message not found")
			}
			if logs.FilterMessage("error 3").Len() != 1 {
				t.Error("error message not found")
			}
			traces := logs.FilterMessage("SQL query executed")
			if got := traces.Len() == 1; got != tc.wantTrace {
				t.Errorf("trace logged = %v, want %v", got, tc.wantTrace)
			}
			if tc.wantTrace && traces.FilterField(zap.String("sql", "SELECT * FROM products")).Len() != 1 {
				t.Error("sql field missing from trace")
			}
		})
	}
}

func TestGormLoggerAdapter_SlowQueryAndRequestID(t *testing.T) {
	logs := observe(t)
	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := persistence.ContextWithRequestID(context.Background(), "req-123")

	adapter.Trace(ctx, time.Now().Add(-20*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM orders", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE id = 'x'", 0
	}, logger.ErrRecordNotFound)

	slow := logs.FilterMessage("Slow SQL query")
	if slow.Len() != 1 {
		t.Fatalf("expected one slow query entry, got %d", slow.Len())
	}
	if slow.FilterField(zap.String("request_id", "req-123")).Len() != 1 {
		t.Error("request id not propagated from context")
	}
	if logs.FilterMessage("Database operation failed").Len() != 0 {
		t.Error("record not found should be ignored")
	}
}
