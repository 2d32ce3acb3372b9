package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/pkg/logger"
)

func TestQueryLoggerReportsSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	q := newQueryLogger(logger.New(logger.Options{Level: zerolog.DebugLevel, Output: &buf}), 50*time.Millisecond)
	sql := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	q.Trace(ctx, time.Now(), sql, nil)
	assert.Empty(t, buf.String(), "fast query should not be logged")

	q.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "db.slow_query")
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestQueryLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	q := newQueryLogger(logger.New(logger.Options{Level: zerolog.DebugLevel, Output: &buf}), 0)
	sql := func() (string, int64) { return "SELECT * FROM orders", 0 }

	q.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	q.Trace(context.Background(), time.Now(), sql, errors.New("relation does not exist"))
	assert.Contains(t, buf.String(), "db.query_failed")
	assert.Contains(t, buf.String(), "relation does not exist")
}
