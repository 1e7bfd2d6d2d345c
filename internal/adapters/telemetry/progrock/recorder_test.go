package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chip/internal/adapters/telemetry/progrock"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_Record(t *testing.T) {
	journal := progrock.NewJournal()
	recorder := progrock.NewRecorder(journal)

	ctx, vertex := recorder.Record(context.Background(), "brand/js/Brand.ts")

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	_, err := vertex.Stdout().Write([]byte("Standard Output\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelInfo, "changed")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
	assert.Equal(t, 1, journal.Stats().Completed)
}

func TestRecorder_RepeatedNames(t *testing.T) {
	journal := progrock.NewJournal()
	recorder := progrock.NewRecorder(journal)

	_, first := recorder.Record(context.Background(), "sim/js/Main.ts")
	_, second := recorder.Record(context.Background(), "sim/js/Main.ts")
	assert.Equal(t, 2, journal.Stats().Running)

	first.Cached()
	first.Complete(nil)
	second.Complete(errors.New("boom"))

	stats := journal.Stats()
	assert.Equal(t, 0, stats.Running)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Cached)
	assert.Equal(t, 1, stats.Failed)
}

func TestVertex_CompleteRecordedOnce(t *testing.T) {
	journal := progrock.NewJournal()
	recorder := progrock.NewRecorder(journal)

	_, vertex := recorder.Record(context.Background(), "sim/js/Main.ts")
	vertex.Log(domain.LogLevelWarn, "first line\nsecond line")
	vertex.Complete(errors.New("boom"))
	vertex.Complete(nil)

	stats := journal.Stats()
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
}
