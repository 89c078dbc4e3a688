package types

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecent(t *testing.T) {
	h := NewRatedHistory(1000)
	h.Record(Win, 1.0, 3, 1.0, 0)
	h.Record(Loss, -1.0, 5, 0.9, 0)
	h.Record(Draw, 0.2, 6, 0.8, 1)
	h.Record(Win, 0.6, 8, 0.7, 0)

	s := h.Recent(2)
	assert.Equal(t, 2, s.Episodes)
	assert.InDelta(t, 0.5, s.WinRate, 1e-12)
	assert.InDelta(t, 0.0, s.LossRate, 1e-12)
	assert.InDelta(t, 0.5, s.DrawRate, 1e-12)
	assert.InDelta(t, 0.4, s.AvgReward, 1e-12)

	all := h.Recent(100)
	assert.Equal(t, 4, all.Episodes)
	assert.InDelta(t, 0.5, all.WinRate, 1e-12)

	wins, losses, draws := h.Totals()
	assert.Equal(t, 2, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 1, draws)
	assert.Equal(t, 1000.0, h.Rating())
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, Summary{}, h.Recent(100))
	assert.Zero(t, h.Rating())
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, MovingAverage([]float64{1, 2, 3, 4}, 2))
	// the window shrinks to the length of short series
	assert.Equal(t, []float64{2}, MovingAverage([]float64{1, 2, 3}, 100))
	assert.Empty(t, MovingAverage(nil, 100))
}

func TestPlotHistory(t *testing.T) {
	h := NewRatedHistory(1000)
	for i := 0; i < 30; i++ {
		h.Record(Outcome(i%3), float64(i%3)-1, i, 1.0/float64(i+1), 0)
		h.RecordRating(1000 + float64(i))
	}
	path := filepath.Join(t.TempDir(), "progress.png")
	require.NoError(t, PlotHistory(h, SelfPlayLabels, path))
	assert.FileExists(t, path)

	solo := filepath.Join(t.TempDir(), "solo.png")
	h.Ratings = nil
	require.NoError(t, PlotHistory(h, SoloLabels, solo))
	assert.FileExists(t, solo)
}

func TestPlotHistoryReplacesExistingFile(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 5; i++ {
		h.Record(Outcome(i%3), 0, i, 1, 0)
	}
	dir := filepath.Join(t.TempDir(), "graphs")
	path := filepath.Join(dir, "progress.png")
	require.NoError(t, PlotHistory(h, SoloLabels, path))
	require.NoError(t, PlotHistory(h, SoloLabels, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "progress.png", entries[0].Name())
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(bs, []byte("\x89PNG")))
}
