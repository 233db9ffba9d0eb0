package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()

	m.ObserveCommand("add", OutcomeSuccess, 2*time.Millisecond)
	m.ObserveCommand("add", OutcomeExecError, 4*time.Millisecond)
	m.ObserveCommand("list", OutcomeSuccess, 0)
	m.ObserveSave(nil, time.Millisecond)
	m.ObserveSave(errors.New("disk full"), time.Millisecond)
	m.ObserveSnapshot(nil)
	m.SetRosterSize(7)

	snap := m.Snapshot()
	assert.Equal(t, uint64(3), snap.CommandsTotal)
	assert.Equal(t, uint64(1), snap.CommandsFailed)
	assert.InDelta(t, 2.0, snap.AverageCommandMs, 0.001)
	assert.Equal(t, []CommandCount{{Command: "add", Count: 2}, {Command: "list", Count: 1}}, snap.ByCommand)
	assert.Equal(t, uint64(2), snap.Saves)
	assert.Equal(t, uint64(1), snap.SaveFailures)
	assert.Equal(t, uint64(1), snap.SnapshotPublishes)
	assert.Equal(t, 7, snap.RosterSize)
}

func TestMetricsServiceNilIsNoop(t *testing.T) {
	var m *MetricsService
	m.ObserveCommand("add", OutcomeSuccess, time.Millisecond)
	m.ObserveSave(nil, time.Millisecond)
	m.SetRosterSize(1)
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestMetricsServiceWriteTextfile(t *testing.T) {
	m := NewMetricsService()
	m.ObserveCommand("view", OutcomeSuccess, time.Millisecond)

	path := filepath.Join(t.TempDir(), "teachmate.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `teachmate_commands_total{command="view",outcome="success"} 1`)
}
