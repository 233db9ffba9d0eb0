package service

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes used as metric labels.
const (
	OutcomeSuccess      = "success"
	OutcomeFormatError  = "format_error"
	OutcomeExecError    = "execution_error"
	OutcomeStorageError = "storage_error"
)

// MetricsSnapshot summarises the current session.
type MetricsSnapshot struct {
	CommandsTotal     uint64
	CommandsFailed    uint64
	ByCommand         []CommandCount
	AverageCommandMs  float64
	Saves             uint64
	SaveFailures      uint64
	AverageSaveMs     float64
	SnapshotPublishes uint64
	SnapshotFailures  uint64
	RosterSize        int
	Goroutines        int
	GeneratedAt       time.Time
}

// CommandCount is the number of runs of one command word.
type CommandCount struct {
	Command string
	Count   uint64
}

// MetricsService encapsulates Prometheus instrumentation and keeps lightweight
// counters for the stats summary. A nil *MetricsService records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	commandDuration *prometheus.HistogramVec
	commandTotal    *prometheus.CounterVec
	saveDuration    prometheus.Observer
	saveFailures    prometheus.Counter
	snapshotTotal   *prometheus.CounterVec
	rosterSize      prometheus.Gauge

	commandCount         uint64
	commandFailures      uint64
	commandDurationTotal uint64
	saveCount            uint64
	saveFailureCount     uint64
	saveDurationTotal    uint64
	snapshotCount        uint64
	snapshotFailureCount uint64
	rosterSizeValue      int64

	mu      sync.Mutex
	perWord map[string]uint64
}

// NewMetricsService registers the session collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	commandDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teachmate_command_duration_seconds",
		Help:    "Duration of command parsing and execution in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	commandTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teachmate_commands_total",
		Help: "Total number of commands by word and outcome",
	}, []string{"command", "outcome"})

	saveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "teachmate_save_duration_seconds",
		Help:    "Latency for writing the data file",
		Buckets: prometheus.DefBuckets,
	})

	saveFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "teachmate_save_failures_total",
		Help: "Total failed writes of the data file",
	})

	snapshotTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teachmate_snapshot_publish_total",
		Help: "Roster snapshot publications by result",
	}, []string{"result"})

	rosterSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "teachmate_roster_size",
		Help: "Number of persons in the roster",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "teachmate_goroutines",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(commandDuration, commandTotal, saveDuration, saveFailures, snapshotTotal, rosterSize, goroutines)

	return &MetricsService{
		registry:        registry,
		commandDuration: commandDuration,
		commandTotal:    commandTotal,
		saveDuration:    saveDuration,
		saveFailures:    saveFailures,
		snapshotTotal:   snapshotTotal,
		rosterSize:      rosterSize,
		perWord:         make(map[string]uint64),
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveCommand records one command run.
func (m *MetricsService) ObserveCommand(word, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.commandDuration.WithLabelValues(word).Observe(duration.Seconds())
	m.commandTotal.WithLabelValues(word, outcome).Inc()
	atomic.AddUint64(&m.commandCount, 1)
	atomic.AddUint64(&m.commandDurationTotal, uint64(duration.Nanoseconds()))
	if outcome != OutcomeSuccess {
		atomic.AddUint64(&m.commandFailures, 1)
	}
	m.mu.Lock()
	m.perWord[word]++
	m.mu.Unlock()
}

// ObserveSave records a data file write.
func (m *MetricsService) ObserveSave(err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.saveDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.saveCount, 1)
	atomic.AddUint64(&m.saveDurationTotal, uint64(duration.Nanoseconds()))
	if err != nil {
		m.saveFailures.Inc()
		atomic.AddUint64(&m.saveFailureCount, 1)
	}
}

// ObserveSnapshot records a snapshot publication.
func (m *MetricsService) ObserveSnapshot(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		atomic.AddUint64(&m.snapshotFailureCount, 1)
	}
	m.snapshotTotal.WithLabelValues(result).Inc()
	atomic.AddUint64(&m.snapshotCount, 1)
}

// SetRosterSize updates the roster size gauge.
func (m *MetricsService) SetRosterSize(n int) {
	if m == nil {
		return
	}
	m.rosterSize.Set(float64(n))
	atomic.StoreInt64(&m.rosterSizeValue, int64(n))
}

// WriteTextfile writes the registry in Prometheus text format, for the
// node exporter textfile collector.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Snapshot returns aggregated counters for the stats summary.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	commands := atomic.LoadUint64(&m.commandCount)
	commandDuration := atomic.LoadUint64(&m.commandDurationTotal)
	saves := atomic.LoadUint64(&m.saveCount)
	saveDuration := atomic.LoadUint64(&m.saveDurationTotal)

	var avgCommandMs float64
	if commands > 0 {
		avgCommandMs = float64(commandDuration) / float64(commands) / float64(time.Millisecond)
	}
	var avgSaveMs float64
	if saves > 0 {
		avgSaveMs = float64(saveDuration) / float64(saves) / float64(time.Millisecond)
	}

	m.mu.Lock()
	byCommand := make([]CommandCount, 0, len(m.perWord))
	for word, n := range m.perWord {
		byCommand = append(byCommand, CommandCount{Command: word, Count: n})
	}
	m.mu.Unlock()
	sort.Slice(byCommand, func(i, j int) bool {
		if byCommand[i].Count != byCommand[j].Count {
			return byCommand[i].Count > byCommand[j].Count
		}
		return byCommand[i].Command < byCommand[j].Command
	})

	return MetricsSnapshot{
		CommandsTotal:     commands,
		CommandsFailed:    atomic.LoadUint64(&m.commandFailures),
		ByCommand:         byCommand,
		AverageCommandMs:  avgCommandMs,
		Saves:             saves,
		SaveFailures:      atomic.LoadUint64(&m.saveFailureCount),
		AverageSaveMs:     avgSaveMs,
		SnapshotPublishes: atomic.LoadUint64(&m.snapshotCount),
		SnapshotFailures:  atomic.LoadUint64(&m.snapshotFailureCount),
		RosterSize:        int(atomic.LoadInt64(&m.rosterSizeValue)),
		Goroutines:        runtime.NumGoroutine(),
		GeneratedAt:       time.Now().UTC(),
	}
}
