// Package monitor shows live LIS2HH12 readings in a terminal UI.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/gdamore/tcell/v2"
	"github.com/montanaflynn/stats"
	"github.com/rivo/tview"
	c "lautenbacher.net/goaccel/config"
	"lautenbacher.net/goaccel/lis2hh12"
	"lautenbacher.net/goaccel/util"
)

const (
	viewerTitle = " LIS2HH12 Monitor "
	colWidth    = 24
)

var channels = []string{"X", "Y", "Z", "T"}

// Sensor is what the monitor samples.
type Sensor interface {
	Acceleration() (lis2hh12.Vector, error)
	Temperature() (float64, error)
	Unit() lis2hh12.Unit
}

type channelStats struct {
	last   float64
	min    float64
	max    float64
	mean   float64
	median float64
	stdDev float64
}

// Monitor samples a Sensor on a fixed interval and renders the latest
// value and statistics over a bounded history per channel.
type Monitor struct {
	app      *tview.Application
	view     *tview.TextView
	sensor   Sensor
	mu       sync.Mutex
	history  map[string]*deque.Deque[float64]
	size     int
	interval time.Duration
	reset    *util.Latest[time.Duration]
	ended    chan struct{}
	errors   int
	samples  int
}

// New creates a Monitor for sensor using the interval and history size
// from conf.
func New(sensor Sensor, conf c.MonitorConfig) *Monitor {
	m := &Monitor{
		app:      tview.NewApplication(),
		sensor:   sensor,
		history:  make(map[string]*deque.Deque[float64], len(channels)),
		size:     conf.History,
		interval: conf.Interval,
		reset:    util.NewLatest[time.Duration](),
		ended:    make(chan struct{}),
	}
	for _, name := range channels {
		q := new(deque.Deque[float64])
		q.Grow(m.size)
		m.history[name] = q
	}
	return m
}

// SetInterval changes the sampling interval of a running monitor.
func (m *Monitor) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.reset.Set(d)
}

// Run shows the UI and samples until ctx is done or the user quits. A
// Monitor runs once.
func (m *Monitor) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.setupUI(cancel)

	var wg sync.WaitGroup
	wg.Add(1)
	go m.sampler(ctx, &wg)

	go func() {
		<-ctx.Done()
		slog.Info("Stopping monitor TUI...")
		// Queued, so a cancel that comes before the event loop is up
		// still stops it.
		m.onEventLoop(m.app.Stop)
	}()

	err := m.app.Run()
	close(m.ended)
	cancel()
	wg.Wait()
	if err != nil {
		return fmt.Errorf("monitor TUI failed: %w", err)
	}
	slog.Info("Monitor TUI has stopped.", "samples", m.samples, "errors", m.errors)
	return nil
}

// onEventLoop runs f on the tview event loop and waits for it. It returns
// without running f once the loop has ended.
func (m *Monitor) onEventLoop(f func()) {
	done := make(chan struct{})
	go func() {
		m.app.QueueUpdate(f)
		close(done)
	}()
	select {
	case <-done:
	case <-m.ended:
	}
}

func (m *Monitor) sampler(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Ending sampler go-routine...")
			return
		case <-m.reset.Wake():
			if d, ok := m.reset.Take(); ok {
				slog.Info("Changing sample interval", "interval", d)
				ticker.Reset(d)
			}
		case <-ticker.C:
			if lines, ok := m.sampleOnce(); ok {
				m.onEventLoop(func() {
					m.view.SetText(lines)
					m.app.ForceDraw()
				})
			}
		}
	}
}

// sampleOnce reads the sensor once and records the result. A failed read
// is logged and counted. Retrying is simply the next tick.
func (m *Monitor) sampleOnce() (string, bool) {
	acc, err := m.sensor.Acceleration()
	if err != nil {
		m.countError(err)
		return "", false
	}
	temp, err := m.sensor.Temperature()
	if err != nil {
		m.countError(err)
		return "", false
	}
	return m.record(map[string]float64{"X": acc.X, "Y": acc.Y, "Z": acc.Z, "T": temp}), true
}

func (m *Monitor) countError(err error) {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
	slog.Warn("Sensor read failed", "error", err)
}

// record appends the values to the history and returns the display text.
func (m *Monitor) record(values map[string]float64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples++
	for name, value := range values {
		q, ok := m.history[name]
		if !ok {
			continue
		}
		if q.Len() == m.size {
			q.PopFront()
		}
		q.PushBack(value)
	}
	return m.prepareDisplayText()
}

// prepareDisplayText must be called with the mutex held.
func (m *Monitor) prepareDisplayText() string {
	var head, last, rng, dev strings.Builder

	head.WriteString(fmt.Sprintf("[yellow]%-*s[white]", 16, " Channel"))
	last.WriteString(fmt.Sprintf("[yellow]%-*s[white]", 16, " Last"))
	rng.WriteString(fmt.Sprintf("[yellow]%-*s[white]", 16, " [min|mean|max]"))
	dev.WriteString(fmt.Sprintf("[yellow]%-*s[white]", 16, " [median|stddev]"))

	unit := m.sensor.Unit().String()
	for _, name := range channels {
		s := calculateStats(m.history[name])
		// Parentheses, square brackets would be read as color tags.
		label := name + " (" + unit + ")"
		if name == "T" {
			label = "T (°C)"
		}
		head.WriteString(fmt.Sprintf("[blue]%-*s[-]", colWidth, label))
		last.WriteString(fmt.Sprintf("%-*s", colWidth, fmt.Sprintf("%8.3f", s.last)))
		rng.WriteString(fmt.Sprintf("%-*s", colWidth, fmt.Sprintf("[%.2f|%.2f|%.2f]", s.min, s.mean, s.max)))
		dev.WriteString(fmt.Sprintf("%-*s", colWidth, fmt.Sprintf("[%.2f|%.4f]", s.median, s.stdDev)))
	}

	status := fmt.Sprintf(" samples: %d  read errors: %d", m.samples, m.errors)
	return strings.Join([]string{head.String(), last.String(), rng.String(), dev.String(), "", status}, "\n")
}

func (m *Monitor) setupUI(quit context.CancelFunc) {
	m.view = tview.NewTextView()
	m.view.SetDynamicColors(true)
	m.view.SetTextAlign(tview.AlignLeft)
	m.view.SetBackgroundColor(tcell.ColorDarkSlateGray)
	m.view.SetBorder(true).SetTitle(viewerTitle).SetTitleColor(tcell.ColorLightBlue)
	m.view.SetText("Waiting for first sample...")

	intro := tview.NewTextView()
	intro.SetBorder(true).SetTitle(" goaccel ").SetTitleColor(tcell.ColorLightBlue)
	intro.SetText(fmt.Sprintf("Sampling every %s, statistics over the last %d samples.\nHit [#ff0000]q[-] to exit", m.interval, m.size))
	intro.SetTextAlign(tview.AlignCenter)
	intro.SetDynamicColors(true)
	intro.SetBackgroundColor(tcell.ColorDarkSlateGray)

	layout := tview.NewFlex().SetDirection(tview.FlexRow)
	layout.AddItem(intro, 4, 1, false)
	// 6 lines of text + 2 for the border.
	layout.AddItem(m.view, 8, 1, true)

	m.app.SetRoot(layout, true).SetFocus(m.view)
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			quit()
			m.app.Stop()
			return nil
		}
		if event.Key() == tcell.KeyCtrlC {
			quit()
			m.app.Stop()
			return nil
		}
		return event
	})
}

func calculateStats(q *deque.Deque[float64]) channelStats {
	if q == nil || q.Len() == 0 {
		return channelStats{}
	}
	data := make(stats.Float64Data, q.Len())
	for i := range q.Len() {
		data[i] = q.At(i)
	}

	var s channelStats
	s.last = data[len(data)-1]
	s.min, _ = data.Min()
	s.max, _ = data.Max()
	s.mean, _ = data.Mean()
	s.median, _ = data.Median()
	s.stdDev, _ = data.StandardDeviation()
	return s
}
