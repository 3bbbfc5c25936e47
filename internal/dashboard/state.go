package dashboard

import (
	"context"
	"time"

	"manometer-backend/internal/model"
)

// Banner messages. Failure kinds are not distinguished.
const (
	MsgLoadFailed = "Failed to load gauges"
	MsgAddFailed  = "Failed to add gauge"
)

// Tab is one of the dashboard views.
type Tab string

const (
	TabSummary Tab = "summary"
	TabList    Tab = "list"
	TabAdd     Tab = "add"
)

// ParseTab falls back to the summary view for unknown names.
func ParseTab(s string) Tab {
	switch Tab(s) {
	case TabList, TabAdd:
		return Tab(s)
	default:
		return TabSummary
	}
}

// Source is the gauge API the dashboard consumes.
type Source interface {
	List(ctx context.Context) ([]model.Gauge, error)
	Create(ctx context.Context, fields model.GaugeFields) (*model.Gauge, error)
}

// Model is the dashboard state: one snapshot of the gauge list, a loading
// flag, an error banner and the active view. Derived counters are computed
// on demand and never stored.
type Model struct {
	src     Source
	gauges  []model.Gauge
	loading bool
	err     string
	tab     Tab
}

// NewModel creates an empty model showing the summary view.
func NewModel(src Source) *Model {
	return &Model{src: src, gauges: []model.Gauge{}, tab: TabSummary}
}

// Load replaces the snapshot with a fresh list. On failure the previous
// snapshot is kept and the banner is set.
func (m *Model) Load(ctx context.Context) error {
	m.loading = true
	defer func() { m.loading = false }()

	gauges, err := m.src.List(ctx)
	if err != nil {
		m.err = MsgLoadFailed
		return err
	}
	m.gauges = gauges
	m.err = ""
	return nil
}

// Add creates a gauge, reloads the snapshot and switches to the summary.
// Only the create error is returned; a failed reload shows in the banner.
func (m *Model) Add(ctx context.Context, fields model.GaugeFields) error {
	m.loading = true
	_, err := m.src.Create(ctx, fields)
	m.loading = false
	if err != nil {
		m.err = MsgAddFailed
		return err
	}

	_ = m.Load(ctx)
	m.tab = TabSummary
	return nil
}

// SetTab switches the active view.
func (m *Model) SetTab(t Tab) { m.tab = t }

// SetError shows msg in the banner.
func (m *Model) SetError(msg string) { m.err = msg }

func (m *Model) Tab() Tab { return m.tab }

func (m *Model) Loading() bool { return m.loading }

func (m *Model) Error() string { return m.err }

func (m *Model) Gauges() []model.Gauge { return m.gauges }

// Summary computes the counters at now.
func (m *Model) Summary(now time.Time) Summary {
	return Summarize(m.gauges, now)
}

// Search filters the snapshot locally.
func (m *Model) Search(term string) []model.Gauge {
	return Filter(m.gauges, term)
}
