package ui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/digital-finance/labsite/internal/async"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/metrics"
	"github.com/digital-finance/labsite/internal/output"
	"github.com/digital-finance/labsite/internal/search"
	"github.com/digital-finance/labsite/internal/site"
)

const indexPollInterval = 200 * time.Millisecond

// BrowseHelp lists the key bindings of the browse view.
const BrowseHelp = "type to search · ctrl+y year · ctrl+t topic · ctrl+o open access · ctrl+r reset · esc quit"

type indexTickMsg time.Time

// BrowseModel is the bubbletea model of the publication browser. It is the
// site's presenter: visibility and metrics arrive through SetVisible,
// SetNoResults and ShowMetrics.
type BrowseModel struct {
	ctx     context.Context
	site    *site.Site
	styles  Styles
	input   textinput.Model
	spinner spinner.Model

	years  []string
	topics []string

	// presenter state; the site may push it from a reload goroutine
	mu        sync.Mutex
	visible   []bool
	noResults bool
	metrics   metrics.Metrics

	results search.Results

	width    int
	height   int
	quitting bool
}

// NewBrowseModel creates the model and registers it with s.
func NewBrowseModel(ctx context.Context, s *site.Site, styles Styles) *BrowseModel {
	in := textinput.New()
	in.Placeholder = "Search sections and publications"
	in.Prompt = "/ "
	in.CharLimit = 120
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Hit

	years := []string{facet.All}
	for _, y := range s.Catalog().Years() {
		years = append(years, strconv.Itoa(y))
	}

	m := &BrowseModel{
		ctx:     ctx,
		site:    s,
		styles:  styles,
		input:   in,
		spinner: sp,
		years:   years,
		topics:  append([]string{facet.All}, facet.TopicKeys()...),
		width:   80,
		height:  24,
	}
	s.SetPresenter(m, m)
	return m
}

// SetVisible records one visibility decision. A nil model ignores it.
func (m *BrowseModel) SetVisible(i int, visible bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.visible) <= i {
		m.visible = append(m.visible, false)
	}
	m.visible[i] = visible
}

// SetNoResults records whether the filter left nothing visible.
func (m *BrowseModel) SetNoResults(empty bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noResults = empty
}

// ShowMetrics records the metrics of the visible subset.
func (m *BrowseModel) ShowMetrics(mt metrics.Metrics) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = mt
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, indexTick())
}

func indexTick() tea.Cmd {
	return tea.Tick(indexPollInterval, func(t time.Time) tea.Msg { return indexTickMsg(t) })
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyCtrlY:
			_, _ = m.site.SetYear(next(m.years, m.site.Selection().Year))
			return m, nil
		case tea.KeyCtrlT:
			_, _ = m.site.SetTopic(next(m.topics, m.site.Selection().Topic))
			return m, nil
		case tea.KeyCtrlO:
			_, _ = m.site.SetAccess(next([]string{facet.All, facet.AccessOpen}, m.site.Selection().Access))
			return m, nil
		case tea.KeyCtrlR:
			m.site.Reset()
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.results = m.site.Search(m.ctx, m.input.Value())
		}
		return m, cmd

	case indexTickMsg:
		if m.results.Pending && m.site.IndexStatus().Status == string(async.StatusReady) {
			m.results = m.site.Search(m.ctx, m.input.Value())
		}
		return m, indexTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// next returns the value after cur in values, wrapping around.
func next(values []string, cur string) string {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Header.Render("Publications") + "  " + s.Dim.Render(m.indexLabel()) + "\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.renderResults())

	sel := m.site.Selection()
	b.WriteString("\n" + s.Filter.Render(fmt.Sprintf("year: %s  topic: %s  access: %s", sel.Year, sel.Topic, sel.Access)) + "\n")
	spark := YearSparkline(metrics.YearHistogram(m.site.View().Publications))
	m.mu.Lock()
	mt := m.metrics
	m.mu.Unlock()
	b.WriteString(s.Metrics.Render(output.MetricsLine(mt)) + "  " + s.Bar.Render(spark) + "\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n" + s.Dim.Render(BrowseHelp))
	return b.String()
}

func (m *BrowseModel) indexLabel() string {
	st := m.site.IndexStatus()
	switch st.Status {
	case string(async.StatusReady):
		return fmt.Sprintf("index: %d documents (%s)", st.Documents, st.Source)
	case string(async.StatusFailed):
		return "index: unavailable"
	default:
		return m.spinner.View() + " index: loading"
	}
}

func (m *BrowseModel) renderResults() string {
	s := m.styles
	switch {
	case search.Normalize(m.input.Value()) == "":
		return ""
	case m.results.Pending:
		return s.Meta.Render(output.PendingMessage) + "\n"
	case m.results.NoResults:
		return s.Meta.Render(output.NoResultsMessage) + "\n"
	}

	var b strings.Builder
	for _, h := range m.results.Hits {
		fmt.Fprintf(&b, "  %s %s\n", s.Hit.Render(h.Title), s.Meta.Render(h.Anchor))
	}
	return b.String()
}

func (m *BrowseModel) renderList() string {
	s := m.styles
	cat := m.site.Catalog()

	// copy under the presenter lock; never call into the site while holding it
	m.mu.Lock()
	visible := append([]bool(nil), m.visible...)
	noResults := m.noResults
	count := m.metrics.Count
	m.mu.Unlock()

	if noResults {
		return s.Warning.Render(output.NoPublicationsMessage) + "\n"
	}

	rows := max(m.height-14, 3)
	var b strings.Builder
	shown := 0
	for i, vis := range visible {
		if !vis || i >= cat.Len() {
			continue
		}
		if shown == rows {
			fmt.Fprintf(&b, "%s\n", s.Dim.Render(fmt.Sprintf("… %d more", count-shown)))
			break
		}
		p := cat.At(i)
		b.WriteString(s.Title.Render(truncate(output.PublicationLine(p), m.width-2)) + "\n")
		shown++
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunBrowse runs the browse view until the user quits or ctx ends.
func RunBrowse(ctx context.Context, s *site.Site, cfg Config) error {
	m := NewBrowseModel(ctx, s, cfg.Styles())

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if f, ok := cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}
	_, err := tea.NewProgram(m, opts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
