// Package tui is the terminal front end: fill in the form, wait for the
// analysis, read the report.
package tui

import (
	"context"
	"strings"

	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/report"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

type view int

const (
	viewInput view = iota
	viewAnalyzing
	viewResults
)

// Submitter runs one analysis; *service.Service satisfies it.
type Submitter interface {
	Submit(ctx context.Context, form *collector.Form) (*service.Result, error)
}

type analysisDoneMsg struct{ result *service.Result }

type analysisErrorMsg struct{ err error }

type App struct {
	width    int
	height   int
	view     view
	state    *state
	svc      Submitter
	logger   *zap.Logger
	quitting bool
}

func NewApp(svc Submitter, logger *zap.Logger) *App {
	return &App{
		view:   viewInput,
		state:  newState(),
		svc:    svc,
		logger: logger.Named("tui"),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), textinput.Blink, textarea.Blink)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := a.handleKey(msg)
		if handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.state.viewport.Width = max(20, msg.Width-4)
		a.state.viewport.Height = max(5, msg.Height-6)
		if a.state.result != nil {
			a.showPane(a.state.pane)
		}

	case spinner.TickMsg:
		if a.view != viewAnalyzing {
			return a, nil
		}
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd

	case analysisDoneMsg:
		a.state.busy = false
		a.state.result = msg.result
		a.state.err = nil
		a.showPane(paneReport)
		a.view = viewResults
		return a, nil

	case analysisErrorMsg:
		a.state.busy = false
		a.state.err = msg.err
		a.view = viewInput
		return a, nil
	}

	switch a.view {
	case viewInput:
		var cmd tea.Cmd
		if a.state.focus == fieldDesc {
			a.state.desc, cmd = a.state.desc.Update(msg)
		} else {
			a.state.inputs[a.state.focus], cmd = a.state.inputs[a.state.focus].Update(msg)
		}
		cmds = append(cmds, cmd)
	case viewResults:
		var cmd tea.Cmd
		a.state.viewport, cmd = a.state.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKey reports whether the key was consumed.
func (a *App) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		a.quitting = true
		return true, tea.Quit
	}

	switch a.view {
	case viewInput:
		switch {
		case key.Matches(msg, keys.Submit):
			return true, a.submit()
		case key.Matches(msg, keys.Next):
			a.state.setFocus(a.state.focus + 1)
			return true, nil
		case key.Matches(msg, keys.Prev):
			a.state.setFocus(a.state.focus - 1)
			return true, nil
		case msg.Type == tea.KeyEnter && a.state.focus != fieldDesc:
			a.state.setFocus(a.state.focus + 1)
			return true, nil
		}

	case viewAnalyzing:
		return true, nil

	case viewResults:
		switch {
		case key.Matches(msg, keys.New):
			a.state.reset()
			a.view = viewInput
			return true, textinput.Blink
		case key.Matches(msg, keys.Version1):
			a.showPane(paneVersion1)
			return true, nil
		case key.Matches(msg, keys.Version2):
			a.showPane(paneVersion2)
			return true, nil
		case key.Matches(msg, keys.Report):
			a.showPane(paneReport)
			return true, nil
		case msg.String() == "q":
			a.quitting = true
			return true, tea.Quit
		}
	}
	return false, nil
}

// submit moves to the analyzing view and starts the request. It refuses to
// start while another one is in flight or when required fields are empty.
func (a *App) submit() tea.Cmd {
	if a.state.busy {
		return nil
	}

	var missing []string
	if a.value(fieldName) == "" {
		missing = append(missing, "product name")
	}
	if strings.TrimSpace(a.state.desc.Value()) == "" {
		missing = append(missing, "description")
	}
	if a.value(fieldReview) == "" {
		missing = append(missing, "review file")
	}
	if len(missing) > 0 {
		a.state.err = errMissing(missing)
		return nil
	}

	a.state.busy = true
	a.state.err = nil
	a.view = viewAnalyzing

	form := a.formSnapshot()
	return tea.Batch(a.state.spinner.Tick, a.runAnalysis(form))
}

type formSnapshot struct {
	name, desc, review, aba string
	competitors             [collector.MaxCompetitors]string
}

func (a *App) formSnapshot() formSnapshot {
	snap := formSnapshot{
		name:   a.value(fieldName),
		desc:   strings.TrimSpace(a.state.desc.Value()),
		review: a.value(fieldReview),
		aba:    a.value(fieldABA),
	}
	for i := range snap.competitors {
		snap.competitors[i] = a.value(fieldCompetitor1 + i)
	}
	return snap
}

// runAnalysis reads the files named in the form and submits it. It runs off
// the UI goroutine.
func (a *App) runAnalysis(snap formSnapshot) tea.Cmd {
	return func() tea.Msg {
		form, err := buildForm(snap)
		if err != nil {
			return analysisErrorMsg{err}
		}

		res, err := a.svc.Submit(context.Background(), form)
		if err != nil {
			a.logger.Warn("analysis failed", zap.Error(err))
			return analysisErrorMsg{err}
		}
		return analysisDoneMsg{res}
	}
}

func buildForm(snap formSnapshot) (*collector.Form, error) {
	review, err := collector.ReadFile(snap.review)
	if err != nil {
		return nil, err
	}

	form := &collector.Form{
		ProductName: snap.name,
		ProductDesc: snap.desc,
		Review:      review,
	}
	if snap.aba != "" {
		if form.ABA, err = collector.ReadFile(snap.aba); err != nil {
			return nil, err
		}
	}

	for _, raw := range snap.competitors {
		comp, err := ParseCompetitor(raw)
		if err != nil {
			return nil, err
		}
		form.Competitors = append(form.Competitors, comp)
	}
	return form, nil
}

// ParseCompetitor reads a competitor entry: a URL to fetch, @path to read the
// copy from a file, or the copy itself.
func ParseCompetitor(raw string) (models.CompetitorListing, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		return models.CompetitorListing{URL: raw}, nil
	case strings.HasPrefix(raw, "@"):
		src, err := collector.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return models.CompetitorListing{}, err
		}
		return models.CompetitorListing{Bullets: src.Text}, nil
	default:
		return models.CompetitorListing{Bullets: raw}, nil
	}
}

func (a *App) value(field int) string {
	return strings.TrimSpace(a.state.inputs[field].Value())
}

// showPane renders one pane of the results view and remembers it so a
// resize redraws the same pane.
func (a *App) showPane(pane int) {
	res := a.state.result
	a.state.pane = pane

	switch pane {
	case paneVersion1:
		a.showText(res.Results.Listings.Version1)
	case paneVersion2:
		a.showText(res.Results.Listings.Version2)
	default:
		a.setContent(report.Markdown(res.Input.ProductName, res.Results))
	}
}

func (a *App) showText(listing models.AmazonListing) {
	a.state.rendered = report.PlainText(listing)
	a.state.viewport.SetContent(a.state.rendered)
	a.state.viewport.GotoTop()
}

func (a *App) setContent(md string) {
	rendered := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(a.state.viewport.Width),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			rendered = out
		}
	}
	if err != nil {
		a.logger.Debug("markdown render failed", zap.Error(err))
	}

	a.state.rendered = rendered
	a.state.viewport.SetContent(rendered)
	a.state.viewport.GotoTop()
}

type errMissing []string

func (e errMissing) Error() string {
	return "Please fill in: " + strings.Join(e, ", ")
}
