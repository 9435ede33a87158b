package tui

import (
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Input fields in focus order. fieldDesc is the textarea; the rest are
// single-line inputs.
const (
	fieldName = iota
	fieldDesc
	fieldReview
	fieldABA
	fieldCompetitor1
	fieldCompetitor2
	fieldCompetitor3
	fieldCount
)

// Panes of the results view.
const (
	paneReport = iota
	paneVersion1
	paneVersion2
)

type state struct {
	// Input
	inputs [fieldCount]textinput.Model
	desc   textarea.Model
	focus  int

	// Analyzing
	busy    bool
	spinner spinner.Model

	// Results
	result   *service.Result
	pane     int
	rendered string
	viewport viewport.Model

	// Last submission error, shown on the input view
	err error
}

func newState() *state {
	s := &state{
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: viewport.New(80, 20),
	}

	placeholders := [fieldCount]string{
		fieldName:        "Ergo Chair",
		fieldReview:      "path/to/reviews.txt",
		fieldABA:         "path/to/aba_report.csv (optional)",
		fieldCompetitor1: "bullet text, a URL, or @file",
		fieldCompetitor2: "bullet text, a URL, or @file",
		fieldCompetitor3: "bullet text, a URL, or @file",
	}
	for i := range s.inputs {
		if i == fieldDesc {
			continue
		}
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 2000
		in.Width = 60
		s.inputs[i] = in
	}

	s.desc = textarea.New()
	s.desc.Placeholder = "What is the product and what makes it different?"
	s.desc.SetWidth(62)
	s.desc.SetHeight(4)
	s.desc.ShowLineNumbers = false

	s.inputs[fieldName].Focus()
	return s
}

func (s *state) setFocus(i int) {
	if i < 0 {
		i = fieldCount - 1
	}
	i %= fieldCount

	for j := range s.inputs {
		if j != fieldDesc {
			s.inputs[j].Blur()
		}
	}
	s.desc.Blur()

	s.focus = i
	if i == fieldDesc {
		s.desc.Focus()
		return
	}
	s.inputs[i].Focus()
}

func (s *state) reset() {
	for i := range s.inputs {
		if i != fieldDesc {
			s.inputs[i].Reset()
		}
	}
	s.desc.Reset()
	s.result = nil
	s.pane = paneReport
	s.rendered = ""
	s.err = nil
	s.setFocus(fieldName)
}
