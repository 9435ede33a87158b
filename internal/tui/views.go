package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewAnalyzing:
		return a.renderAnalyzing()
	case viewResults:
		return a.renderResults()
	default:
		return a.renderInput()
	}
}

var fieldLabels = [fieldCount]string{
	fieldName:        "Product name",
	fieldDesc:        "Description",
	fieldReview:      "Review / VOC file",
	fieldABA:         "ABA report file",
	fieldCompetitor1: "Competitor 1",
	fieldCompetitor2: "Competitor 2",
	fieldCompetitor3: "Competitor 3",
}

func (a *App) renderInput() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Listing Expert"))
	b.WriteString("\n")
	b.WriteString(styleSubtitle.Render("ABA keywords, competitor copy and reviews in; two Amazon listings out."))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		label := styleLabel.Render(fieldLabels[i])
		if i == fieldName || i == fieldDesc || i == fieldReview {
			label += styleRequired.Render(" *")
		}
		b.WriteString(label)
		b.WriteString("\n")
		if i == fieldDesc {
			b.WriteString(a.state.desc.View())
		} else {
			b.WriteString(a.state.inputs[i].View())
		}
		b.WriteString("\n\n")
	}

	if a.state.err != nil {
		b.WriteString(styleError.Render(errorText(a.state.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(styleStatusBar.Render("[Tab] Next  [Shift+Tab] Back  [Ctrl+S] Analyze  [Esc] Quit"))
	return b.String()
}

func (a *App) renderAnalyzing() string {
	var b strings.Builder

	title := styleTitle.Render("Analyzing")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	stages := []string{
		"Decomposing keyword roots",
		"Breaking down competitor copy",
		"Detecting VOC pain points",
		"Writing two listing versions",
	}
	box := styleBox.Width(min(50, max(a.width-4, 20))).Render(strings.Join(stages, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%s %s", a.state.spinner.View(), "Waiting for the model...")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(status)))

	return a.centerVertically(b.String())
}

func (a *App) renderResults() string {
	var b strings.Builder

	name := ""
	if a.state.result != nil {
		name = a.state.result.Input.ProductName
	}
	b.WriteString(styleTitle.Render("Results: " + name))
	b.WriteString("\n")
	b.WriteString(a.state.viewport.View())
	b.WriteString("\n")
	b.WriteString(styleStatusBar.Render(fmt.Sprintf(
		"[r] Report  [1] Copy text v1  [2] Copy text v2  [n] New analysis  [q] Quit  %3.f%%",
		a.state.viewport.ScrollPercent()*100)))
	return b.String()
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}

// errorText shows local errors (missing fields, unreadable files) as is and
// analysis failures through the generic notice plus their kind.
func errorText(err error) string {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	return fmt.Sprintf("%s (%s)", apperrors.UserMessage(err), appErr.Type)
}
