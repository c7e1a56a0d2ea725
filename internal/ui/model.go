package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/stylematch/internal/compare"
	"github.com/nconklindev/stylematch/internal/config"
	"github.com/nconklindev/stylematch/internal/export"
	"github.com/nconklindev/stylematch/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type state int

const (
	statePickPrimary state = iota
	statePickReference
	stateProcessing
	stateComplete
	stateError
)

// previewRows caps how many matched rows the result screen lists.
const previewRows = 5

type Model struct {
	state         state
	cfg           *config.Config
	session       *compare.Session
	filepicker    filepicker.Model
	primaryFile   string
	referenceFile string
	result        *types.MatchResult
	status        compare.Status
	formatCursor  int
	exported      string
	exportErr     error
	width         int
	height        int
	progress      progress.Model
	progressChan  chan float64
	resultChan    chan comparisonResultMsg
}

type comparisonResultMsg struct {
	result *types.MatchResult
	err    error
}

type comparisonCompleteMsg struct {
	result *types.MatchResult
	err    error
}

type exportDoneMsg struct {
	path string
	size int
	err  error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(cfg *config.Config) Model {
	// Initialize progress bar
	prog := progress.New(progress.WithGradient(string(colorAccent), string(colorMatch)))

	return Model{
		state:      statePickPrimary,
		cfg:        cfg,
		session:    compare.NewSession(compare.OptionsFrom(cfg)),
		filepicker: newFilePicker(""),
		progress:   prog,
	}
}

func newFilePicker(dir string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	if dir == "" {
		dir, _ = os.Getwd()
	}
	fp.CurrentDirectory = dir

	fp.Styles = pickerStyles()

	return fp
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filepicker.SetHeight(pickerHeight(msg.Height))
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case statePickPrimary, statePickReference:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateProcessing:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case stateComplete:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			case "r":
				return m.restart()
			case "left", "h", "up", "k":
				if m.formatCursor > 0 {
					m.formatCursor--
				}
			case "right", "l", "down", "j", "tab":
				if m.formatCursor < len(export.Formats)-1 {
					m.formatCursor++
				}
			case "enter":
				return m, m.exportFile(export.Formats[m.formatCursor])
			}
			return m, nil

		case stateError:
			switch msg.String() {
			case "r":
				return m.restart()
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case comparisonCompleteMsg:
		m.result = msg.result
		m.status = compare.StatusFor(msg.result, msg.err)
		if msg.err != nil {
			m.state = stateError
			cmd := m.progress.SetPercent(0)
			return m, cmd
		}
		m.state = stateComplete
		return m, nil

	case exportDoneMsg:
		m.exportErr = msg.err
		m.exported = ""
		if msg.err == nil {
			m.exported = fmt.Sprintf("%s (%s)", msg.path, humanize.Bytes(uint64(msg.size)))
		}
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == statePickPrimary || m.state == statePickReference {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.selectFile(path)
		}

		return m, cmd
	}

	return m, nil
}

// selectFile records a picked file and advances to the next step.
func (m Model) selectFile(path string) (Model, tea.Cmd) {
	if m.state == statePickPrimary {
		m.primaryFile = path
		m.state = statePickReference
		m.filepicker = newFilePicker(filepath.Dir(path))
		m.filepicker.SetHeight(pickerHeight(m.height))
		return m, m.filepicker.Init()
	}

	m.referenceFile = path
	m.state = stateProcessing
	return m.compareFiles()
}

func (m Model) restart() (Model, tea.Cmd) {
	next := InitialModel(m.cfg)
	next.width = m.width
	next.height = m.height
	next.filepicker = newFilePicker(filepath.Dir(m.primaryFile))
	next.filepicker.SetHeight(pickerHeight(m.height))
	next.session = m.session
	return next, next.filepicker.Init()
}

func (m Model) compareFiles() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan comparisonResultMsg, 1)

	cmd := tea.Batch(
		func() tea.Msg {
			// Capture channels for the goroutine
			progressChan := m.progressChan
			resultChan := m.resultChan
			session := m.session
			primaryFile := m.primaryFile
			referenceFile := m.referenceFile
			maxSize := m.cfg.MaxFileSize

			go func() {
				var result *types.MatchResult

				primary, reference, err := compare.ReadInputs(context.Background(), primaryFile, referenceFile, maxSize)
				if err == nil {
					result, err = session.Run(primary, reference, progressChan)
				}

				// Send result
				resultChan <- comparisonResultMsg{result: result, err: err}

				// Close channels
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan comparisonResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return comparisonCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

// exportFile writes the stored result next to the primary file.
func (m Model) exportFile(format export.Format) tea.Cmd {
	session := m.session
	dir := filepath.Dir(m.primaryFile)

	return func() tea.Msg {
		payload, err := session.Export(format)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		path := filepath.Join(dir, payload.Filename)
		if err := os.WriteFile(path, payload.Data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, size: len(payload.Data)}
	}
}

// pickerHeight leaves room for the title, subtitle and help text.
func pickerHeight(total int) int {
	height := total - 14
	if height < 5 {
		height = 5 // Minimum height
	}
	return height
}

func (m Model) View() string {
	switch m.state {
	case statePickPrimary, statePickReference:
		return m.viewFilePicker()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(bannerStyle.Render("STYLE MATCH"))
	s.WriteString("\n")
	s.WriteString(captionStyle.Render(fmt.Sprintf("%s rows whose %q appears in %s %q",
		m.cfg.PrimaryLabel, m.cfg.PrimaryColumn, m.cfg.ReferenceLabel, m.cfg.ReferenceColumn)))
	s.WriteString("\n\n")

	current := 1
	if m.state == statePickReference {
		current = 2
	}

	primary := m.cfg.PrimaryLabel
	if m.primaryFile != "" {
		primary += ": " + filepath.Base(m.primaryFile)
	}
	s.WriteString(stepBadge(1, current) + " " + primary + "\n")
	s.WriteString(stepBadge(2, current) + " " + m.cfg.ReferenceLabel + "\n\n")

	s.WriteString(m.filepicker.View())
	s.WriteString("\n")
	s.WriteString(keysStyle.Render("enter: pick CSV/XLSX • q: quit"))

	return s.String()
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(bannerStyle.Render("COMPARING"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s ↔ %s", filepath.Base(m.primaryFile), filepath.Base(m.referenceFile)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return panelStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(outcomeStyle(m.status.Kind).Render(m.status.Message))
	s.WriteString("\n")

	if m.status.Kind == compare.StatusNoMatch {
		s.WriteString(keysStyle.Render("r: compare other files • q: quit"))
		return panelStyle.Render(s.String())
	}
	s.WriteString("\n")

	col := m.cfg.PrimaryColumn
	var preview []string
	for i, row := range m.result.Rows {
		if i == previewRows {
			preview = append(preview, captionStyle.Render(fmt.Sprintf("… and %d more", len(m.result.Rows)-previewRows)))
			break
		}
		preview = append(preview, keyOf(m.result.Header, row, col))
	}
	s.WriteString(matchRowStyle.Render(strings.Join(preview, "\n")))
	s.WriteString("\n\n")

	chips := []string{"Export as"}
	for i, f := range export.Formats {
		if m.formatCursor == i {
			chips = append(chips, activeChipStyle.Render(string(f)))
		} else {
			chips = append(chips, chipStyle.Render(string(f)))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, chips...))
	s.WriteString("\n")

	if m.exported != "" {
		s.WriteString("\n")
		s.WriteString(outcomeStyle(compare.StatusSuccess).Render("Saved " + truncatePath(m.exported, m.width-20)))
		s.WriteString("\n")
	}
	if m.exportErr != nil {
		s.WriteString("\n")
		s.WriteString(outcomeStyle(compare.StatusError).Render(compare.StatusFor(nil, m.exportErr).Message))
		s.WriteString("\n")
	}

	s.WriteString(keysStyle.Render("←/→: format • enter: save " + m.cfg.OutputName + "." + string(export.Formats[m.formatCursor]) + " • r: compare other files • q: quit"))

	return panelStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(outcomeStyle(compare.StatusError).Render("✗ " + m.status.Message))
	if m.status.Hint != "" {
		s.WriteString("\n")
		s.WriteString(captionStyle.Render(m.status.Hint))
	}
	s.WriteString("\n")
	s.WriteString(keysStyle.Render("r: start over • q: quit"))

	return panelStyle.Render(s.String())
}

func keyOf(header, row types.Row, column string) string {
	for i, cell := range header {
		if cell.Text == column {
			return row.At(i).Text
		}
	}
	return strings.Join(row.Strings(), ", ")
}

// truncatePath keeps the tail of long paths, counting runes so multi-byte
// characters are never split.
func truncatePath(path string, maxLen int) string {
	if maxLen < 30 {
		maxLen = 30
	}
	runes := []rune(path)
	if len(runes) > maxLen {
		return "..." + string(runes[len(runes)-maxLen+3:])
	}
	return path
}
