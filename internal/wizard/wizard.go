// Package wizard implements the interactive terminal wizard: pick an output
// folder, check files and folders to include, choose which extensions should
// have their contents embedded, then run the same engine the scan command uses.
package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dirscribe/dirscribe/internal/analyzer"
	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/tokenizer"
	"github.com/dirscribe/dirscribe/internal/utils"
)

// wizardStep identifies the form currently shown.
type wizardStep int

const (
	stepOutputDirectory wizardStep = iota
	stepSelection
	stepExtensions
	stepSummary
)

const (
	stepCount = 4

	outputPlaceholder = "./output"

	errorBuildTreeFormat = "building selection tree for %s: %w"
	errorRunWizardFormat = "running wizard: %w"
	errorStageFormat     = "staging selection: %w"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Model is the bubbletea model driving the wizard. Once the program finishes,
// Run inspects the final model for the confirmed choices.
type Model struct {
	settings   config.Settings
	targetPath string
	counter    tokenizer.Counter

	step      wizardStep
	outputDir textinput.Model

	root    *selectionNode
	visible []*selectionNode
	cursor  int

	selectedFiles   int
	selectedFolders int
	selectedBytes   int64
	selectedTokens  int

	extensions        []string
	extensionSelected map[string]bool
	extensionCursor   int

	confirmed bool
	quitting  bool
}

func newModel(settings config.Settings, targetPath string, root *selectionNode, counter tokenizer.Counter) *Model {
	outputInput := textinput.New()
	outputInput.Placeholder = outputPlaceholder
	outputInput.SetValue(settings.OutputDirectory)
	outputInput.Focus()
	outputInput.CharLimit = 250
	outputInput.Width = 48

	root.expanded = true
	return &Model{
		settings:          settings,
		targetPath:        targetPath,
		counter:           counter,
		outputDir:         outputInput,
		root:              root,
		visible:           flattenVisible(root),
		extensionSelected: map[string]bool{},
	}
}

// Init implements tea.Model.
func (model *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (model *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, isKey := message.(tea.KeyMsg)
	if isKey && keyMessage.Type == tea.KeyCtrlC {
		model.quitting = true
		return model, tea.Quit
	}

	switch model.step {
	case stepOutputDirectory:
		return model.updateOutputStep(message)
	case stepSelection:
		if isKey {
			return model.updateSelectionStep(keyMessage)
		}
	case stepExtensions:
		if isKey {
			return model.updateExtensionsStep(keyMessage)
		}
	case stepSummary:
		if isKey {
			return model.updateSummaryStep(keyMessage)
		}
	}
	return model, nil
}

func (model *Model) updateOutputStep(message tea.Msg) (tea.Model, tea.Cmd) {
	if keyMessage, isKey := message.(tea.KeyMsg); isKey {
		switch keyMessage.Type {
		case tea.KeyEnter:
			if strings.TrimSpace(model.outputDir.Value()) == "" {
				model.outputDir.SetValue(model.settings.OutputDirectory)
			}
			model.step = stepSelection
			return model, nil
		case tea.KeyEsc:
			model.quitting = true
			return model, tea.Quit
		}
	}
	var command tea.Cmd
	model.outputDir, command = model.outputDir.Update(message)
	return model, command
}

func (model *Model) updateSelectionStep(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "q", "esc":
		model.quitting = true
		return model, tea.Quit
	case "up", "k":
		if model.cursor > 0 {
			model.cursor--
		}
	case "down", "j":
		if model.cursor < len(model.visible)-1 {
			model.cursor++
		}
	case "right", "l":
		if node := model.currentNode(); node != nil && node.entry.IsDir && !node.expanded {
			node.expanded = true
			model.rebuildVisible(node)
		}
	case "left", "h":
		if node := model.currentNode(); node != nil {
			if node.entry.IsDir && node.expanded {
				node.expanded = false
				model.rebuildVisible(node)
			} else if node.parent != nil {
				node.parent.expanded = false
				model.rebuildVisible(node.parent)
			}
		}
	case " ":
		if node := model.currentNode(); node != nil {
			nextState := selectionFull
			if node.state == selectionFull || node.state == selectionPartial {
				nextState = selectionNone
			}
			setSelection(node, nextState)
			model.updateStats()
		}
	case "a":
		nextState := selectionFull
		if model.root.state != selectionNone {
			nextState = selectionNone
		}
		setSelection(model.root, nextState)
		model.updateStats()
	case "b":
		model.step = stepOutputDirectory
	case "enter", "n":
		model.prepareExtensions()
		model.step = stepExtensions
	}
	return model, nil
}

func (model *Model) updateExtensionsStep(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "q", "esc":
		model.quitting = true
		return model, tea.Quit
	case "up", "k":
		if model.extensionCursor > 0 {
			model.extensionCursor--
		}
	case "down", "j":
		if model.extensionCursor < len(model.extensions)-1 {
			model.extensionCursor++
		}
	case " ":
		if len(model.extensions) > 0 {
			extension := model.extensions[model.extensionCursor]
			model.extensionSelected[extension] = !model.extensionSelected[extension]
		}
	case "a":
		for _, extension := range model.extensions {
			model.extensionSelected[extension] = true
		}
	case "x":
		for _, extension := range model.extensions {
			model.extensionSelected[extension] = false
		}
	case "b":
		model.step = stepSelection
	case "enter", "n":
		model.step = stepSummary
	}
	return model, nil
}

func (model *Model) updateSummaryStep(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "q", "esc":
		model.quitting = true
		return model, tea.Quit
	case "b":
		model.step = stepExtensions
	case "enter":
		model.confirmed = true
		return model, tea.Quit
	}
	return model, nil
}

// View implements tea.Model.
func (model *Model) View() string {
	if model.quitting || model.confirmed {
		return ""
	}
	var view strings.Builder
	fmt.Fprintf(&view, "%s\n\n", titleStyle.Render(fmt.Sprintf("dirscribe wizard (step %d of %d)", int(model.step)+1, stepCount)))

	switch model.step {
	case stepOutputDirectory:
		view.WriteString(headerStyle.Render("Where should the rendered file be written?") + "\n\n")
		view.WriteString(model.outputDir.View() + "\n\n")
		view.WriteString(helpStyle.Render("enter: continue • esc: cancel") + "\n")
	case stepSelection:
		view.WriteString(headerStyle.Render("Check the files and folders to include (empty selection scans everything).") + "\n\n")
		model.renderSelectionRows(&view)
		view.WriteString("\n" + model.statsLine() + "\n")
		view.WriteString(helpStyle.Render("space: toggle • a: toggle all • ←/→: collapse/expand • enter: continue • b: back • q: quit") + "\n")
	case stepExtensions:
		view.WriteString(headerStyle.Render("Choose which extensions should have their contents embedded.") + "\n\n")
		model.renderExtensionRows(&view)
		view.WriteString("\n" + helpStyle.Render("space: toggle • a: all • x: none • enter: continue • b: back • q: quit") + "\n")
	case stepSummary:
		model.renderSummary(&view)
		view.WriteString("\n" + helpStyle.Render("enter: run analysis • b: back • q: quit") + "\n")
	}
	return view.String()
}

func (model *Model) renderSelectionRows(view *strings.Builder) {
	for index, node := range model.visible {
		cursor := " "
		if index == model.cursor {
			cursor = cursorStyle.Render(">")
		}
		checkbox := " "
		switch node.state {
		case selectionFull:
			checkbox = selectedStyle.Render("x")
		case selectionPartial:
			checkbox = selectedStyle.Render("-")
		}
		marker := "  "
		if node.entry.IsDir {
			marker = "▸ "
			if node.expanded {
				marker = "▾ "
			}
		}
		indent := strings.Repeat("  ", node.depth)
		fmt.Fprintf(view, "%s [%s] %s%s%s\n", cursor, checkbox, indent, marker, node.entry.Name)
	}
}

func (model *Model) renderExtensionRows(view *strings.Builder) {
	if len(model.extensions) == 0 {
		view.WriteString(helpStyle.Render("No file extensions in the current selection.") + "\n")
		return
	}
	for index, extension := range model.extensions {
		cursor := " "
		if index == model.extensionCursor {
			cursor = cursorStyle.Render(">")
		}
		checkbox := " "
		if model.extensionSelected[extension] {
			checkbox = selectedStyle.Render("x")
		}
		fmt.Fprintf(view, "%s [%s] %s\n", cursor, checkbox, extension)
	}
}

func (model *Model) renderSummary(view *strings.Builder) {
	view.WriteString(headerStyle.Render("Ready to analyze.") + "\n\n")
	fmt.Fprintf(view, "Target folder:  %s\n", model.targetPath)
	fmt.Fprintf(view, "Output folder:  %s\n", model.outputDir.Value())
	fmt.Fprintf(view, "Selection:      %d files, %d folders\n", model.selectedFiles, model.selectedFolders)
	fmt.Fprintf(view, "Content types:  %d\n", len(model.chosenExtensions()))
}

func (model *Model) statsLine() string {
	line := fmt.Sprintf("Selected: %d files, %d folders | Size: %s", model.selectedFiles, model.selectedFolders, utils.FormatFileSize(model.selectedBytes))
	if model.counter != nil {
		line += fmt.Sprintf(" | Tokens: %d", model.selectedTokens)
	}
	return line
}

func (model *Model) currentNode() *selectionNode {
	if model.cursor < 0 || model.cursor >= len(model.visible) {
		return nil
	}
	return model.visible[model.cursor]
}

// rebuildVisible refreshes the flattened row list after expand/collapse and
// keeps the cursor on the same node.
func (model *Model) rebuildVisible(keep *selectionNode) {
	model.visible = flattenVisible(model.root)
	for index, node := range model.visible {
		if node == keep {
			model.cursor = index
			return
		}
	}
	if model.cursor >= len(model.visible) {
		model.cursor = len(model.visible) - 1
	}
}

// updateStats recomputes the selection counters shown under the tree.
func (model *Model) updateStats() {
	model.selectedFiles = 0
	model.selectedFolders = 0
	model.selectedBytes = 0
	model.selectedTokens = 0
	model.accumulateStats(model.root)
}

func (model *Model) accumulateStats(node *selectionNode) {
	if node.state == selectionNone {
		return
	}
	if node.entry.IsDir {
		if node.state == selectionFull {
			model.selectedFolders++
		}
		for _, child := range node.children {
			model.accumulateStats(child)
		}
		return
	}
	if node.state != selectionFull {
		return
	}
	model.selectedFiles++
	if info, statError := os.Stat(node.entry.Path); statError == nil {
		model.selectedBytes += info.Size()
	}
	if model.counter != nil {
		if content, readError := os.ReadFile(node.entry.Path); readError == nil {
			if count, countError := model.counter.CountString(string(content)); countError == nil {
				model.selectedTokens += count
			}
		}
	}
}

// prepareExtensions derives the extension candidates from the current
// selection, pre-seeding choices from the persisted configuration.
func (model *Model) prepareExtensions() {
	model.extensions = selectedExtensions(model.root)
	model.extensionCursor = 0
	for _, extension := range model.extensions {
		if _, known := model.extensionSelected[extension]; known {
			continue
		}
		model.extensionSelected[extension] = containsExtension(model.settings.IncludeFileContents, extension)
	}
}

func (model *Model) chosenExtensions() []string {
	var chosen []string
	for _, extension := range model.extensions {
		if model.extensionSelected[extension] {
			chosen = append(chosen, extension)
		}
	}
	return chosen
}

// selectionPaths lists the roots of the fully-selected subtrees. The root
// node itself selected means "scan everything": no staging is needed.
func (model *Model) selectionPaths() []string {
	if model.root.state == selectionFull {
		return nil
	}
	var nodes []*selectionNode
	collectSelection(model.root, &nodes)
	paths := make([]string, 0, len(nodes))
	for _, node := range nodes {
		paths = append(paths, node.entry.Path)
	}
	return paths
}

// applySettings overlays the wizard's choices onto the run configuration.
func (model *Model) applySettings(settings config.Settings) config.Settings {
	result := settings
	result.OutputDirectory = model.outputDir.Value()
	result.OutputToFile = true
	result.IncludeFileContents = config.NormalizeExtensions(model.chosenExtensions())
	return result
}

func containsExtension(extensions []string, target string) bool {
	for _, extension := range extensions {
		if extension == target {
			return true
		}
	}
	return false
}

// Run executes the wizard against targetPath and, when the user confirms,
// stages the selection into a scratch directory and renders it with the same
// engine the scan command uses. The persisted configuration is updated with
// the chosen extensions, mirroring how a saved wizard run seeds the next one.
func Run(settings config.Settings, logger *zap.Logger, targetPath string, configPath string) error {
	absoluteTarget, absolutePathError := filepath.Abs(targetPath)
	if absolutePathError != nil {
		absoluteTarget = filepath.Clean(targetPath)
	}
	root, buildError := buildSelectionNode(absoluteTarget, filepath.Base(absoluteTarget), 0, settings, nil)
	if buildError != nil {
		return fmt.Errorf(errorBuildTreeFormat, targetPath, buildError)
	}

	counter, counterError := tokenizer.NewCounter()
	if counterError != nil {
		counter = nil
	}

	program := tea.NewProgram(newModel(settings, absoluteTarget, root, counter))
	finalModel, runError := program.Run()
	if runError != nil {
		return fmt.Errorf(errorRunWizardFormat, runError)
	}
	wizardModel, isModel := finalModel.(*Model)
	if !isModel || !wizardModel.confirmed {
		return nil
	}

	runSettings := wizardModel.applySettings(settings)
	if configPath != "" {
		if saveError := config.Save(configPath, runSettings); saveError != nil && logger != nil {
			logger.Warn(fmt.Sprintf("failed to persist wizard configuration: %v", saveError))
		}
	}

	scanRoot := absoluteTarget
	if selection := wizardModel.selectionPaths(); len(selection) > 0 {
		stagedRoot, cleanup, stageError := Stage(absoluteTarget, selection, runSettings)
		if stageError != nil {
			return fmt.Errorf(errorStageFormat, stageError)
		}
		defer cleanup()
		scanRoot = stagedRoot
	}

	runner := analyzer.New(runSettings, logger)
	_, analyzeError := runner.Run(scanRoot)
	return analyzeError
}
