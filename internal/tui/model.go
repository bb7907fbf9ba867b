package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"tagdesk/internal/config"
	"tagdesk/internal/errors"
	"tagdesk/internal/flow"
	"tagdesk/internal/images"
	"tagdesk/internal/log"
	"tagdesk/internal/tagger"
	"tagdesk/internal/tagstore"
	"tagdesk/internal/tui/common"
	"tagdesk/internal/tui/components"
	"tagdesk/internal/tui/messages"
	"tagdesk/internal/tui/styles"
	"tagdesk/internal/tui/views"
	"tagdesk/internal/watch"
	"tagdesk/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultWidth is used until the terminal reports its size
const defaultWidth = 80

// pendingBatch is a batch edit waiting for confirmation
type pendingBatch struct {
	add bool
	tag string
}

// Model is the terminal tag editor for one folder
type Model struct {
	cfg    *config.Config
	store  tagstore.Editor
	set    *images.Set
	runner *tagger.Runner
	watch  *watch.Watcher

	// AI tagger, built on first use
	taggerName string
	tagger     tagger.Tagger
	task       *tagger.Task

	keys   types.KeyMap
	help   help.Model
	input  textinput.Model
	status *components.StatusBar
	packer flow.Packer

	// Current image state
	mode     types.Mode
	tags     []string
	selected int
	info     types.ImageInfo
	infoOK   bool

	// Set when the input line feeds a batch add instead of a single add
	batchInput bool
	pending    pendingBatch

	width    int
	showHelp bool
}

// Option configures a Model
type Option func(*Model)

// WithStore replaces the tag store, mainly for tests
func WithStore(store tagstore.Editor) Option {
	return func(m *Model) {
		m.store = store
	}
}

// WithTagger selects the AI backend by name instead of tagger.default
func WithTagger(name string) Option {
	return func(m *Model) {
		m.taggerName = name
	}
}

// WithWatcher feeds folder changes from w into the model
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) {
		m.watch = w
	}
}

// New creates an editor on the images of folder
func New(folder string, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	styles.Apply(cfg)

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 256

	m := &Model{
		cfg:      cfg,
		store:    tagstore.NewWithConfig(cfg),
		set:      images.Load(folder),
		runner:   &tagger.Runner{},
		keys:     types.DefaultKeyMap(),
		help:     help.New(),
		input:    input,
		status:   components.NewStatusBar(),
		packer:   flow.Packer{Margin: cfg.Layout.Margin, HSpacing: cfg.Layout.HSpacing, VSpacing: cfg.Layout.VSpacing},
		mode:     types.Normal,
		selected: -1,
		width:    defaultWidth,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.loadCurrent()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.watch != nil {
		return waitForChange(m.watch)
	}
	return nil
}

// View implements tea.Model
func (m *Model) View() string {
	chips := components.RenderChips(m.tags, m.selected, m.width-2, m.packer)
	return views.RenderMainView(m, chips)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.ProgressMsg:
		if m.task == nil || msg.TaskID != m.task.ID() {
			return m, nil
		}
		m.status.SetText(msg.Text)
		return m, waitForProgress(m.task)

	case messages.TaggingDoneMsg:
		return m, m.finishTagging(msg)

	case messages.BatchDoneMsg:
		m.finishBatch(msg)
		return m, nil

	case messages.FolderChangeMsg:
		m.applyChange(msg.Event)
		return m, waitForChange(m.watch)

	case messages.ErrorMsg:
		m.status.SetError(msg.Err)
		return m, nil
	}

	return m, m.status.Update(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.close()
		return m, tea.Quit
	}

	switch m.mode {
	case types.Adding, types.Renaming:
		return m.handleInputKeys(msg)
	case types.Confirm:
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.NextImage):
		if m.set.Advance() {
			m.loadCurrent()
		}

	case key.Matches(msg, m.keys.PrevImage):
		if m.set.Retreat() {
			m.loadCurrent()
		}

	case key.Matches(msg, m.keys.NextTag):
		if m.selected < len(m.tags)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.PrevTag):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.AddTag):
		if _, ok := m.set.Current(); ok {
			m.startInput(types.Adding, "", false)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.RenameTag):
		if tag, ok := m.selectedTag(); ok {
			m.startInput(types.Renaming, tag, false)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.DeleteTag):
		m.deleteSelected()

	case key.Matches(msg, m.keys.AutoTag):
		return m, m.startTagging()

	case key.Matches(msg, m.keys.AddToAll):
		if m.set.Len() > 0 {
			m.startInput(types.Adding, "", true)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.RemoveFromAll):
		if tag, ok := m.selectedTag(); ok {
			m.pending = pendingBatch{add: false, tag: tag}
			m.mode = types.Confirm
		}
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		mode, batch := m.mode, m.batchInput
		m.stopInput()

		switch {
		case mode == types.Adding && batch:
			if value == "" {
				return m, nil
			}
			m.pending = pendingBatch{add: true, tag: value}
			m.mode = types.Confirm
		case mode == types.Adding:
			m.addTag(value)
		case mode == types.Renaming:
			m.renameSelected(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.pending
	m.pending = pendingBatch{}
	m.mode = types.Normal

	if !key.Matches(msg, m.keys.Confirm) {
		m.status.SetText("Cancelled")
		return m, nil
	}
	return m, runBatch(m.store, m.set.Paths(), pending, m.cfg.Position())
}

func (m *Model) startInput(mode types.Mode, value string, batch bool) {
	m.mode = mode
	m.batchInput = batch
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = "tag"
	if batch {
		m.input.Placeholder = "tag for every image"
	}
	m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = types.Normal
	m.batchInput = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) selectedTag() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.tags) {
		return "", false
	}
	return m.tags[m.selected], true
}

// loadCurrent reads the tags and probe data of the image under the cursor
func (m *Model) loadCurrent() {
	m.tags = nil
	m.selected = -1
	m.infoOK = false

	path, ok := m.set.Current()
	if !ok {
		return
	}

	if info, err := images.Probe(path); err == nil {
		m.info, m.infoOK = info, true
	} else {
		log.Debug("Probe failed for %s: %v", path, err)
	}

	m.reloadTags()
}

// reloadTags re-reads the sidecar of the current image and clamps the
// chip selection
func (m *Model) reloadTags() {
	path, ok := m.set.Current()
	if !ok {
		m.tags = nil
		m.selected = -1
		return
	}

	tags, err := m.store.ReadTags(path)
	if err != nil {
		m.status.SetError(err)
		tags = nil
	}
	m.tags = tags

	switch {
	case len(m.tags) == 0:
		m.selected = -1
	case m.selected >= len(m.tags):
		m.selected = len(m.tags) - 1
	case m.selected < 0:
		m.selected = 0
	}
}

func (m *Model) addTag(tag string) {
	path, ok := m.set.Current()
	if !ok {
		return
	}

	added, err := m.store.AddTag(path, tag, m.cfg.Position())
	if err != nil {
		m.status.SetError(err)
		return
	}
	m.reloadTags()
	if !added {
		m.status.SetText(fmt.Sprintf("'%s' is already there", tag))
		return
	}

	for i, t := range m.tags {
		if t == tag {
			m.selected = i
		}
	}
	m.status.SetSuccess(fmt.Sprintf("Added '%s'", tag))
}

func (m *Model) renameSelected(newTag string) {
	path, _ := m.set.Current()
	oldTag, ok := m.selectedTag()
	if !ok {
		return
	}

	if err := m.store.RenameTag(path, oldTag, newTag); err != nil {
		m.status.SetError(err)
		return
	}
	m.reloadTags()
	m.status.SetSuccess(fmt.Sprintf("Renamed '%s'", oldTag))
}

func (m *Model) deleteSelected() {
	path, _ := m.set.Current()
	tag, ok := m.selectedTag()
	if !ok {
		return
	}

	if _, err := m.store.RemoveTag(path, tag); err != nil {
		m.status.SetError(err)
		return
	}
	m.reloadTags()
	m.status.SetSuccess(fmt.Sprintf("Removed '%s'", tag))
}

// startTagging runs the AI tagger on the current image in the background
func (m *Model) startTagging() tea.Cmd {
	path, ok := m.set.Current()
	if !ok {
		return nil
	}
	if m.runner.Busy() {
		m.status.SetError(tagger.ErrBusy)
		return nil
	}

	if m.tagger == nil {
		t, err := tagger.CurrentFactory(m.taggerName, m.cfg)
		if err != nil {
			m.status.SetError(err)
			return nil
		}
		m.tagger = t
	}

	task, err := m.runner.Start(context.Background(), m.tagger, path)
	if err != nil {
		m.status.SetError(err)
		return nil
	}
	m.task = task
	m.status.SetText(fmt.Sprintf("Tagging %s with %s", filepath.Base(path), task.Tagger()))

	return tea.Batch(
		m.status.SetLoading(true),
		waitForProgress(task),
		waitForResult(task),
	)
}

// finishTagging merges a successful result into the tagged image, which
// may no longer be the current one
func (m *Model) finishTagging(msg messages.TaggingDoneMsg) tea.Cmd {
	if m.task != nil && msg.TaskID == m.task.ID() {
		m.task = nil
		m.status.SetLoading(false)
	}

	if msg.Result.Err != nil {
		log.LogWithError(msg.Result.Err).With(log.F("image", msg.Image)).Warn("Tagging failed")
		m.status.SetError(msg.Result.Err)
		return nil
	}

	added, err := m.store.MergeTags(msg.Image, msg.Result.Tags)
	if err != nil {
		m.status.SetError(err)
		return nil
	}

	if current, ok := m.set.Current(); ok && current == msg.Image {
		m.reloadTags()
	}
	m.status.SetSuccess(fmt.Sprintf("%s suggested %d tags, %d new", msg.Tagger, len(msg.Result.Tags), len(added)))
	return nil
}

func (m *Model) finishBatch(msg messages.BatchDoneMsg) {
	if msg.Err != nil {
		m.status.SetError(msg.Err)
		return
	}

	verb := "Removed '%s' from %d images"
	if msg.Add {
		verb = "Added '%s' to %d images"
	}
	text := fmt.Sprintf(verb, msg.Tag, msg.Result.Modified)
	if n := len(msg.Result.Failures); n > 0 {
		text += fmt.Sprintf(", %d failed: %v", n, msg.Result.Failures[0].Err)
		m.status.SetError(errors.New(text))
	} else {
		m.status.SetSuccess(text)
	}

	m.reloadTags()
}

// applyChange reacts to a watcher event
func (m *Model) applyChange(ev watch.Event) {
	switch ev.Kind {
	case watch.ImageChanged:
		before, _ := m.set.Current()
		m.set.Reload()
		if after, _ := m.set.Current(); after != before {
			m.loadCurrent()
			return
		}
		m.reloadTags()
	case watch.SidecarChanged:
		if current, ok := m.set.Current(); ok && tagstore.SidecarPath(current) == ev.Path {
			m.reloadTags()
		}
	}
}

// close releases the AI backend
func (m *Model) close() {
	if m.tagger != nil {
		if err := m.tagger.Close(); err != nil {
			log.Debug("Closing tagger: %v", err)
		}
		m.tagger = nil
	}
}

// Close releases resources held by the editor once the program exits
func (m *Model) Close() {
	m.close()
}

func waitForProgress(task *tagger.Task) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-task.Progress()
		if !ok {
			return nil
		}
		return messages.ProgressMsg{TaskID: task.ID(), Text: text}
	}
}

func waitForResult(task *tagger.Task) tea.Cmd {
	return func() tea.Msg {
		res := task.Wait()
		return messages.TaggingDoneMsg{
			TaskID: task.ID(),
			Tagger: task.Tagger(),
			Image:  task.Image(),
			Result: res,
		}
	}
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return nil
		}
		return messages.FolderChangeMsg{Event: ev}
	}
}

func runBatch(store tagstore.Editor, paths []string, p pendingBatch, pos types.Position) tea.Cmd {
	return func() tea.Msg {
		var res types.BatchResult
		var err error
		if p.add {
			res, err = store.AddTagToAll(paths, p.tag, pos)
		} else {
			res, err = store.RemoveTagFromAll(paths, p.tag)
		}
		return messages.BatchDoneMsg{Add: p.add, Tag: p.tag, Result: res, Err: err}
	}
}

// ModelReader implementation

func (m *Model) Header() common.Header {
	h := common.Header{Index: m.set.Index(), Total: m.set.Len()}
	if path, ok := m.set.Current(); ok {
		h.Name = filepath.Base(path)
	}
	if m.infoOK {
		h.Info = m.info.Summary()
	}
	return h
}

func (m *Model) Tags() []string {
	out := make([]string, len(m.tags))
	copy(out, m.tags)
	return out
}

func (m *Model) Selected() int    { return m.selected }
func (m *Model) Mode() types.Mode { return m.mode }
func (m *Model) Width() int       { return m.width }

func (m *Model) Prompt() string {
	if m.pending.tag == "" {
		return ""
	}
	if m.pending.add {
		return fmt.Sprintf("Add '%s' to %d images?", m.pending.tag, m.set.Len())
	}
	return fmt.Sprintf("Remove '%s' from %d images?", m.pending.tag, m.set.Len())
}

func (m *Model) InputView() string { return m.input.View() }

func (m *Model) StatusView() string {
	mode := styles.Theme.Info.Render("[" + m.mode.String() + "]")
	if s := m.status.View(); s != "" {
		return mode + " " + s
	}
	return mode
}

func (m *Model) HelpView() string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// Folder returns the folder being edited
func (m *Model) Folder() string { return m.set.Folder() }

// Current returns the image being edited
func (m *Model) Current() (string, bool) { return m.set.Current() }

// Status returns the text of the status bar
func (m *Model) Status() string { return m.status.Text() }

// Busy reports whether an AI task is running
func (m *Model) Busy() bool { return m.runner.Busy() }
