//go:build !nogui
// +build !nogui

package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"tagdesk/internal/config"
	"tagdesk/internal/flow"
	"tagdesk/internal/images"
	"tagdesk/internal/log"
	"tagdesk/internal/tagger"
	"tagdesk/internal/tagstore"
	"tagdesk/internal/watch"
	"tagdesk/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Editor is the desktop tag editor window
type Editor struct {
	app    fyne.App
	win    fyne.Window
	cfg    *config.Config
	store  tagstore.Editor
	runner *tagger.Runner

	// set is shared with the watcher goroutine
	mu  sync.Mutex
	set *images.Set

	// AI backends by name, built on first use
	taggers  map[string]tagger.Tagger
	lastTask *tagger.Task

	image     *canvas.Image
	nameLabel *widget.Label
	infoLabel *widget.Label
	chips     *fyne.Container
	entry     *widget.Entry
	position  *widget.Select
	status    *widget.Label
	prevBtn   *widget.Button
	nextBtn   *widget.Button
	aiButtons []*widget.Button

	watcher *watch.Watcher
}

// aiAction is one AI button
type aiAction struct {
	label  string
	tagger string
}

var aiActions = []aiAction{
	{label: "Run WD Tagger", tagger: "wd"},
	{label: "Caption", tagger: "gemini"},
}

// NewEditor builds the editor window for folder inside a
func NewEditor(a fyne.App, folder string, cfg *config.Config) *Editor {
	if cfg == nil {
		cfg = config.New()
	}

	e := &Editor{
		app:     a,
		cfg:     cfg,
		store:   tagstore.NewWithConfig(cfg),
		runner:  &tagger.Runner{},
		set:     images.Load(folder),
		taggers: map[string]tagger.Tagger{},
	}

	e.win = a.NewWindow("tagdesk")
	e.win.SetContent(e.buildUI())
	e.win.Resize(fyne.NewSize(1000, 700))
	e.win.SetOnClosed(e.close)
	e.win.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", fyne.NewMenuItem("Open Folder...", e.openFolder)),
	))

	e.refresh()
	return e
}

// Window returns the editor window
func (e *Editor) Window() fyne.Window {
	return e.win
}

func (e *Editor) buildUI() fyne.CanvasObject {
	e.image = canvas.NewImageFromResource(nil)
	e.image.FillMode = canvas.ImageFillContain
	e.image.SetMinSize(fyne.NewSize(320, 240))

	e.nameLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	e.infoLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	e.prevBtn = widget.NewButton("Previous", e.prev)
	e.nextBtn = widget.NewButton("Next", e.next)

	layout := e.cfg.Layout
	e.chips = container.New(NewFlowLayout(flow.Packer{
		Margin:   layout.Margin,
		HSpacing: layout.HSpacing,
		VSpacing: layout.VSpacing,
	}))

	e.entry = widget.NewEntry()
	e.entry.SetPlaceHolder("New tag")
	e.entry.OnSubmitted = func(string) { e.addTag() }

	e.position = widget.NewSelect([]string{types.End.String(), types.Start.String()}, nil)
	e.position.SetSelected(e.cfg.Position().String())

	for _, action := range aiActions {
		name := action.tagger
		e.aiButtons = append(e.aiButtons, widget.NewButton(action.label, func() { e.runTagger(name) }))
	}

	e.status = widget.NewLabel("")

	nav := container.NewBorder(nil, nil, e.prevBtn, e.nextBtn,
		container.NewVBox(e.nameLabel, e.infoLabel))
	left := container.NewBorder(nil, nav, nil, nil, e.image)

	ai := container.NewHBox()
	for _, b := range e.aiButtons {
		ai.Add(b)
	}

	input := container.NewBorder(nil, nil, nil,
		container.NewHBox(e.position, widget.NewButton("Add", e.addTag)), e.entry)
	batch := container.NewGridWithColumns(2,
		widget.NewButton("Add to All", e.confirmAddToAll),
		widget.NewButton("Remove from All", e.confirmRemoveFromAll),
	)

	right := container.NewBorder(
		container.NewVBox(widget.NewLabel("Tags (click to remove, right click to edit)")),
		container.NewVBox(ai, input, batch),
		nil, nil,
		container.NewVScroll(e.chips),
	)

	split := container.NewHSplit(left, right)
	split.Offset = 0.6

	return container.NewBorder(nil, e.status, nil, nil, split)
}

// current returns the image under the cursor
func (e *Editor) current() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set.Current()
}

// refresh redraws everything that depends on the current image
func (e *Editor) refresh() {
	e.mu.Lock()
	path, ok := e.set.Current()
	index, total := e.set.Index(), e.set.Len()
	e.mu.Unlock()

	e.prevBtn.Enable()
	e.nextBtn.Enable()
	if index <= 0 {
		e.prevBtn.Disable()
	}
	if index < 0 || index >= total-1 {
		e.nextBtn.Disable()
	}

	if !ok {
		e.nameLabel.SetText("No image loaded")
		e.infoLabel.SetText("")
		e.image.File = ""
		e.image.Refresh()
		e.setChips(nil)
		return
	}

	e.nameLabel.SetText(fmt.Sprintf("%s (%d/%d)", filepath.Base(path), index+1, total))
	if info, err := images.Probe(path); err == nil {
		e.infoLabel.SetText(info.Summary())
	} else {
		e.infoLabel.SetText("")
	}
	e.image.File = path
	e.image.Refresh()

	e.loadTags()
}

// loadTags re-reads the current sidecar into the chip area
func (e *Editor) loadTags() {
	path, ok := e.current()
	if !ok {
		e.setChips(nil)
		return
	}

	tags, err := e.store.ReadTags(path)
	if err != nil {
		e.showError(err)
		tags = nil
	}
	e.setChips(tags)
}

func (e *Editor) setChips(tags []string) {
	objects := make([]fyne.CanvasObject, 0, len(tags))
	for _, tag := range tags {
		objects = append(objects, newChip(tag, e.removeTag, e.editTag))
	}
	e.chips.Objects = objects
	e.chips.Refresh()
}

// Tags returns the tags shown as chips
func (e *Editor) Tags() []string {
	tags := make([]string, 0, len(e.chips.Objects))
	for _, o := range e.chips.Objects {
		if c, ok := o.(*chip); ok {
			tags = append(tags, c.tag)
		}
	}
	return tags
}

func (e *Editor) next() {
	e.mu.Lock()
	moved := e.set.Advance()
	e.mu.Unlock()
	if moved {
		e.refresh()
	}
}

func (e *Editor) prev() {
	e.mu.Lock()
	moved := e.set.Retreat()
	e.mu.Unlock()
	if moved {
		e.refresh()
	}
}

func (e *Editor) selectedPosition() types.Position {
	return types.ParsePosition(e.position.Selected)
}

func (e *Editor) addTag() {
	path, ok := e.current()
	tag := e.entry.Text
	if !ok || tag == "" {
		return
	}

	added, err := e.store.AddTag(path, tag, e.selectedPosition())
	if err != nil {
		e.showError(err)
		return
	}
	e.entry.SetText("")
	e.loadTags()
	if added {
		e.status.SetText(fmt.Sprintf("Added '%s'", tag))
	}
}

func (e *Editor) removeTag(tag string) {
	path, ok := e.current()
	if !ok {
		return
	}
	if _, err := e.store.RemoveTag(path, tag); err != nil {
		e.showError(err)
		return
	}
	e.loadTags()
	e.status.SetText(fmt.Sprintf("Removed '%s'", tag))
}

func (e *Editor) editTag(oldTag string) {
	entry := widget.NewEntry()
	entry.SetText(oldTag)
	dialog.ShowForm("Edit Tag", "Rename", "Cancel", []*widget.FormItem{
		widget.NewFormItem("New tag", entry),
	}, func(ok bool) {
		if ok {
			e.renameTag(oldTag, entry.Text)
		}
	}, e.win)
}

func (e *Editor) renameTag(oldTag, newTag string) {
	path, ok := e.current()
	if !ok {
		return
	}
	if err := e.store.RenameTag(path, oldTag, newTag); err != nil {
		e.showError(err)
		return
	}
	e.loadTags()
}

func (e *Editor) confirmAddToAll() {
	tag := e.entry.Text
	if tag == "" {
		dialog.ShowInformation("Add to All", "Please enter a tag to add to all images.", e.win)
		return
	}

	where := "to the end of"
	if e.selectedPosition() == types.Start {
		where = "at the beginning of"
	}
	msg := fmt.Sprintf("Add '%s' %s the tags of every image in this folder?", tag, where)
	dialog.ShowConfirm("Confirm", msg, func(ok bool) {
		if ok {
			e.showBatchResult(e.addToAll(tag))
		}
	}, e.win)
}

func (e *Editor) confirmRemoveFromAll() {
	tag := e.entry.Text
	if tag == "" {
		dialog.ShowInformation("Remove from All", "Please enter a tag to remove from all images.", e.win)
		return
	}

	msg := fmt.Sprintf("Remove '%s' from every image in this folder?", tag)
	dialog.ShowConfirm("Confirm", msg, func(ok bool) {
		if ok {
			e.showBatchResult(e.removeFromAll(tag))
		}
	}, e.win)
}

// batchSummary is what a finished batch edit reports to the user
type batchSummary struct {
	text   string
	err    error
	failed bool
}

func (e *Editor) addToAll(tag string) batchSummary {
	e.mu.Lock()
	paths := e.set.Paths()
	e.mu.Unlock()

	res, err := e.store.AddTagToAll(paths, tag, e.selectedPosition())
	return e.finishBatch(fmt.Sprintf("Added '%s' to %d images.", tag, res.Modified), res, err)
}

func (e *Editor) removeFromAll(tag string) batchSummary {
	e.mu.Lock()
	paths := e.set.Paths()
	e.mu.Unlock()

	res, err := e.store.RemoveTagFromAll(paths, tag)
	return e.finishBatch(fmt.Sprintf("Removed '%s' from %d images.", tag, res.Modified), res, err)
}

func (e *Editor) finishBatch(text string, res types.BatchResult, err error) batchSummary {
	if err != nil {
		return batchSummary{err: err}
	}

	e.entry.SetText("")
	e.loadTags()

	if res.Failed() {
		text += fmt.Sprintf("\n%d images failed:", len(res.Failures))
		for _, f := range res.Failures {
			text += fmt.Sprintf("\n%s: %v", filepath.Base(f.Path), f.Err)
		}
	}
	e.status.SetText(text)
	return batchSummary{text: text, failed: res.Failed()}
}

func (e *Editor) showBatchResult(s batchSummary) {
	switch {
	case s.err != nil:
		e.showError(s.err)
	case s.failed:
		dialog.ShowInformation("Partly done", s.text, e.win)
	default:
		dialog.ShowInformation("Success", s.text, e.win)
	}
}

// runTagger starts the named AI backend on the current image. The AI
// buttons stay disabled until it finishes.
func (e *Editor) runTagger(name string) {
	path, ok := e.current()
	if !ok {
		return
	}

	t, ok := e.taggers[name]
	if !ok {
		var err error
		t, err = tagger.CurrentFactory(name, e.cfg)
		if err != nil {
			e.showError(err)
			return
		}
		e.taggers[name] = t
	}

	task, err := e.runner.Start(context.Background(), t, path)
	if err != nil {
		e.showError(err)
		return
	}
	e.lastTask = task

	e.setAIEnabled(false)
	e.status.SetText(fmt.Sprintf("Running %s on %s...", task.Tagger(), filepath.Base(path)))

	go e.follow(task)
}

// follow relays progress and merges the result of task
func (e *Editor) follow(task *tagger.Task) {
	for msg := range task.Progress() {
		e.status.SetText(msg)
	}
	res := task.Wait()
	defer e.setAIEnabled(true)

	if res.Err != nil {
		log.LogWithError(res.Err).With(log.F("image", task.Image())).Warn("Tagging failed")
		e.status.SetText("")
		dialog.ShowError(res.Err, e.win)
		return
	}

	added, err := e.store.MergeTags(task.Image(), res.Tags)
	if err != nil {
		e.showError(err)
		return
	}

	if cur, ok := e.current(); ok && cur == task.Image() {
		e.loadTags()
	}
	e.status.SetText(fmt.Sprintf("%s added %d of %d tags", task.Tagger(), len(added), len(res.Tags)))
}

func (e *Editor) setAIEnabled(enabled bool) {
	for _, b := range e.aiButtons {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (e *Editor) openFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			e.showError(err)
			return
		}
		if uri == nil {
			return
		}
		e.Open(uri.Path())
	}, e.win)
}

// Open switches the editor to folder
func (e *Editor) Open(folder string) {
	e.mu.Lock()
	e.set = images.Load(folder)
	e.mu.Unlock()

	e.watch(folder)
	e.refresh()
}

// watch follows outside changes to folder, replacing any previous watcher
func (e *Editor) watch(folder string) {
	if e.watcher != nil {
		e.watcher.Stop()
		e.watcher = nil
	}

	w, err := watch.New()
	if err != nil {
		log.Warn("File watcher unavailable: %v", err)
		return
	}
	if err := w.AddDirectory(folder); err != nil {
		log.Debug("Not watching %s: %v", folder, err)
		w.Stop()
		return
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return
	}
	e.watcher = w

	go func() {
		for ev := range w.Events() {
			e.applyChange(ev)
		}
	}()
}

func (e *Editor) applyChange(ev watch.Event) {
	switch ev.Kind {
	case watch.ImageChanged:
		e.mu.Lock()
		e.set.Reload()
		e.mu.Unlock()
		e.refresh()
	case watch.SidecarChanged:
		if cur, ok := e.current(); ok && tagstore.SidecarPath(cur) == ev.Path {
			e.loadTags()
		}
	}
}

func (e *Editor) showError(err error) {
	log.LogWithError(err).Debug("Editor error")
	e.status.SetText(err.Error())
	dialog.ShowError(err, e.win)
}

func (e *Editor) close() {
	if e.watcher != nil {
		e.watcher.Stop()
	}
	for name, t := range e.taggers {
		if err := t.Close(); err != nil {
			log.Debug("Closing %s tagger: %v", name, err)
		}
	}
}
