package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/engine"
	luaplug "github.com/dshills/quill/internal/plugin/lua"
	"github.com/dshills/quill/internal/renderer"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/screen"
	"github.com/dshills/quill/internal/renderer/statusline"
	"github.com/dshills/quill/internal/renderer/viewport"
)

// warmupBatch is the number of rows per warm-up batch.
const warmupBatch = 256

// SessionOptions configures a Session.
type SessionOptions struct {
	Config    *config.Config
	Theme     *highlight.Theme
	Languages *highlight.Registry

	// State remembers cursor positions across runs. Nil disables it.
	State *StateStore

	// ReadOnly opens every document read-only.
	ReadOnly bool

	Logger zerolog.Logger

	// Post queues an event on the UI loop. The highlight warm-up uses it
	// to wake the loop when a batch is ready.
	Post func(backend.Event)

	Width, Height int
}

// Session owns the open documents and turns input events into edits. It
// is used from a single goroutine; the only concurrent worker is the
// highlight warm-up, which reports back through Post.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg       *config.Config
	log       zerolog.Logger
	languages *highlight.Registry
	state     *StateStore
	readOnly  bool
	post      func(backend.Event)

	docs     *DocumentManager
	keys     *Keymap
	renderer *renderer.Renderer

	prompt  *prompt
	message statusline.Message
	query   string

	// closeArmed is the document whose close was refused once because of
	// unsaved changes. The next close or quit on it discards them.
	closeArmed uuid.UUID
	done       bool
}

// NewSession creates a session without documents.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	keys, err := NewKeymap(cfg.Keys)
	if err != nil {
		return nil, NewOperationError("keymap", "session", err)
	}
	languages := opts.Languages
	if languages == nil {
		languages = highlight.DefaultRegistry()
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		log:       component(opts.Logger, "session"),
		languages: languages,
		state:     opts.State,
		readOnly:  opts.ReadOnly,
		post:      opts.Post,
		docs:      NewDocumentManager(),
		keys:      keys,
		renderer:  renderer.New(opts.Width, opts.Height, opts.Theme, rendererOptions(cfg)),
	}, nil
}

func rendererOptions(cfg *config.Config) renderer.Options {
	return renderer.Options{
		TabLine:  cfg.Editor.TabLine,
		TabWidth: cfg.Editor.TabWidth,
		Gutter: gutter.Config{
			ShowLineNumbers: cfg.Editor.LineNumbers != config.LineNumbersOff,
			MinWidth:        3,
			Mode:            gutter.ParseMode(cfg.Editor.LineNumbers),
		},
	}
}

func (s *Session) engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithTabWidth(s.cfg.Editor.TabWidth),
		engine.WithWrapCursor(s.cfg.Editor.WrapCursor),
		engine.WithUndoPolicy(s.cfg.UndoPolicy()),
		engine.WithMaxUndoEntries(s.cfg.Undo.MaxEntries),
		engine.WithFaultHandler(func(err error) {
			s.log.Error().Err(err).Msg("transaction log out of step with buffer")
		}),
	}
	if s.readOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}

func (s *Session) margins() viewport.MarginConfig {
	rows, cols := s.cfg.Editor.ScrollRows, s.cfg.Editor.ScrollCols
	return viewport.MarginConfig{Top: rows, Bottom: rows, Left: cols, Right: cols}
}

// Open opens path, or activates it when it is already open. A path that
// does not exist yet opens as an empty document.
func (s *Session) Open(path string) (*Document, error) {
	if path == "" {
		return nil, NewOperationError("open", "session", ErrNoFilePath)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", "session", err).WithTarget(path)
	}
	if doc, ok := s.docs.FindPath(abs); ok {
		s.switchDoc(func() { _ = s.docs.SetActive(doc.ID) })
		return doc, nil
	}

	fc, err := readFile(abs)
	if err != nil {
		return nil, NewOperationError("open", "session", err).WithTarget(abs)
	}
	eng, err := engine.Load(fc.lines, s.engineOptions()...)
	if err != nil {
		return nil, NewOperationError("open", "session", err).WithTarget(abs)
	}
	eng.Buffer().SetLineEnding(fc.lineEnding)

	language := ""
	if s.cfg.Highlight.Enabled {
		language = s.languages.Detect(abs, fc.raw)
	}
	doc := newDocument(abs, eng, s.highlighterFor(eng, language))
	doc.Language = language
	doc.finalNewline = fc.finalNewline
	doc.Viewport.SetMargins(s.margins())

	if s.state != nil {
		if p, ok := s.state.Cursor(abs); ok {
			_ = eng.SetCursor(eng.Buffer().Clamp(p))
		}
	}

	s.switchDoc(func() { s.docs.Add(doc) })
	s.log.Info().Str("path", abs).Str("language", language).Int("rows", eng.LineCount()).
		Bool("exists", fc.exists).Msg("document opened")
	return doc, nil
}

// highlighterFor compiles the lexer for language. Without one, or when its
// rules fail to compile, the document is plain text.
func (s *Session) highlighterFor(eng *engine.Engine, language string) *highlight.Highlighter {
	if language == "" {
		return nil
	}
	lexer, err := s.languages.Lexer(language)
	if err != nil {
		s.log.Warn().Err(err).Str("language", language).Msg("highlighting disabled")
		s.setMessage(statusline.MessageWarning, "highlighting disabled: %v", err)
		return nil
	}
	if lexer == nil {
		return nil
	}
	return highlight.New(eng.Buffer(), lexer)
}

// detectLanguage highlights a document that got a path after it was
// created.
func (s *Session) detectLanguage(d *Document) {
	if !s.cfg.Highlight.Enabled {
		return
	}
	language := s.languages.Detect(d.Path, []byte(d.Content()))
	if language == d.Language {
		return
	}
	if d.Highlighter != nil {
		d.Highlighter.StopWarmup()
	}
	d.Language = language
	d.Highlighter = s.highlighterFor(d.Engine, language)
	s.startWarmup(d)
}

// New opens an empty scratch document.
func (s *Session) New() *Document {
	opts := s.engineOptions()
	doc := newDocument("", engine.New(opts...), nil)
	doc.Viewport.SetMargins(s.margins())
	s.switchDoc(func() { s.docs.Add(doc) })
	return doc
}

// Active returns the active document, nil when none is open.
func (s *Session) Active() *Document {
	return s.docs.Active()
}

// Documents returns the open documents in tab order.
func (s *Session) Documents() []*Document {
	return s.docs.All()
}

// Done reports whether the last document was quit.
func (s *Session) Done() bool {
	return s.done
}

// Feedback returns the feedback line message.
func (s *Session) Feedback() statusline.Message {
	return s.message
}

// Renderer returns the session renderer.
func (s *Session) Renderer() *renderer.Renderer {
	return s.renderer
}

// doc returns the active document. Actions only run while one is open.
func (s *Session) doc() *Document {
	return s.docs.Active()
}

// switchDoc stops the warm-up of the active document, runs change and
// starts the warm-up of whatever is active afterwards.
func (s *Session) switchDoc(change func()) {
	if d := s.docs.Active(); d != nil && d.Highlighter != nil {
		d.Highlighter.StopWarmup()
	}
	change()
	if d := s.docs.Active(); d != nil {
		s.startWarmup(d)
	}
}

// startWarmup runs the background pass for large documents. Rows lexed
// from a guessed carry state are only ever corrected by that pass, so they
// start it whatever the size threshold says.
func (s *Session) startWarmup(d *Document) {
	hl := d.Highlighter
	if hl == nil || hl.WarmupRunning() {
		return
	}
	limit := s.cfg.Highlight.WarmupRows
	large := limit > 0 && d.Engine.LineCount() > limit
	if !hl.Guessed() && (!large || !hl.Pending()) {
		return
	}
	hl.StartWarmup(s.ctx, d.Engine.Serialize(), warmupBatch, s.wake)
	s.log.Debug().Str("doc", d.Name).Int("rows", d.Engine.LineCount()).Msg("highlight warm-up started")
}

func (s *Session) wake() {
	if s.post != nil {
		s.post(backend.Event{Type: backend.EventInterrupt})
	}
}

// drain merges finished warm-up batches. A worker that fell behind an
// edit is restarted on the current text.
func (s *Session) drain() bool {
	d := s.docs.Active()
	if d == nil || d.Highlighter == nil {
		return false
	}
	n, err := d.Highlighter.Drain()
	if errors.Is(err, highlight.ErrStaleHighlightVersion) {
		s.log.Debug().Str("doc", d.Name).Msg("stale warm-up batch; restarting")
		s.startWarmup(d)
	}
	return n > 0
}

// HandleKey applies one input event and reports whether the screen needs
// to be redrawn.
func (s *Session) HandleKey(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventResize:
		s.Resize(ev.Width, ev.Height)
		return true
	case backend.EventInterrupt:
		return s.drain()
	case backend.EventPaste:
		if s.prompt != nil {
			s.prompt.handle(ev)
			return true
		}
		d := s.docs.Active()
		if d == nil {
			return false
		}
		s.message = statusline.Message{}
		s.closeArmed = uuid.Nil
		s.fail("paste", d.Engine.Paste(ev.PasteText))
		return true
	case backend.EventKey:
		if s.prompt != nil {
			return s.handlePrompt(ev)
		}
		return s.handleKey(ev)
	}
	return false
}

func (s *Session) handleKey(ev backend.Event) bool {
	d := s.docs.Active()
	if d == nil {
		return false
	}
	hadMessage := s.message.Text != ""
	s.message = statusline.Message{}

	chord := ev.Chord()
	script, name, action := s.keys.Lookup(chord)
	if name != "close" && name != "quit" {
		s.closeArmed = uuid.Nil
	}

	switch {
	case script != nil:
		if err := script(); err != nil {
			s.fail("script", NewOperationError(chord, "script", err))
		}
	case action != nil:
		s.fail(name, action(s))
	case ev.Key == backend.KeyRune && !ev.Mod.Has(backend.ModCtrl) && !ev.Mod.Has(backend.ModAlt):
		s.fail("insert", d.Engine.InsertText(string(ev.Rune)))
	default:
		return hadMessage
	}
	return true
}

func (s *Session) handlePrompt(ev backend.Event) bool {
	p := s.prompt
	switch p.handle(ev) {
	case promptIgnored:
		return false
	case promptCancelled:
		s.prompt = nil
	case promptSubmitted:
		s.prompt = nil
		s.message = statusline.Message{}
		s.fail(p.op, p.submit(s, p.text()))
	}
	return true
}

// fail reports err on the feedback line. Expected conditions are shown as
// warnings; anything else is logged.
func (s *Session) fail(op string, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, engine.ErrReadOnly):
		s.setMessage(statusline.MessageWarning, "document is read-only")
	case errors.Is(err, engine.ErrNotFound):
		s.setMessage(statusline.MessageWarning, "not found: %s", s.query)
	case errors.Is(err, engine.ErrEmptyQuery):
		s.setMessage(statusline.MessageWarning, "no search query")
	default:
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			err = NewOperationError(op, "session", err)
		}
		s.log.Error().Err(err).Str("op", op).Msg("action failed")
		s.setMessage(statusline.MessageError, "%v", err)
	}
}

func (s *Session) setMessage(typ statusline.MessageType, format string, args ...any) {
	s.message = statusline.Message{Text: fmt.Sprintf(format, args...), Type: typ}
}

// Resize adapts the renderer to a new terminal size.
func (s *Session) Resize(width, height int) {
	s.renderer.Resize(width, height)
}

// Frame renders the active document and returns the commands that update
// the terminal.
func (s *Session) Frame() []screen.Command {
	var view renderer.View
	if d := s.docs.Active(); d != nil {
		eng := d.Engine
		buf := eng.Buffer()
		s.renderer.FitViewport(d.Viewport, buf.LineCount())

		primary := eng.Primary()
		if row, err := buf.RowAt(primary.Head.Row); err == nil {
			d.Viewport.Reveal(primary.Head.Row, row.VisualColumn(primary.Head.Col, buf.TabWidth()))
		}
		if d.Highlighter != nil {
			first, last := d.Viewport.VisibleRows()
			d.Highlighter.Recompute(first, last)
			s.startWarmup(d)
		}
		view = renderer.View{
			Buffer:      buf,
			Selections:  eng.Selections(),
			Primary:     primary,
			Highlighter: d.Highlighter,
			Viewport:    d.Viewport,
			Match:       d.Match(),
		}
	}
	return s.renderer.Frame(view, s.chrome())
}

func (s *Session) chrome() renderer.Chrome {
	c := renderer.Chrome{
		Active:  s.docs.ActiveIndex(),
		Message: s.message,
	}
	for _, d := range s.docs.All() {
		c.Tabs = append(c.Tabs, statusline.Tab{Title: d.Name, Modified: d.IsModified()})
	}
	if d := s.docs.Active(); d != nil {
		eng := d.Engine
		primary := eng.Primary()
		c.Status = statusline.StatusLine{
			Modified:   d.IsModified(),
			ReadOnly:   eng.IsReadOnly(),
			Language:   d.Language,
			LineEnding: eng.Buffer().LineEnding().String(),
			Row:        primary.Head.Row,
			Col:        primary.Head.Col,
			RowCount:   eng.LineCount(),
			Cursors:    len(eng.Selections()),
		}
		if !d.IsScratch() {
			c.Status.Name = d.Name
		}
	}
	if s.prompt != nil {
		c.Prompt = s.prompt.view()
	}
	return c
}

// ApplyConfig switches to a reloaded configuration. Open documents pick
// up the tab width, cursor wrapping, undo policy and scroll margins.
func (s *Session) ApplyConfig(cfg *config.Config, theme *highlight.Theme) error {
	if err := s.keys.SetOverrides(cfg.Keys); err != nil {
		return NewOperationError("reload", "config", err)
	}
	s.cfg = cfg
	s.renderer.SetOptions(rendererOptions(cfg))
	if theme != nil {
		s.renderer.SetTheme(theme)
	}
	for _, d := range s.docs.All() {
		d.Engine.Buffer().SetTabWidth(cfg.Editor.TabWidth)
		d.Engine.SetWrapCursor(cfg.Editor.WrapCursor)
		d.Engine.SetUndoPolicy(cfg.UndoPolicy())
		d.Viewport.SetMargins(s.margins())
	}
	return nil
}

// Close stops background work and remembers the cursor of every open
// file.
func (s *Session) Close() error {
	var errs ErrorList
	for _, d := range s.docs.DirtyDocuments() {
		s.log.Warn().Err(ErrUnsavedChanges).Str("doc", d.Name).Msg("discarding changes")
	}
	for _, d := range s.docs.All() {
		if d.Highlighter != nil {
			d.Highlighter.StopWarmup()
		}
		errs.Add(s.remember(d))
	}
	s.cancel()
	return errs.AsError()
}

func (s *Session) remember(d *Document) error {
	if s.state == nil || d.IsScratch() {
		return nil
	}
	if err := s.state.Remember(d.Path, d.Engine.Primary().Head); err != nil {
		return NewOperationError("remember", "state", err).WithTarget(d.Path)
	}
	return nil
}

// closeDoc removes d, remembering its cursor.
func (s *Session) closeDoc(d *Document) {
	if err := s.remember(d); err != nil {
		s.log.Warn().Err(err).Msg("cursor not remembered")
	}
	s.closeArmed = uuid.Nil
	s.switchDoc(func() { _ = s.docs.Remove(d.ID) })
	s.log.Info().Str("doc", d.Name).Msg("document closed")
}

// confirmDiscard refuses the first close of a modified document.
func (s *Session) confirmDiscard(d *Document) bool {
	if !d.IsModified() || s.closeArmed == d.ID {
		return true
	}
	s.closeArmed = d.ID
	s.setMessage(statusline.MessageWarning, "%s has unsaved changes; press again to discard them", d.Name)
	return false
}

// Bind implements the script host: chord runs fn.
func (s *Session) Bind(chord string, fn func() error) error {
	return s.keys.BindScript(chord, fn)
}

// Message implements the script host: text goes to the feedback line.
func (s *Session) Message(text string) {
	s.setMessage(statusline.MessageInfo, "%s", text)
}

// Editor returns the active document for scripts, nil when none is open.
func (s *Session) Editor() luaplug.Editor {
	if d := s.docs.Active(); d != nil {
		return d.Engine
	}
	return nil
}

// Actions.

func (s *Session) save() error {
	d := s.doc()
	if d.IsScratch() {
		s.prompt = newPrompt("save", "Save as: ", "", func(s *Session, path string) error {
			return s.saveAs(d, path)
		})
		return nil
	}
	if err := d.Save(); err != nil {
		return err
	}
	s.setMessage(statusline.MessageInfo, "wrote %d lines to %s", d.Engine.LineCount(), d.Name)
	s.log.Info().Str("path", d.Path).Msg("document saved")
	return nil
}

// saveAsPrompt asks for a new path for the active document, starting
// from its current one.
func (s *Session) saveAsPrompt() error {
	d := s.doc()
	s.prompt = newPrompt("save_as", "Save as: ", d.Path, func(s *Session, path string) error {
		return s.saveAs(d, path)
	})
	return nil
}

// saveAs writes d to path and renames it. When the write fails d keeps
// its old path and name.
func (s *Session) saveAs(d *Document, path string) error {
	if path == "" {
		return NewOperationError("save", "document", ErrNoFilePath)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if other, ok := s.docs.FindPath(abs); ok && other != d {
		return NewOperationError("save", "document", ErrDocumentOpen).WithTarget(abs)
	}

	oldPath, oldName, oldFinal := d.Path, d.Name, d.finalNewline
	d.Path, d.Name = abs, filepath.Base(abs)
	if oldPath == "" {
		d.finalNewline = true
	}
	if err := d.Save(); err != nil {
		d.Path, d.Name, d.finalNewline = oldPath, oldName, oldFinal
		return err
	}
	s.detectLanguage(d)
	s.setMessage(statusline.MessageInfo, "wrote %d lines to %s", d.Engine.LineCount(), d.Name)
	s.log.Info().Str("path", abs).Str("from", oldPath).Msg("document saved as")
	return nil
}

// saveAll writes every modified document that has a path. Scratch
// documents are skipped and counted in the message.
func (s *Session) saveAll() error {
	var errs ErrorList
	saved, unnamed := 0, 0
	for _, d := range s.docs.DirtyDocuments() {
		if d.IsScratch() {
			unnamed++
			continue
		}
		if err := d.Save(); err != nil {
			errs.Add(err)
			continue
		}
		saved++
		s.log.Info().Str("path", d.Path).Msg("document saved")
	}
	if err := errs.AsError(); err != nil {
		return err
	}
	if unnamed > 0 {
		s.setMessage(statusline.MessageWarning, "saved %d documents; %d unnamed not saved", saved, unnamed)
		return nil
	}
	s.setMessage(statusline.MessageInfo, "saved %d documents", saved)
	return nil
}

func (s *Session) quitAction() error {
	d := s.doc()
	if !s.confirmDiscard(d) {
		return nil
	}
	s.closeDoc(d)
	if s.docs.Count() == 0 {
		s.done = true
	}
	return nil
}

func (s *Session) closeAction() error {
	d := s.doc()
	if !s.confirmDiscard(d) {
		return nil
	}
	s.closeDoc(d)
	if s.docs.Count() == 0 {
		s.New()
	}
	return nil
}

func (s *Session) newAction() error {
	s.New()
	return nil
}

func (s *Session) openPrompt() error {
	s.prompt = newPrompt("open", "Open: ", "", func(s *Session, path string) error {
		_, err := s.Open(path)
		return err
	})
	return nil
}

func (s *Session) nextDoc() error {
	s.switchDoc(func() { s.docs.Next() })
	return nil
}

func (s *Session) prevDoc() error {
	s.switchDoc(func() { s.docs.Previous() })
	return nil
}

func (s *Session) undo() error {
	if !s.doc().Engine.Undo() {
		s.setMessage(statusline.MessageInfo, "nothing to undo")
	}
	return nil
}

func (s *Session) redo() error {
	if !s.doc().Engine.Redo() {
		s.setMessage(statusline.MessageInfo, "nothing to redo")
	}
	return nil
}

func (s *Session) escape() error {
	d := s.doc()
	eng := d.Engine
	d.match = nil
	if eng.Cursors().Count() > 1 {
		eng.ClearSecondary()
		return nil
	}
	if p := eng.Primary(); p.HasSelection() {
		return eng.SetCursor(p.Head)
	}
	return nil
}

func (s *Session) page(dir int, extend bool) {
	d := s.doc()
	d.Engine.MoveRows(dir*d.Viewport.PageRows(), extend)
}

func (s *Session) findPrompt() error {
	s.prompt = newPrompt("find", "Find: ", s.query, func(s *Session, query string) error {
		s.query = query
		return s.findNext(true)
	})
	return nil
}

func (s *Session) findNext(forward bool) error {
	d := s.doc()
	r, err := d.Engine.FindNext(s.query, forward)
	if err != nil {
		return err
	}
	d.match = &r
	return nil
}

func (s *Session) replacePrompt() error {
	if s.query == "" {
		return engine.ErrEmptyQuery
	}
	s.prompt = newPrompt("replace", fmt.Sprintf("Replace %q with: ", s.query), "", (*Session).replaceCurrent)
	return nil
}

// replaceCurrent replaces the selected match, or the next one when the
// selection is not a match, then selects the following match.
func (s *Session) replaceCurrent(with string) error {
	d := s.doc()
	m := d.Match()
	if m == nil {
		r, err := d.Engine.FindNext(s.query, true)
		if err != nil {
			return err
		}
		m = &r
	}
	if err := d.Engine.Replace(*m, with); err != nil {
		return err
	}
	d.match = nil
	if r, err := d.Engine.FindNext(s.query, true); err == nil {
		d.match = &r
	}
	return nil
}

func (s *Session) replaceAllPrompt() error {
	if s.query == "" {
		return engine.ErrEmptyQuery
	}
	s.prompt = newPrompt("replace_all", fmt.Sprintf("Replace all %q with: ", s.query), "", func(s *Session, with string) error {
		n, err := s.doc().Engine.ReplaceAll(s.query, with)
		if err != nil {
			return err
		}
		s.setMessage(statusline.MessageInfo, "replaced %d occurrences", n)
		return nil
	})
	return nil
}

