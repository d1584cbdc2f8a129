package highlight

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
)

// Registry manages the available languages and caches their compiled
// lexers.
type Registry struct {
	mu sync.RWMutex

	// byLanguage maps language names to definitions
	byLanguage map[string]*Language

	// byExtension maps file extensions to language names
	byExtension map[string]string

	// compiled caches lexers and compile failures per language
	compiled map[string]compileResult
}

type compileResult struct {
	lexer *Lexer
	err   error
}

// NewRegistry creates an empty language registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]*Language),
		byExtension: make(map[string]string),
		compiled:    make(map[string]compileResult),
	}
}

// DefaultRegistry returns a registry with the built-in languages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, l := range builtinLanguages() {
		r.Register(l)
	}
	return r
}

// Register adds or replaces a language.
func (r *Registry) Register(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[l.Name] = l
	delete(r.compiled, l.Name)
	for _, ext := range l.Extensions {
		r.byExtension[normalizeExt(ext)] = l.Name
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// Detect names the language of a file. Registered extensions win; after
// that go-enry classifies by file name and then by content. An empty
// result means plain text.
func (r *Registry) Detect(filename string, content []byte) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.byExtension[normalizeExt(filepath.Ext(filename))]; ok {
		return name
	}
	if name, _ := enry.GetLanguageByExtension(filename); r.has(name) {
		return name
	}
	if name, _ := enry.GetLanguageByFilename(filename); r.has(name) {
		return name
	}
	if len(content) > 0 {
		if name := enry.GetLanguage(filename, content); r.has(name) {
			return name
		}
	}
	return ""
}

func (r *Registry) has(name string) bool {
	if name == "" {
		return false
	}
	_, ok := r.byLanguage[name]
	return ok
}

// Lexer returns the compiled lexer for a language. An unknown language
// yields a nil lexer, which highlights nothing. A rule set that fails to
// compile returns a *HighlightRuleError, cached so that it is reported
// once per registration.
func (r *Registry) Lexer(language string) (*Lexer, error) {
	r.mu.RLock()
	res, ok := r.compiled[language]
	def := r.byLanguage[language]
	r.mu.RUnlock()
	if ok {
		return res.lexer, res.err
	}
	if def == nil {
		return nil, nil
	}

	lexer, err := def.Compile()
	r.mu.Lock()
	r.compiled[language] = compileResult{lexer: lexer, err: err}
	r.mu.Unlock()
	return lexer, err
}

// Languages returns all registered language names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
