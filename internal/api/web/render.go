package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/taskmanager/pkg/markup"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates
var embedded embed.FS

// Layout is the template every page is executed through
const Layout = "base"

// reloadDelay coalesces the bursts of events editors emit on save
const reloadDelay = 100 * time.Millisecond

// Templates returns the templates compiled into the binary
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer compiles each page under pages/ together with the layouts and
// partials. It satisfies gin's render.HTMLRender
type Renderer struct {
	mu        sync.RWMutex
	fsys      fs.FS
	funcs     template.FuncMap
	templates map[string]*template.Template
	logger    *zap.Logger
}

// NewRenderer parses every page of fsys
func NewRenderer(fsys fs.FS, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Renderer{
		fsys:   fsys,
		funcs:  templateFuncs(),
		logger: logger,
	}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load parses the templates again and swaps them in when all pages compile
func (r *Renderer) Load() error {
	var pages []string
	err := fs.WalkDir(r.fsys, "pages", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(name) == ".html" {
			pages = append(pages, name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	shared := []string{"layouts/*.html", "partials/*.html"}
	templates := make(map[string]*template.Template, len(pages))

	for _, page := range pages {
		t, err := template.New(path.Base(page)).Funcs(r.funcs).ParseFS(r.fsys, append(shared, page)...)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", page, err)
		}
		templates[strings.TrimPrefix(page, "pages/")] = t
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()

	return nil
}

// Execute renders a page through the layout
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, Layout, data)
}

// Instance implements render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	return htmlPage{renderer: r, name: name, data: data}
}

// Watch reloads the templates whenever an html file under dir changes. It
// blocks until ctx is done
func (r *Renderer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	r.logger.Info("watching templates", zap.String("dir", dir))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if filepath.Ext(event.Name) == ".html" {
				pending = time.After(reloadDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("template watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			if err := r.Load(); err != nil {
				r.logger.Error("failed to reload templates", zap.Error(err))
				continue
			}
			r.logger.Info("templates reloaded")
		}
	}
}

// htmlPage buffers the output so a failing template never sends half a page
type htmlPage struct {
	renderer *Renderer
	name     string
	data     any
}

func (p htmlPage) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)

	var buf bytes.Buffer
	if err := p.renderer.Execute(&buf, p.name, p.data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (p htmlPage) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}

// templateFuncs are the helpers available to every template
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": markup.MustRender,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02.01.2006 15:04")
		},
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict needs key and value pairs")
			}
			out := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
				}
				out[key] = pairs[i+1]
			}
			return out, nil
		},
		"selected": func(value string, id uint) bool {
			return value == fmt.Sprint(id)
		},
	}
}
