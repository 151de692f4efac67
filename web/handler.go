package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/catalog"
	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	internalstrings "github.com/Adnanskuyy/ShoppingABTest/internal/strings"
	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

// Executor runs fn with exclusive access to the scene.
type Executor interface {
	Do(ctx context.Context, fn func()) error
}

// Options configures the shop web handler.
type Options struct {
	Scene *scene.Scene
	// Executor serializes scene access. Defaults to calling the scene
	// directly, which is only safe when nothing else ticks it.
	Executor Executor
	// Refresh is the page auto-refresh interval in seconds while the session
	// runs. Zero disables it.
	Refresh int
	Logger  *zap.Logger
}

// Handler serves the browser front end of one session.
type Handler struct {
	scene     *scene.Scene
	exec      Executor
	refresh   int
	logger    *zap.Logger
	mux       *http.ServeMux
	templates *templateWrapper

	mu    sync.Mutex
	flash string
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	exec := opts.Executor
	if exec == nil {
		exec = scene.VirtualDriver{Scene: opts.Scene}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := &Handler{
		scene:     opts.Scene,
		exec:      exec,
		refresh:   opts.Refresh,
		logger:    logger,
		templates: newTemplateWrapper(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/web/", handler.handlePage)
	mux.HandleFunc("/web/state", handler.handleState)
	mux.HandleFunc("/web/actions/", handler.handleAction)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	Snapshot scene.Snapshot
	Products []catalog.Product
	Running  bool
	Refresh  int
	Error    string
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/web/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	data := pageData{
		Snapshot: snap,
		Products: h.scene.Catalog.Products(),
		Running:  snap.State == experiment.StateRunning,
		Error:    h.consumeFlash(),
	}
	if data.Running {
		data.Refresh = h.refresh
	}
	if err := h.templates.Render(w, data); err != nil {
		h.logger.Warn("render page", zap.Error(err))
	}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: snap})
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	wantsJSON := isJSONRequest(r)
	op := strings.TrimPrefix(r.URL.Path, "/web/actions/")

	product, err := actionProduct(r)
	if err != nil {
		h.fail(w, r, wantsJSON, http.StatusBadRequest, err)
		return
	}

	cmd, err := scene.ParseCommand(internalstrings.NormalizeWhitespace(op + " " + product))
	if err == nil && cmd.Op == scene.OpWait {
		err = errWaitNotAllowed
	}
	if err != nil {
		h.fail(w, r, wantsJSON, http.StatusBadRequest, err)
		return
	}

	var (
		applyErr error
		snap     scene.Snapshot
	)
	if err := h.exec.Do(r.Context(), func() {
		applyErr = scene.Apply(h.scene, cmd)
		snap = h.scene.Snapshot()
	}); err != nil {
		h.fail(w, r, wantsJSON, http.StatusServiceUnavailable, err)
		return
	}
	if applyErr != nil {
		status := http.StatusBadRequest
		if errors.Is(applyErr, scene.ErrUnknownProduct) {
			status = http.StatusNotFound
		}
		h.fail(w, r, wantsJSON, status, applyErr)
		return
	}

	h.logger.Debug("web action", zap.String("command", cmd.String()))
	if wantsJSON {
		writeJSON(w, http.StatusOK, stateResponse{State: snap})
		return
	}
	http.Redirect(w, r, "/web/", http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, wantsJSON bool, status int, err error) {
	if wantsJSON {
		writeJSONError(w, status, err)
		return
	}
	h.setFlash(err.Error())
	http.Redirect(w, r, "/web/", http.StatusSeeOther)
}

func (h *Handler) snapshot(ctx context.Context) (scene.Snapshot, error) {
	var snap scene.Snapshot
	err := h.exec.Do(ctx, func() { snap = h.scene.Snapshot() })
	return snap, err
}

func (h *Handler) setFlash(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flash = message
}

func (h *Handler) consumeFlash() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	message := h.flash
	h.flash = ""
	return message
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
