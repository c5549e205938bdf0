package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
)

type Handler struct {
	svc *export.Service
	// dir is the parent for per-request scratch directories; empty means os.TempDir.
	dir string
}

func NewHandler(svc *export.Service, dir string) *Handler {
	return &Handler{svc: svc, dir: dir}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download writes the export to a scratch directory, streams it back as an
// attachment and removes it again.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind, err := export.ParseKind(q.Get("kind"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rng, err := respond.Range(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tmpDir, err := os.MkdirTemp(h.dir, "invoicer-export-*")
	if err != nil {
		respond.Error(w, r, fmt.Errorf("create export dir: %w", err))
		return
	}
	defer os.RemoveAll(tmpDir)

	file, err := h.svc.Export(r.Context(), export.Request{Kind: kind, Range: rng, Format: format}, tmpDir)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	f, err := os.Open(file.Path)
	if err != nil {
		respond.Error(w, r, fmt.Errorf("open export: %w", err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("X-Export-Rows", strconv.Itoa(file.Rows))

	if _, err := f.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "failed to stream export", "file", file.Name, "error", err)
	}
}
