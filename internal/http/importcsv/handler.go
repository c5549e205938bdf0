package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	expensehttp "github.com/MrJamesThe3rd/invoicer/internal/http/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	expenseSvc *expense.Service
}

func NewHandler(importSvc *importer.Service, expenseSvc *expense.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		expenseSvc: expenseSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type draftResponse struct {
	expensehttp.Request
	Matched bool `json:"matched"`
}

type importSuccessResponse struct {
	Imported int                    `json:"imported"`
	Expenses []expensehttp.Response `json:"expenses"`
}

type conflictDTO struct {
	Incoming expensehttp.Request  `json:"incoming"`
	Existing expensehttp.Response `json:"existing"`
}

type importConflictResponse struct {
	New       []expensehttp.Request `json:"new"`
	Conflicts []conflictDTO         `json:"conflicts"`
}

// confirmRequest carries the reviewed drafts. Force stores them even when they
// repeat stored expenses.
type confirmRequest struct {
	Expenses []expensehttp.Request `json:"expenses"`
	Force    bool                  `json:"force"`
}

// importCSV parses an uploaded statement into drafts. Nothing is stored until
// the drafts come back through /confirm.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, r, validate.Field("file", "failed to parse form: "+err.Error()))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, validate.Field("file", "file field is required"))
		return
	}
	defer file.Close()

	drafts, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := make([]draftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, draftResponse{Request: expensehttp.ToRequest(d.CreateParams), Matched: d.Matched})
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := make([]expense.CreateParams, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		params = append(params, e.Params())
	}

	if req.Force {
		es, err := h.expenseSvc.CreateBatch(r.Context(), params)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, toSuccessResponse(es))

		return
	}

	result, err := h.expenseSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]expensehttp.Request, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, expensehttp.ToRequest(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: expensehttp.ToRequest(c.Incoming),
				Existing: expensehttp.ToResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func toSuccessResponse(es []*expense.Expense) importSuccessResponse {
	return importSuccessResponse{
		Imported: len(es),
		Expenses: expensehttp.ToResponseList(es),
	}
}
