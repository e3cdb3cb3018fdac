package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/service"
	dErrors "vcardimport/pkg/domain-errors"
	"vcardimport/pkg/platform/httputil"
	authmw "vcardimport/pkg/platform/middleware/auth"
	"vcardimport/pkg/platform/middleware/metadata"
	"vcardimport/pkg/platform/middleware/request"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// MaxDocumentBytes caps a single uploaded document.
const MaxDocumentBytes = 1 << 20

// maxBatchDocuments caps the documents accepted by one batch request.
const maxBatchDocuments = 100

// Service defines the contact import operations the handler exposes.
type Service interface {
	Import(ctx context.Context, text string) (*models.Contact, error)
	ImportBatch(ctx context.Context, texts []string) ([]service.BatchResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Contact, error)
}

// Handler serves the contact import API.
type Handler struct {
	logger       *slog.Logger
	contacts     Service
	jwtValidator authmw.JWTValidator
	apiKeyHash   []byte
}

// New creates a contact Handler. Routes require authentication when a
// validator or an API key hash is provided.
func New(contacts Service, logger *slog.Logger, jwtValidator authmw.JWTValidator, apiKeyHash []byte) *Handler {
	return &Handler{
		logger:       logger,
		contacts:     contacts,
		jwtValidator: jwtValidator,
		apiKeyHash:   apiKeyHash,
	}
}

// Register registers the contact routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	contactRouter := chi.NewRouter()
	contactRouter.Use(chimw.Recoverer)
	contactRouter.Use(request.RequestID)
	contactRouter.Use(metadata.ClientMetadata)
	contactRouter.Use(chimw.Timeout(30 * time.Second))
	if h.jwtValidator != nil || len(h.apiKeyHash) > 0 {
		contactRouter.Use(authmw.RequireAuth(h.jwtValidator, h.apiKeyHash, h.logger))
	}
	contactRouter.Post("/contacts/import", h.handleImport)
	contactRouter.Post("/contacts/import/batch", h.handleImportBatch)
	contactRouter.Get("/contacts/{id}", h.handleGet)

	r.Mount("/", contactRouter)
}

// ImportResponse summarises an imported contact.
type ImportResponse struct {
	ID             uuid.UUID      `json:"id"`
	Kind           string         `json:"kind"`
	FormattedNames []string       `json:"formatted_names"`
	Counts         map[string]int `json:"counts"`
}

func toImportResponse(c *models.Contact) ImportResponse {
	names := make([]string, 0, len(c.FormattedNames))
	for _, fn := range c.FormattedNames {
		names = append(names, fn.Value)
	}
	return ImportResponse{
		ID:             c.ID,
		Kind:           c.KindValue(),
		FormattedNames: names,
		Counts:         c.Counts(),
	}
}

// BatchRequest carries several documents in one call.
type BatchRequest struct {
	Documents []string `json:"documents"`
}

// BatchItem is the outcome of one batch document.
type BatchItem struct {
	Index   int             `json:"index"`
	Contact *ImportResponse `json:"contact,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BatchResponse lists per-document outcomes in request order.
type BatchResponse struct {
	Imported int         `json:"imported"`
	Failed   int         `json:"failed"`
	Results  []BatchItem `json:"results"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read import body",
			"request_id", requestID,
			"error", err.Error(),
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "document too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body must contain a vcard"))
		return
	}

	contact, err := h.contacts.Import(ctx, string(body))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to import contact")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toImportResponse(contact))
}

func (h *Handler) handleImportBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchDocuments*MaxDocumentBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid batch import request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Documents) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "documents must not be empty"))
		return
	}
	if len(req.Documents) > maxBatchDocuments {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "too many documents"))
		return
	}

	results, err := h.contacts.ImportBatch(ctx, req.Documents)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to import batch")
		return
	}

	resp := BatchResponse{Results: make([]BatchItem, 0, len(results))}
	for _, res := range results {
		item := BatchItem{Index: res.Index}
		if res.Err != nil {
			resp.Failed++
			item.Error = string(dErrors.CodeOf(res.Err))
		} else {
			resp.Imported++
			summary := toImportResponse(res.Contact)
			item.Contact = &summary
		}
		resp.Results = append(resp.Results, item)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid contact id"))
		return
	}

	contact, err := h.contacts.Get(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load contact")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contact)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"code", string(code),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
