// Package rest exposes the application handlers over HTTP using Chi and go-chi/render.
package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/hapkiduki/catalog-go/internal/application/command"
	"github.com/hapkiduki/catalog-go/internal/application/dto"
	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
)

// ProductIDParam is the URL parameter holding the product identifier.
const ProductIDParam = "productID"

// ShippingUpdater applies shipping update commands.
type ShippingUpdater interface {
	Handle(ctx context.Context, cmd *command.UpdateProductShippingCommand) (*entity.Product, error)
}

// ShippingReader reads the shipping options of a product.
type ShippingReader interface {
	Handle(ctx context.Context, id valueobject.ProductID) (*entity.Product, error)
}

// ShippingHandler serves /api/v1/products/{productID}/shipping.
type ShippingHandler struct {
	updater ShippingUpdater
	reader  ShippingReader
	logger  port.Logger
}

// NewShippingHandler creates a new HTTP handler for product shipping options.
//
// Parameters:
//   - updater: command handler applying updates
//   - reader: query handler reading products
//   - logger: structured logger
//
// Returns:
//   - *ShippingHandler: the handler
func NewShippingHandler(updater ShippingUpdater, reader ShippingReader, logger port.Logger) *ShippingHandler {
	return &ShippingHandler{updater: updater, reader: reader, logger: logger}
}

// Routes registers the shipping endpoints on r.
// r is expected to be mounted under a pattern containing {productID}.
func (h *ShippingHandler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Patch("/", h.Update)
}

// Get returns the shipping view of a product.
func (h *ShippingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := valueobject.ParseProductID(chi.URLParam(r, ProductIDParam))
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	product, err := h.reader.Handle(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, dto.NewSuccessResponse(dto.NewProductShippingResponse(product)).WithMeta(meta(r)))
}

// Update applies a partial shipping update to a product.
func (h *ShippingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := valueobject.ParseProductID(chi.URLParam(r, ProductIDParam))
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	var req dto.UpdateProductShippingRequest
	if err := render.Bind(r, &req); err != nil {
		writeBadRequest(w, r, "malformed JSON body: "+err.Error())
		return
	}

	cmd, verrs, err := req.ToCommand(id.Value())
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if len(verrs) > 0 {
		writeValidationErrors(w, r, verrs)
		return
	}

	product, err := h.updater.Handle(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, dto.NewSuccessResponse(dto.NewProductShippingResponse(product)).WithMeta(meta(r)))
}

func (h *ShippingHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := writeError(w, r, err)
	if status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("Product shipping request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
}
