package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/usecase"
	"medimarket/pkg/response"
	"medimarket/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ChangeStream serves the realtime catalog feed.
type ChangeStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type MedicineHandler struct {
	medicineUsecase usecase.MedicineUsecase
	validator       *validator.CustomValidator
	stream          ChangeStream
}

func NewMedicineHandler(medicineUsecase usecase.MedicineUsecase, validator *validator.CustomValidator, stream ChangeStream) *MedicineHandler {
	return &MedicineHandler{
		medicineUsecase: medicineUsecase,
		validator:       validator,
		stream:          stream,
	}
}

// List handles the storefront catalog query
// @Summary List medicines
// @Tags Medicines
// @Produce json
// @Param q query string false "Name search"
// @Param category query string false "Category, All disables the filter"
// @Param stock query bool false "Only medicines in stock"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /medicines [get]
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseMedicineQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	medicines, err := h.medicineUsecase.List(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get medicines")
		return
	}

	response.Success(w, http.StatusOK, "Medicines retrieved successfully", medicines)
}

func (h *MedicineHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Categories retrieved successfully", h.medicineUsecase.Categories())
}

func (h *MedicineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	medicine, err := h.medicineUsecase.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrMedicineNotFound) {
			response.NotFound(w, "Medicine not found")
			return
		}
		response.InternalServerError(w, "Failed to get medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", medicine)
}

// Realtime upgrades to a websocket that streams catalog changes
func (h *MedicineHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	h.stream.ServeWS(w, r)
}

func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := h.medicineUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create medicine")
		return
	}

	response.Success(w, http.StatusCreated, "Medicine created successfully", medicine)
}

func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	var req dto.UpdateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := h.medicineUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine updated successfully", medicine)
}

func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	if err := h.medicineUsecase.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "Failed to delete medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine deleted successfully", nil)
}

// Export streams the catalog as an xlsx workbook
func (h *MedicineHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.medicineUsecase.Export(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to export medicines")
		return
	}

	filename := fmt.Sprintf("medicines_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_ = file.Write(w)
}

func (h *MedicineHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrMedicineNotFound):
		response.NotFound(w, "Medicine not found")
	case errors.Is(err, usecase.ErrInvalidPrice):
		response.BadRequest(w, "Price must be greater than zero")
	case errors.Is(err, usecase.ErrMedicineInUse):
		response.Conflict(w, "Medicine is referenced by existing orders")
	default:
		response.InternalServerError(w, fallback)
	}
}

func parseMedicineQuery(r *http.Request) (*dto.MedicineQuery, error) {
	values := r.URL.Query()
	query := &dto.MedicineQuery{
		Q:        values.Get("q"),
		Category: values.Get("category"),
	}

	if raw := values.Get("stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("stock must be true or false")
		}
		query.InStockOnly = inStock
	}

	var err error
	if query.MinPrice, err = parsePrice(values.Get("minPrice"), "minPrice"); err != nil {
		return nil, err
	}
	if query.MaxPrice, err = parsePrice(values.Get("maxPrice"), "maxPrice"); err != nil {
		return nil, err
	}
	return query, nil
}

func parsePrice(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &price, nil
}
