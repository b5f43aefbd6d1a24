package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"asset-inventory-api/internal/model"
	"asset-inventory-api/internal/service"

	"github.com/gorilla/mux"
)

// LookupHandler handles the HTTP requests for the catalog entities.
type LookupHandler struct {
	Service *service.LookupService
	Logger  *log.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(svc *service.LookupService, logger *log.Logger) *LookupHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &LookupHandler{
		Service:        svc,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

type namedInput struct {
	Name string `json:"name"`
}

func (h *LookupHandler) decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var input namedInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return "", false
	}
	return input.Name, true
}

// --- brands ---

func (h *LookupHandler) ListBrandsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	brands, err := h.Service.ListBrands(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list brands")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, brands)
}

func (h *LookupHandler) CreateBrandHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	brand, err := h.Service.CreateBrand(ctx, name)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create brand")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Brand created successfully", brand)
}

func (h *LookupHandler) UpdateBrandHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	if err := h.Service.UpdateBrand(ctx, id, name); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update brand")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Brand updated successfully", nil)
}

func (h *LookupHandler) DeleteBrandHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	if err := h.Service.DeleteBrand(ctx, id); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete brand")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Brand deleted successfully", nil)
}

// --- asset types ---

func (h *LookupHandler) ListTypesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	types, err := h.Service.ListTypes(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list types")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, types)
}

func (h *LookupHandler) CreateTypeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	t, err := h.Service.CreateType(ctx, name)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create type")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Type created successfully", t)
}

func (h *LookupHandler) UpdateTypeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	if err := h.Service.UpdateType(ctx, id, name); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update type")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Type updated successfully", nil)
}

func (h *LookupHandler) DeleteTypeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	if err := h.Service.DeleteType(ctx, id); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete type")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Type deleted successfully", nil)
}

// --- areas ---

func (h *LookupHandler) ListAreasHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	areas, err := h.Service.ListAreas(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list areas")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, areas)
}

func (h *LookupHandler) CreateAreaHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	area, err := h.Service.CreateArea(ctx, name)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create area")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Area created successfully", area)
}

func (h *LookupHandler) UpdateAreaHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	if err := h.Service.UpdateArea(ctx, id, name); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update area")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Area updated successfully", nil)
}

func (h *LookupHandler) DeleteAreaHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	if err := h.Service.DeleteArea(ctx, id); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete area")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Area deleted successfully", nil)
}

// --- models ---

func (h *LookupHandler) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	models, err := h.Service.ListModels(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list models")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, models)
}

func (h *LookupHandler) CreateModelHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	var input model.ModelRef
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}
	created, err := h.Service.CreateModel(ctx, input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create model")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Model created successfully", created)
}

func (h *LookupHandler) UpdateModelHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	var input model.ModelRef
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}
	if err := h.Service.UpdateModel(ctx, id, input); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update model")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Model updated successfully", nil)
}

func (h *LookupHandler) DeleteModelHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}
	if err := h.Service.DeleteModel(ctx, id); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete model")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Model deleted successfully", nil)
}

// --- employees ---

func (h *LookupHandler) ListEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	employees, err := h.Service.ListEmployees(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list employees")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, employees)
}

func (h *LookupHandler) GetEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	code := mux.Vars(r)["code"]
	emp, err := h.Service.GetEmployee(ctx, code)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "get employee")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, emp)
}

func (h *LookupHandler) CreateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	var input model.Employee
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}
	input.Active = true
	created, err := h.Service.CreateEmployee(ctx, input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create employee")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Employee created successfully", created)
}

func (h *LookupHandler) UpdateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	code := mux.Vars(r)["code"]
	var input model.Employee
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}
	if err := h.Service.UpdateEmployee(ctx, code, input); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update employee")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Employee updated successfully", nil)
}

func (h *LookupHandler) DeleteEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	code := mux.Vars(r)["code"]
	if err := h.Service.DeleteEmployee(ctx, code); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete employee")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Employee deleted successfully", nil)
}
