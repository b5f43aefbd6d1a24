package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"asset-inventory-api/internal/intake"
)

// MaxUploadSize caps intake form uploads at 10 MiB. Real forms are under
// 100 KiB; anything bigger is not a form.
const MaxUploadSize = 10 << 20

// IntakeResponse is the extraction result returned to the frontend. The
// accessory list is also flattened into an opaque payload string that the
// asset creation form posts back untouched.
type IntakeResponse struct {
	intake.ExtractionResult
	AccessoriesPayload string `json:"accessories_payload"`
}

// IntakeHandler handles spreadsheet intake uploads.
type IntakeHandler struct {
	Template intake.Template
	Logger   *log.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(tpl intake.Template, logger *log.Logger) *IntakeHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &IntakeHandler{
		Template:       tpl,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// ExtractHandler parses an uploaded .xlsx intake form and returns the
// pre-filled asset fields plus accessory candidates. Extraction never
// fails on content; only an unreadable file is an error.
func (h *IntakeHandler) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.ErrorHandler.SendErrorResponse(w, http.StatusBadRequest, "Invalid multipart upload", "INVALID_UPLOAD", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrorHandler.SendErrorResponse(w, http.StatusBadRequest, "Missing form file field \"file\"", "MISSING_FILE", nil)
		return
	}
	defer file.Close()

	grid, err := intake.GridFromXLSX(file)
	if err != nil {
		h.Logger.Printf("Failed to read intake workbook %q: %v", header.Filename, err)
		h.ErrorHandler.SendErrorResponse(w, http.StatusUnprocessableEntity, "File is not a readable xlsx workbook", "UNREADABLE_WORKBOOK", nil)
		return
	}

	result := intake.NewExtractor(h.Template).Extract(grid)

	payload, err := json.Marshal(result.Accessories)
	if err != nil {
		h.Logger.Printf("Failed to encode accessory payload: %v", err)
		payload = []byte("[]")
	}

	h.Logger.Printf("Intake extraction from %q: type=%s serial=%q accessories=%d",
		header.Filename, result.Type, result.Serial, len(result.Accessories))

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, IntakeResponse{
		ExtractionResult:   result,
		AccessoriesPayload: string(payload),
	})
}
