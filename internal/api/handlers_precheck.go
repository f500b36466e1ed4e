// handlers_precheck.go - Too-old clock check handler
package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/showscrub/backend/internal/models"
	"github.com/showscrub/backend/internal/transform"
)

// PrecheckHandlerImpl implements the PrecheckHandler interface
type PrecheckHandlerImpl struct {
	pipeline *transform.Pipeline
	validate *validator.Validate
}

// NewPrecheckHandler creates a new precheck handler
func NewPrecheckHandler(pipeline *transform.Pipeline, validate *validator.Validate) PrecheckHandler {
	return &PrecheckHandlerImpl{pipeline: pipeline, validate: validate}
}

// HandlePrecheck reports whether the first show clock reading of a capture is
// more than a year old. The capture comes as a multipart "file" or as a JSON
// body with name and text.
func (h *PrecheckHandlerImpl) HandlePrecheck(c echo.Context) error {
	var u upload
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return NewValidationError("file")
		}
		u = readUpload(fh)
		if u.err != nil {
			return NewBadRequestError("could not read capture", u.err)
		}
	} else {
		var req precheckRequest
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid JSON body", err)
		}
		if err := h.validate.Struct(&req); err != nil {
			return fromValidation(err)
		}
		u = upload{name: req.Name, text: req.Text}
	}

	result := models.PrecheckResult{FileName: u.name}
	if issue := h.pipeline.Precheck(u.text); issue != nil {
		result.TooOld = true
		result.LineNo = issue.LineNo
		result.FoundDate = issue.FoundDate
		result.OldestAllowedDate = issue.OldestAllowedDate
	}
	return c.JSON(http.StatusOK, result)
}

type precheckRequest struct {
	Name string `json:"name" validate:"max=255"`
	Text string `json:"text" validate:"required"`
}
