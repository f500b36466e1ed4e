// handlers_convert.go - Conversion and review handlers
package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/diff"
	"github.com/showscrub/backend/internal/models"
	"github.com/showscrub/backend/internal/storage"
	"github.com/showscrub/backend/internal/textdecode"
	"github.com/showscrub/backend/internal/transform"
)

// ConversionHandlerImpl implements the ConversionHandler interface
type ConversionHandlerImpl struct {
	pipeline *transform.Pipeline
	cache    ConversionCache
	store    storage.Store // nil when outputs are not written to disk
	defaults clock.Options
	workers  int
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewConversionHandler creates a new conversion handler instance
func NewConversionHandler(pipeline *transform.Pipeline, cache ConversionCache, store storage.Store, defaults clock.Options, workers int, validate *validator.Validate, logger zerolog.Logger) ConversionHandler {
	return &ConversionHandlerImpl{
		pipeline: pipeline,
		cache:    cache,
		store:    store,
		defaults: defaults,
		workers:  workers,
		validate: validate,
		logger:   logger,
	}
}

// HandleConvert converts uploaded captures. It accepts a multipart form with
// one or more "files" plus custom/date/start/end fields, or a JSON body with
// a single named text.
func (h *ConversionHandlerImpl) HandleConvert(c echo.Context) error {
	var uploads []upload
	var creq clockRequest

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return NewBadRequestError("invalid multipart form", err)
		}
		files := form.File["files"]
		if len(files) == 0 {
			return NewValidationError("files")
		}
		for _, fh := range files {
			uploads = append(uploads, readUpload(fh))
		}
		creq = clockRequest{
			Custom: parseFlag(c.FormValue("custom")),
			Date:   c.FormValue("date"),
			Start:  c.FormValue("start"),
			End:    c.FormValue("end"),
		}
	} else {
		var req convertRequest
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid JSON body", err)
		}
		if err := h.validate.Struct(&req); err != nil {
			return fromValidation(err)
		}
		uploads = append(uploads, upload{name: req.Name, text: req.Text, encoding: "utf-8"})
		creq = req.Clock
	}

	if err := h.validate.Struct(&creq); err != nil {
		return fromValidation(err)
	}

	resp := h.convert(c.Request().Context(), uploads, creq.options(h.defaults))
	return c.JSON(http.StatusOK, resp)
}

// convert runs the batch, caches every outcome in upload order and writes the
// artifacts of successful conversions.
func (h *ConversionHandlerImpl) convert(ctx context.Context, uploads []upload, opts clock.Options) *models.BatchResponse {
	docs := make([]transform.Document, len(uploads))
	for i, u := range uploads {
		docs[i] = transform.Document{Name: u.name, Text: u.text, Err: u.err}
	}
	outcomes := h.pipeline.ConvertBatch(ctx, docs, opts, h.workers)

	summary := transform.Summarize(outcomes)
	resp := &models.BatchResponse{
		Conversions: make([]*models.Conversion, 0, len(outcomes)),
		Total:       summary.Total,
		Healthy:     summary.Healthy,
		Unhealthy:   summary.Unhealthy,
		Failed:      summary.Failed,
		Problems:    summary.Problems,
		Pass:        summary.Pass(),
	}

	for i, o := range outcomes {
		conv := h.cache.Add(o.Name, uploads[i].encoding, o.Result, o.Err, o.Elapsed)
		if o.Result != nil && h.store != nil {
			if err := h.cache.SetArtifacts(conv.ID, h.persist(conv.ID, o.Name, o.Result)); err != nil {
				h.logger.Warn().Err(err).Str("id", conv.ID).Msg("Conversion evicted before artifacts were recorded")
			}
		}

		event := h.logger.Info().
			Str("id", conv.ID).
			Str("file", o.Name).
			Int64("ms", conv.ProcessingTimeMs)
		if o.Result != nil {
			event = event.
				Int("removedLines", o.Result.Report.RemovedClear).
				Bool("clockAdjusted", o.Result.Report.Clock.Adjusted).
				Bool("pass", o.Result.Report.Healthy())
		} else {
			event = event.Str("error", conv.Error)
		}
		event.Msg("Converted capture")

		resp.Conversions = append(resp.Conversions, conv)
	}
	return resp
}

// persist writes one artifact per artifact name and returns the names
// actually used on disk.
func (h *ConversionHandlerImpl) persist(id, fileName string, res *transform.Result) []string {
	names := transform.ArtifactNames(fileName, res.Report.Serials, transform.NewNamer())
	saved := make([]string, 0, len(names))
	for _, name := range names {
		info, err := h.store.Save(id, name, strings.NewReader(artifactText(res)))
		if err != nil {
			h.logger.Error().Err(err).Str("id", id).Str("artifact", name).Msg("Failed to write artifact")
			continue
		}
		saved = append(saved, info.Name)
	}
	return saved
}

// HandleGetConversion returns a conversion summary and its full report
func (h *ConversionHandlerImpl) HandleGetConversion(c echo.Context) error {
	id := c.Param("id")
	conv, ok := h.cache.GetSession(id)
	if !ok {
		return NewNotFoundError("conversion", id)
	}
	// Touch conversion to keep it alive while it is being polled
	h.cache.TouchSession(id)

	resp := conversionResponse{Conversion: conv}
	if res, err := h.cache.GetResult(id); err == nil {
		resp.Report = &res.Report
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleGetReport returns the plain-text validation report
func (h *ConversionHandlerImpl) HandleGetReport(c echo.Context) error {
	conv, res, err := h.lookup(c)
	if err != nil {
		return err
	}

	header := c.Response().Header()
	header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	return c.String(http.StatusOK, transform.RenderText(conv.FileName, &res.Report))
}

// HandleGetOutput downloads the converted text under its artifact name
func (h *ConversionHandlerImpl) HandleGetOutput(c echo.Context) error {
	conv, res, err := h.lookup(c)
	if err != nil {
		return err
	}

	name := transform.DefaultArtifactName
	if len(conv.Artifacts) > 0 {
		name = conv.Artifacts[0]
	} else if names := transform.ArtifactNames(conv.FileName, res.Report.Serials, transform.NewNamer()); len(names) > 0 {
		name = names[0]
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(artifactText(res)))
}

// HandleGetDiff returns the reviewed side-by-side comparison of input and
// output. onlyChanges folds unchanged lines into skip rows.
func (h *ConversionHandlerImpl) HandleGetDiff(c echo.Context) error {
	_, res, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, compareResult(res, parseFlag(c.QueryParam("onlyChanges"))))
}

// HandleGetDiffMsgpack returns the same rows as HandleGetDiff encoded as
// msgpack with the JSON field names.
func (h *ConversionHandlerImpl) HandleGetDiffMsgpack(c echo.Context) error {
	_, res, err := h.lookup(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(compareResult(res, parseFlag(c.QueryParam("onlyChanges")))); err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", buf.Bytes())
}

// lookup resolves the :id parameter to a successful conversion.
func (h *ConversionHandlerImpl) lookup(c echo.Context) (*models.Conversion, *transform.Result, error) {
	id := c.Param("id")
	conv, ok := h.cache.GetSession(id)
	if !ok {
		return nil, nil, NewNotFoundError("conversion", id)
	}
	res, err := h.cache.GetResult(id)
	if err != nil {
		return nil, nil, NewNotFoundError("conversion output", id)
	}
	return conv, res, nil
}

func compareResult(res *transform.Result, onlyChanges bool) diff.Result {
	return diff.Compare(strings.Split(res.Input, "\n"), strings.Split(res.Output, "\n"), onlyChanges)
}

// artifactText is the converted text as written to disk, newline terminated.
func artifactText(res *transform.Result) string {
	if res.Output == "" || strings.HasSuffix(res.Output, "\n") {
		return res.Output
	}
	return res.Output + "\n"
}

// parseFlag reads the usual HTML form spellings of "on".
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

type upload struct {
	name     string
	text     string
	encoding string
	err      error
}

func readUpload(fh *multipart.FileHeader) upload {
	u := upload{name: fh.Filename}
	f, err := fh.Open()
	if err != nil {
		u.err = fmt.Errorf("opening upload: %w", err)
		return u
	}
	defer f.Close()

	decoded, err := textdecode.DecodeReader(f)
	if err != nil {
		u.err = fmt.Errorf("decoding %s: %w", fh.Filename, err)
		return u
	}
	u.text = decoded.Text
	u.encoding = decoded.Encoding
	return u
}

type clockRequest struct {
	Custom bool   `json:"custom"`
	Date   string `json:"date"`
	Start  string `json:"start" validate:"omitempty,hms"`
	End    string `json:"end" validate:"omitempty,hms"`
}

// options overlays the request on defaults. The date is passed through
// unparsed; an unusable date is reported by the clock adjustment.
func (r clockRequest) options(defaults clock.Options) clock.Options {
	opts := defaults
	opts.Custom = r.Custom
	opts.Date = strings.TrimSpace(r.Date)
	if start, err := clock.ParseTimeOfDay(r.Start); err == nil {
		opts.Start = start
	}
	if end, err := clock.ParseTimeOfDay(r.End); err == nil {
		opts.End = end
	}
	return opts
}

type convertRequest struct {
	Name  string       `json:"name" validate:"required,max=255"`
	Text  string       `json:"text"`
	Clock clockRequest `json:"clock"`
}

type conversionResponse struct {
	Conversion *models.Conversion `json:"conversion"`
	Report     *transform.Report  `json:"report,omitempty"`
}
