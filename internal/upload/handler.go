package upload

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/imagedrop/service/internal/metrics"
	"github.com/imagedrop/service/internal/response"
)

// Handler holds the HTTP handler for the upload endpoint.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Result is the JSON body returned after a successful upload.
type Result struct {
	Success     bool       `json:"success"`
	FileName    string     `json:"fileName"`
	URL         string     `json:"url"`
	Size        int64      `json:"size"`
	ContentType string     `json:"contentType"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// UploadImage godoc
//
//	@Summary		Upload an image
//	@Description	Accepts one multipart image file, stores it in object storage and returns an access URL.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"image file (jpeg, png, gif or webp, max 5 MiB)"
//	@Success		200	{object}	Result
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/upload-image [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		// Missing form field or unparseable multipart body: same rejection
		// as an empty file, and not worth an error log.
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		response.BadRequest(w, ErrEmptyFile.Error())
		return
	}
	defer file.Close()

	obj, err := h.svc.Store(r.Context(), Request{
		File:        file,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		if IsClientError(err) {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			response.BadRequest(w, err.Error())
			return
		}
		h.log.Error().
			Err(err).
			Str("stage", "store").
			Str("fileName", header.Filename).
			Str("contentType", header.Header.Get("Content-Type")).
			Msg("upload failed")
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		response.InternalError(w, err.Error())
		return
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	response.JSON(w, http.StatusOK, Result{
		Success:     true,
		FileName:    obj.Key,
		URL:         obj.URL,
		Size:        obj.Size,
		ContentType: obj.ContentType,
		ExpiresAt:   obj.ExpiresAt,
	})
}
