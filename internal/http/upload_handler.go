package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// multipartOverhead is the allowance for form boundaries and headers on top of file sizes.
const multipartOverhead = 1 << 20

// UploadHandler provides HTTP handlers for the upload routes.
type UploadHandler struct {
	uploads  service.UploadService
	maxBytes int64
}

// NewUploadHandler creates an upload handler. Request bodies larger than
// maxSize*maxFiles plus the multipart overhead are rejected with 413.
func NewUploadHandler(uploads service.UploadService, maxSize int64, maxFiles int) *UploadHandler {
	if maxFiles < 1 {
		maxFiles = 1
	}
	return &UploadHandler{
		uploads:  uploads,
		maxBytes: maxSize*int64(maxFiles) + multipartOverhead,
	}
}

func actorFrom(c *gin.Context) (service.Actor, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: claims.UserID, Admin: claims.Role == model.RoleAdmin}, true
}

// formFailure reports a multipart body that could not be parsed.
func formFailure(b *ResponseBuilder, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		b.Fail(service.ErrFileTooLarge)
	case errors.Is(err, http.ErrMissingFile):
		b.Fail(service.ErrNoFile)
	default:
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
	}
}

func (h *UploadHandler) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
}

// openUpload opens a received part as service input. The caller closes the returned file.
func openUpload(field string, fh *multipart.FileHeader) (service.UploadInput, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadInput{}, nil, err
	}
	return service.UploadInput{
		Field:        field,
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Content:      f,
	}, f, nil
}

// Single handles POST /api/upload/single.
//
// @Summary      Upload a file
// @Description  Accepts jpeg, jpg, png, gif, pdf, doc, docx and txt files. The content type is sniffed and must match the extension.
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "File"
// @Success      201 {object} dto.SuccessResponse{data=dto.FileResponse}
// @Failure      400 {object} dto.ErrorResponse "Missing file or type not allowed"
// @Failure      413 {object} dto.ErrorResponse "File too large"
// @Router       /api/upload/single [post]
func (h *UploadHandler) Single(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	h.limitBody(c)
	fh, err := c.FormFile("file")
	if err != nil {
		formFailure(builder, err)
		return
	}

	in, f, err := openUpload("file", fh)
	if err != nil {
		builder.Fail(err)
		return
	}
	defer f.Close()

	rec, err := h.uploads.Save(c.Request.Context(), userID, in)
	if err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionFileUpload, "File uploaded", map[string]any{
		"filename": rec.Filename,
		"size":     rec.Size,
	})

	builder.Message(i18n.SuccessKeyFileUploaded).SuccessCreated(dto.NewFileResponse(rec))
}

// Multiple handles POST /api/upload/multiple.
//
// @Summary      Upload several files
// @Description  Stores every file or none of them
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files formData file true "Files"
// @Success      201 {object} dto.SuccessResponse{data=[]dto.FileResponse}
// @Failure      400 {object} dto.ErrorResponse "Missing files, too many files or type not allowed"
// @Failure      413 {object} dto.ErrorResponse "File too large"
// @Router       /api/upload/multiple [post]
func (h *UploadHandler) Multiple(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	h.limitBody(c)
	form, err := c.MultipartForm()
	if err != nil {
		formFailure(builder, err)
		return
	}

	headers := form.File["files"]
	inputs := make([]service.UploadInput, 0, len(headers))
	for _, fh := range headers {
		in, f, err := openUpload("files", fh)
		if err != nil {
			builder.Fail(err)
			return
		}
		defer f.Close()
		inputs = append(inputs, in)
	}

	records, err := h.uploads.SaveMany(c.Request.Context(), userID, inputs)
	if err != nil {
		builder.Fail(err)
		return
	}

	for _, rec := range records {
		middleware.AuditLog(c, model.ActionFileUpload, "File uploaded", map[string]any{
			"filename": rec.Filename,
			"size":     rec.Size,
		})
	}

	builder.Message(i18n.SuccessKeyFilesUploaded, len(records)).
		SuccessCreated(dto.NewFileResponses(records))
}

// MyFiles handles GET /api/upload/my-files.
//
// @Summary      List my files
// @Tags         Upload
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=[]dto.FileResponse}
// @Router       /api/upload/my-files [get]
func (h *UploadHandler) MyFiles(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	files, err := h.uploads.ListByUser(c.Request.Context(), userID)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Meta(gin.H{"total": len(files)}).SuccessOK(dto.NewFileResponses(files))
}

// Serve handles GET /api/upload/files/:filename, returning the file inline.
//
// @Summary      Serve a file
// @Tags         Upload
// @Produce      octet-stream
// @Param        filename path string true "Stored file name"
// @Success      200 {file} file
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/upload/files/{filename} [get]
func (h *UploadHandler) Serve(c *gin.Context) {
	rec, path, err := h.uploads.Resolve(c.Request.Context(), c.Param("filename"))
	if err != nil {
		NewResponseBuilder(c).Fail(err)
		return
	}

	c.Header("Content-Type", rec.MimeType)
	c.Header("Content-Disposition", "inline")
	c.File(path)
}

// Download handles GET /api/upload/download/:filename, returning the file as an attachment.
//
// @Summary      Download a file
// @Description  Only the owner or an admin may download
// @Tags         Upload
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        filename path string true "Stored file name"
// @Success      200 {file} file
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/upload/download/{filename} [get]
func (h *UploadHandler) Download(c *gin.Context) {
	builder := NewResponseBuilder(c)
	actor, ok := actorFrom(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	rec, path, err := h.uploads.ResolveFor(c.Request.Context(), actor, c.Param("filename"))
	if err != nil {
		builder.Fail(err)
		return
	}

	c.FileAttachment(path, rec.OriginalName)
}

// Delete handles DELETE /api/upload/:id.
//
// @Summary      Delete a file
// @Description  Only the owner or an admin may delete
// @Tags         Upload
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "File id"
// @Success      200 {object} dto.SuccessResponse{data=dto.FileResponse}
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/upload/{id} [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	builder := NewResponseBuilder(c)
	actor, ok := actorFrom(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}
	id, ok := pathObjectID(c, builder)
	if !ok {
		return
	}

	rec, err := h.uploads.Delete(c.Request.Context(), actor, id)
	if err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionFileDelete, "File deleted", map[string]any{
		"file_id":  id.Hex(),
		"filename": rec.Filename,
	})

	builder.Message(i18n.SuccessKeyFileDeleted).SuccessOK(dto.NewFileResponse(rec))
}
