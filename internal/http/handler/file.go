package handler

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/http/middleware"
	"docportal/internal/model"
	"docportal/internal/service"
)

const defaultContentType = "application/octet-stream"

// ListFiles godoc
// @Summary List files visible to the caller
// @Tags files
// @Produce json
// @Param company_id query string false "Filter by company (admin only)"
// @Param category query string false "Filter by category"
// @Param q query string false "Name search"
// @Success 200 "OK"
// @Failure 400 "Malformed company_id"
// @Security BearerAuth
// @Router /api/files [get]
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := service.FileQuery{
			CompanyID: firstNonEmpty(c.Query("company_id"), c.Query("companyId")),
			Category:  model.Category(c.Query("category")),
			Search:    strings.TrimSpace(firstNonEmpty(c.Query("q"), c.Query("search"))),
		}
		if q.CompanyID != "" && !isUUID(q.CompanyID) {
			return errInvalidID
		}
		res, err := svc.List(c.UserContext(), principal(c), q)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// UploadFiles godoc
// @Summary Upload one or more files to a company
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param company_id formData string true "Target company"
// @Param category formData string true "Tax, GST, Financial, Legal, Audit or Other"
// @Param expiry_date formData string false "YYYY-MM-DD or RFC 3339"
// @Param files formData file true "Files to store"
// @Success 201 "Every file stored"
// @Success 207 "Some files failed"
// @Failure 400 "Validation error"
// @Failure 502 "Every file failed"
// @Security BearerAuth
// @Router /api/files/upload [post]
func UploadFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest("INVALID_BODY", "multipart form expected")
		}

		expiry, err := parseExpiry(formValue(form, "expiry_date", "expiryDate"))
		if err != nil {
			return err
		}

		companyID := formValue(form, "company_id", "companyId")
		if companyID != "" && !isUUID(companyID) {
			return &service.ValidationError{Field: "company_id", Message: "must be a valid id"}
		}

		req := service.UploadRequest{
			CompanyID:  companyID,
			Category:   model.Category(formValue(form, "category")),
			ExpiryDate: expiry,
		}
		for _, fh := range formFiles(form) {
			req.Files = append(req.Files, uploadPart(fh))
		}

		res, err := svc.Upload(c.UserContext(), principal(c), req)
		if err != nil {
			return err
		}

		switch {
		case len(res.Failed) == 0:
			return writeData(c, fiber.StatusCreated, res)
		case len(res.Uploaded) == 0:
			return c.Status(fiber.StatusBadGateway).JSON(envelope{
				Data:      res,
				Message:   "all uploads failed",
				Code:      "UPLOAD_FAILED",
				RequestID: middleware.GetRequestID(c),
			})
		default:
			return writeData(c, fiber.StatusMultiStatus, res)
		}
	}
}

// GetFile godoc
// @Summary Get file metadata
// @Tags files
// @Produce json
// @Param id path string true "File id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/files/{id} [get]
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		res, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// DeleteFile godoc
// @Summary Delete a file
// @Tags files
// @Produce json
// @Param id path string true "File id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/files/{id} [delete]
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), principal(c), id); err != nil {
			return err
		}
		return writeMessage(c, fiber.StatusOK, "File deleted")
	}
}

// MarkFileRead godoc
// @Summary Add the caller to the file's read-set
// @Tags files
// @Produce json
// @Param id path string true "File id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/files/{id}/mark-read [post]
func MarkFileRead(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		res, err := svc.MarkRead(c.UserContext(), principal(c), id)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// FileDownloadURL godoc
// @Summary Get a short-lived presigned download link
// @Tags files
// @Produce json
// @Param id path string true "File id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/files/{id}/download-url [get]
func FileDownloadURL(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		res, err := svc.DownloadURL(c.UserContext(), principal(c), id)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// FileContent godoc
// @Summary Stream the file as an attachment
// @Tags files
// @Produce octet-stream
// @Param id path string true "File id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/files/{id}/content [get]
func FileContent(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		rc, f, err := svc.Open(c.UserContext(), principal(c), id)
		if err != nil {
			return err
		}

		ct := f.ContentType
		if ct == "" {
			ct = defaultContentType
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
		// fasthttp closes rc once the body is written.
		return c.Status(fiber.StatusOK).SendStream(rc, int(f.Size))
	}
}

func formValue(form *multipart.Form, keys ...string) string {
	for _, k := range keys {
		if v := form.Value[k]; len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			return strings.TrimSpace(v[0])
		}
	}
	return ""
}

func formFiles(form *multipart.Form) []*multipart.FileHeader {
	if files := form.File["files"]; len(files) > 0 {
		return files
	}
	return form.File["file"]
}

func uploadPart(fh *multipart.FileHeader) service.UploadPart {
	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" {
		ct = defaultContentType
	}
	return service.UploadPart{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// parseExpiry accepts YYYY-MM-DD (midnight UTC) or RFC 3339. Empty means no expiry.
func parseExpiry(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, &service.ValidationError{Field: "expiry_date", Message: "must be YYYY-MM-DD or RFC 3339"}
	}
	t = t.UTC()
	return &t, nil
}
