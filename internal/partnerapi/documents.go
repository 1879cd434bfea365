package partnerapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/velomax/partner-client/pkg/enums"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

// UploadResult carries the stored location of an uploaded file.
type UploadResult struct {
	URL string `json:"url"`
}

// UploadDocument sends one verification document as multipart/form-data:
// a single "document" file part plus a "documentType" field. Single shot —
// no chunking, no resume, no retry.
func (c *Client) UploadDocument(ctx context.Context, filePath string, docType enums.DocumentType) (*UploadResult, error) {
	if !docType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "invalid document type "+docType.String())
	}
	return c.upload(ctx, "upload_document", pathUploadDocument, filePath, docType)
}

// UploadAvatar sends the profile photo.
func (c *Client) UploadAvatar(ctx context.Context, filePath string) (*UploadResult, error) {
	return c.upload(ctx, "upload_avatar", pathUploadAvatar, filePath, enums.DocumentTypeAvatar)
}

func (c *Client) upload(ctx context.Context, op, path, filePath string, docType enums.DocumentType) (*UploadResult, error) {
	if c.logg != nil {
		ctx = c.logg.WithOperation(ctx, op)
	}
	token := c.session.Token(ctx)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.KindUnauthorized, "no active session")
	}

	done, ok := c.beginExclusive(op + ":" + filePath)
	if !ok {
		return nil, errDuplicateInFlight(op)
	}
	defer done()

	body, contentType, err := buildMultipartBody(filePath, docType)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.KindInternal, err, "build "+op+" request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.uploadClient.Do(req)
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.KindNetwork, err, op+" request failed")
		c.observe(ctx, op, time.Since(start), wrapped)
		return nil, wrapped
	}
	defer func() { _ = resp.Body.Close() }()

	env, err := c.normalize(ctx, op, resp)
	c.observe(ctx, op, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := env.decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func buildMultipartBody(filePath string, docType enums.DocumentType) (*bytes.Buffer, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.KindValidation, err, "open document file")
	}
	defer func() { _ = file.Close() }()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile("document", filepath.Base(filePath))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.KindInternal, err, "build multipart body")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.KindInternal, err, "read document file")
	}
	if err := writer.WriteField("documentType", docType.String()); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.KindInternal, err, "write document type field")
	}
	if err := writer.Close(); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.KindInternal, err, "finalize multipart body")
	}

	return buf, writer.FormDataContentType(), nil
}
