package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/imagedrop/service/internal/config"
)

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	pw, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := pw.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func newTestHandler(store *fakeStore) *Handler {
	svc := newTestService(store, config.URLPolicySigned)
	return NewHandler(svc, zerolog.Nop())
}

func doUpload(t *testing.T, h *Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)
	return rec
}

func TestUploadImageSuccess(t *testing.T) {
	h := newTestHandler(newFakeStore())
	body, ct := multipartBody(t, "file", "photo.JPG", "image/jpeg", make([]byte, 1024))

	rec := doUpload(t, h, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success {
		t.Error("success flag not set")
	}
	if !strings.HasSuffix(res.FileName, ".JPG") {
		t.Errorf("fileName %q should end with .JPG", res.FileName)
	}
	if res.Size != 1024 {
		t.Errorf("size = %d, want 1024", res.Size)
	}
	if res.ContentType != "image/jpeg" {
		t.Errorf("contentType = %q, want image/jpeg", res.ContentType)
	}
	if res.URL == "" {
		t.Error("missing url")
	}
	if res.ExpiresAt == nil {
		t.Error("signed policy should include expiresAt")
	}
}

func TestUploadImageClientRejections(t *testing.T) {
	cases := []struct {
		name        string
		field       string
		fileName    string
		contentType string
		size        int
	}{
		{"missing file field", "attachment", "photo.png", "image/png", 10},
		{"empty file", "file", "photo.png", "image/png", 0},
		{"unsupported type", "file", "notes.txt", "text/plain", 10},
		{"too large", "file", "big.png", "image/png", MaxSizeBytes + 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			h := newTestHandler(store)
			body, ct := multipartBody(t, tc.field, tc.fileName, tc.contentType, make([]byte, tc.size))

			rec := doUpload(t, h, body, ct)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var res struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if res.Error == "" {
				t.Error("missing error message")
			}
			if len(store.uploads) != 0 {
				t.Error("store was called for a rejected request")
			}
		})
	}
}

func TestUploadImageStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.uploadErr = errors.New("storage unreachable")
	h := newTestHandler(store)
	body, ct := multipartBody(t, "file", "photo.png", "image/png", make([]byte, 10))

	rec := doUpload(t, h, body, ct)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var res map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	msg, _ := res["error"].(string)
	if !strings.Contains(msg, "storage unreachable") {
		t.Errorf("error %q should carry the underlying fault's message", msg)
	}
	if _, ok := res["success"]; ok {
		t.Error("failure response must not contain a success payload")
	}
}
