package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, fieldName, fileName string, content []byte, query string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	target := "/"
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestCompressFileRoundTripsThroughDecompressFile(t *testing.T) {
	e := echo.New()
	data := []byte("abracadabra")

	req := multipartRequest(t, "file", "input.txt", data, "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, CompressFile(c))
	require.Equal(t, http.StatusOK, rec.Code)
	compressed := rec.Body.Bytes()
	require.NotEmpty(t, compressed)

	req2 := multipartRequest(t, "file", "artifact.huff", compressed, "")
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	require.NoError(t, DecompressFile(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, data, rec2.Body.Bytes())
}

func TestCompressFileAsciiModeRoundTrip(t *testing.T) {
	e := echo.New()
	data := []byte("mississippi")

	req := multipartRequest(t, "file", "input.txt", data, "ascii=1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, CompressFile(c))
	compressed := rec.Body.Bytes()

	req2 := multipartRequest(t, "file", "artifact.huff", compressed, "ascii=1")
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	require.NoError(t, DecompressFile(c2))
	require.Equal(t, data, rec2.Body.Bytes())
}

func TestCompressFileRequiresFileField(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := CompressFile(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDecompressFileRejectsCorruptArtifact(t *testing.T) {
	e := echo.New()
	data := []byte("abracadabra")

	req := multipartRequest(t, "file", "input.txt", data, "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, CompressFile(c))
	compressed := rec.Body.Bytes()
	truncated := compressed[:len(compressed)-3]

	req2 := multipartRequest(t, "file", "artifact.huff", truncated, "")
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	err := DecompressFile(c2)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
