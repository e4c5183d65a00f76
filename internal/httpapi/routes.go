// Package httpapi exposes the codec over HTTP as a second, optional front
// end over the same internal/codec pipeline the CLI drives: multipart file
// upload in, a compressed or decompressed artifact back out. It uses the
// same echo-based routing and middleware stack as the rest of this module,
// rewired onto the bit/text-mode codec instead of a fixed frequency-table
// format.
package httpapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kelbwah/huffmin/internal/artifact"
	"github.com/kelbwah/huffmin/internal/codec"
)

// modeFromQuery reads the "ascii" query parameter to select codec.Text
// instead of the default codec.Bit, mirroring the CLI's -a flag.
func modeFromQuery(c echo.Context) codec.Mode {
	if c.QueryParam("ascii") != "" {
		return codec.Text
	}
	return codec.Bit
}

// CompressFile handles POST /compress: takes a multipart "file" field and
// responds with the encoded artifact.
func CompressFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot open uploaded file")
	}
	defer src.Close()

	var out artifact.SequentialBuffer
	if _, err := codec.Encode(src, &out, modeFromQuery(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "compression failed: "+err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/octet-stream")
	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		`attachment; filename="compressed_`+file.Filename+`"`,
	)
	_, err = c.Response().Write(out.Bytes())
	return err
}

// DecompressFile handles POST /decompress: takes a multipart "file" field
// holding a previously-produced artifact and responds with the original
// bytes.
func DecompressFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot open uploaded file")
	}
	defer src.Close()

	blob, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read uploaded file")
	}

	decoded, err := codec.Decode(bytes.NewReader(blob), int64(len(blob)), modeFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "decompression failed: "+err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/octet-stream")
	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		`attachment; filename="decompressed_`+file.Filename+`"`,
	)
	_, err = c.Response().Write(decoded)
	return err
}
