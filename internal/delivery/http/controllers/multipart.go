package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/domain"
)

const maxMultipartMemory = 32 << 20 // 32 MiB

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeMultipart parses a multipart request carrying the JSON payload in the
// "data" field and image uploads in repeated "file" fields. Uploaded file URLs
// are returned in field order, capped at maxFiles. On failure it writes the
// error response and returns ok=false.
func decodeMultipart(w http.ResponseWriter, r *http.Request, media domain.MediaStore, dest any, maxFiles int) ([]string, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed multipart body")
		return nil, false
	}

	data := r.FormValue("data")
	if data == "" {
		data = "{}"
	}
	if !helpers.DecodeAndValidateFrom(w, strings.NewReader(data), dest) {
		return nil, false
	}

	files := r.MultipartForm.File["file"]
	if len(files) > maxFiles {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest,
			fmt.Sprintf("at most %d files allowed", maxFiles))
		return nil, false
	}

	var urls []string
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable file upload")
			return nil, false
		}
		url, err := media.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeGatewayError, "file upload failed")
			return nil, false
		}
		urls = append(urls, url)
	}
	return urls, true
}
