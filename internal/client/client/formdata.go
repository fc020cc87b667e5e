package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formFile struct {
	field    string
	filename string
	r        io.Reader
}

// FormData is a multipart/form-data body. Fields and files are written in
// insertion order.
type FormData struct {
	fields [][2]string
	files  []formFile
}

func NewFormData() *FormData {
	return &FormData{}
}

func (f *FormData) Set(name, value string) *FormData {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *FormData) AddFile(field, filename string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

// encode renders the body and returns it with its boundary-bearing
// content type.
func (f *FormData) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", file.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
