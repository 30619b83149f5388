package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Sends image as multipart form `file` field together with extra fields and returns response body.
func postImage(ctx context.Context, client *http.Client, url string, image io.Reader, fields map[string]string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	imagePart, err := writer.CreateFormFile("file", "data")
	if err != nil {
		return nil, errors.Join(errors.New("failed to prepare multipart form data: failed to prepare image for sending as file"), err)
	}
	if _, err = io.Copy(imagePart, image); err != nil {
		return nil, errors.Join(errors.New("failed to prepare multipart form data: failed to write image to multipart"), err)
	}

	for name, value := range fields {
		if err = writer.WriteField(name, value); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to prepare multipart form data: failed to write %s to multipart", name), err)
		}
	}

	if err = writer.Close(); err != nil {
		return nil, errors.Join(errors.New("failed to prepare multipart form data: failed to finalize writer"), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.Join(errors.New("failed to prepare HTTP request"), err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(errors.New("HTTP request to external server failed"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code from external sever: status code %d", resp.StatusCode)
	}

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(errors.New("error while reading response body from remote server"), err)
	}
	return responseBytes, nil
}
