// Package httpclient provides basic http functions
package httpclient

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// feed servers occasionally hang, don't wait on them forever
var client = &http.Client{Timeout: 30 * time.Second}

// GetBytes pulls the body from url using a simple GET request.
// Non-2xx responses are returned as errors.
func GetBytes(url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected response status %s from %s", resp.Status, url)
	}

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
