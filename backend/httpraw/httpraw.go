// Package httpraw implements a backend that replays an HTTP login request
// with the candidate substituted into a templated body, and inspects the
// response for a configurable failure marker.
package httpraw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Asylian21/passcrack/backend"
)

func init() {
	backend.Register("http-raw", func() backend.Backend { return &Backend{Method: http.MethodPost} })
}

// Backend replays a login request against URL, substituting candidate for
// the literal string "{{PASSWORD}}" in BodyTemplate, and treats the
// response as a failed login if it contains FailureMarker.
type Backend struct {
	Key           string
	URL           string
	Method        string
	BodyTemplate  string
	FailureMarker string
	Timeout       time.Duration

	client    *http.Client
	mu        sync.Mutex
	registrar backend.Registrar
	found     bool
}

const placeholder = "{{PASSWORD}}"

func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:    "http-raw",
		Author:  "passcrack",
		Version: "1.0",
		Usage: []backend.Option{
			{Flag: 'u', Description: "target login URL"},
			{Flag: 'b', Description: "request body template, candidate substituted for {{PASSWORD}}"},
			{Flag: 'm', Description: "substring present in the response body on a failed login"},
			{Flag: 'k', Description: "key name reported on success (defaults to the URL)"},
		},
		OptionLetters: "ubmk",
		InfoText:      "replays an HTTP login request and checks the response for a failure marker",
	}
}

func (b *Backend) SetOption(flag byte, arg string) error {
	switch flag {
	case 'u':
		b.URL = arg
	case 'b':
		b.BodyTemplate = arg
	case 'm':
		b.FailureMarker = arg
	case 'k':
		b.Key = arg
	}
	return nil
}

func (b *Backend) SetRegistrar(r backend.Registrar) { b.registrar = r }

func (b *Backend) Init(workers int) error {
	if b.URL == "" {
		return errors.New("http-raw: -u url is required")
	}
	if b.FailureMarker == "" {
		return errors.New("http-raw: -m failure marker is required")
	}
	if b.Method == "" {
		b.Method = http.MethodPost
	}
	if b.Timeout == 0 {
		b.Timeout = 10 * time.Second
	}
	if b.Key == "" {
		b.Key = b.URL
	}
	b.client = &http.Client{Timeout: b.Timeout}
	return nil
}

func (b *Backend) WorkerInit(id int) error { return nil }

func (b *Backend) TryPhrase(id int, candidate []byte) (backend.Status, error) {
	body := strings.ReplaceAll(b.BodyTemplate, placeholder, string(candidate))

	req, err := http.NewRequest(b.Method, b.URL, bytes.NewBufferString(body))
	if err != nil {
		return backend.StatusFail, fmt.Errorf("http-raw: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return backend.StatusFail, fmt.Errorf("http-raw: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return backend.StatusFail, fmt.Errorf("http-raw: reading response: %w", err)
	}

	if strings.Contains(string(respBody), b.FailureMarker) {
		return backend.StatusContinue, nil
	}

	b.mu.Lock()
	already := b.found
	b.found = true
	b.mu.Unlock()
	if !already && b.registrar != nil {
		b.registrar.RegisterPassword(b.Key, string(candidate))
	}
	return backend.StatusCompleted, nil
}

func (b *Backend) WorkerFinish(id int) {}

func (b *Backend) Finish() {}
