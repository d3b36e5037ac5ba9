// Package tests holds helpers shared by the http handler tests.
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// GetOK performs a GET request that must succeed and decodes the response into T.
func GetOK[T any](t *testing.T, router http.Handler, path string) T {
	t.Helper()

	return decode[T](t, Endpoint(t, router, http.MethodGet, path, nil, http.StatusOK))
}

// PostOK performs a POST request that must succeed and decodes the response into T.
func PostOK[T any](t *testing.T, router http.Handler, path string, body any) T {
	t.Helper()

	return decode[T](t, Endpoint(t, router, http.MethodPost, path, body, http.StatusOK))
}

// PostStatus performs a POST request that must return expectedStatus and decodes the response into T.
func PostStatus[T any](t *testing.T, router http.Handler, path string, body any, expectedStatus int) T {
	t.Helper()

	return decode[T](t, Endpoint(t, router, http.MethodPost, path, body, expectedStatus))
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T { //nolint:ireturn
	t.Helper()

	var value T
	if err := json.NewDecoder(recorder.Body).Decode(&value); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return value
}

func Endpoint(t *testing.T, router http.Handler, method string, path string, body any, expectedStatus int) *httptest.ResponseRecorder {
	t.Helper()

	reqCtx, cancel := context.WithTimeout(t.Context(), time.Second*10)
	defer cancel()

	recorder := httptest.NewRecorder()

	var bodyReader io.Reader
	if body != nil {
		bodyJSON, errJSON := json.Marshal(body)
		if errJSON != nil {
			t.Fatalf("Failed to encode request: %v", errJSON)
		}

		bodyReader = bytes.NewReader(bodyJSON)
	}

	request, errRequest := http.NewRequestWithContext(reqCtx, method, path, bodyReader)
	if errRequest != nil {
		t.Fatalf("Failed to make request: %v", errRequest)
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	router.ServeHTTP(recorder, request)

	require.Equal(t, expectedStatus, recorder.Code, "Received invalid response code. method: %s path: %s", method, path)

	return recorder
}
