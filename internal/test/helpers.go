package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/stretchr/testify/require"
)

// GenericPayload is a raw JSON request body builder.
type GenericPayload map[string]interface{}

func (p GenericPayload) Reader(t *testing.T) io.Reader {
	t.Helper()

	b, err := json.Marshal(p)
	require.NoError(t, err)

	return bytes.NewReader(b)
}

// PerformRequest runs a single request against the server's echo instance.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body io.Reader, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	for key, vals := range headers {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

const echoHeaderContentType = "Content-Type"

// ParseResponseBody unmarshals the recorded response body into v.
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}

// RequireHTTPError asserts the recorded response carries the public part of
// the expected error.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, expected *httperrors.HTTPError) {
	t.Helper()

	require.Equal(t, int(*expected.Code), res.Code)

	var body struct {
		Code  int64  `json:"code"`
		Type  string `json:"type"`
		Title string `json:"title"`
	}
	ParseResponseBody(t, res, &body)

	require.Equal(t, *expected.Code, body.Code)
	require.Equal(t, *expected.Type, body.Type)
	require.Equal(t, *expected.Title, body.Title)
}
