package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest runs one request through the router and returns the recorded
// response.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) *http.Response {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	req := httptest.NewRequest(args.Method, args.URL, args.Body)
	for key, value := range options.headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, req)
	return recorder.Result()
}

func WithHeader(key, value string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.headers[key] = value
	}
}
