package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"
)

// validationMiddleware rejects requests that do not match the document, for
// example a non-integer path parameter, with a 400 problem document.
func validationMiddleware(doc *openapi3.T, next http.Handler) http.Handler {
	if doc == nil {
		return next
	}

	// Servers are cleared so host matching never rejects a request.
	doc.Servers = nil

	options := &oapiMW.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandlerWithOpts: func(_ context.Context, err error, w http.ResponseWriter, r *http.Request, opts oapiMW.ErrorHandlerOpts) {
			status := opts.StatusCode
			if status == 0 {
				status = http.StatusBadRequest
			}
			writeProblem(w, r, status, validationDetail(err))
		},
	}

	return oapiMW.OapiRequestValidatorWithOptions(doc, options)(next)
}

// validationDetail keeps the first line of a validation error; the rest
// repeats the schema.
func validationDetail(err error) string {
	if err == nil {
		return "request does not match the API description"
	}
	detail, _, _ := strings.Cut(err.Error(), "\n")
	return detail
}
