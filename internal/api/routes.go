package api

import (
	"net/http"

	"github.com/eugenenazirov/example-backend/internal/docs"
	"github.com/eugenenazirov/example-backend/internal/models"
	"github.com/eugenenazirov/example-backend/internal/tags"
)

type route struct {
	op      docs.Operation
	handler http.HandlerFunc
}

func (rt route) pattern() string {
	return rt.op.Method + " " + rt.op.Path
}

// Operations returns the documented /v1 endpoints in registration order.
func (h *Handler) Operations() []docs.Operation {
	routes := h.routes()
	ops := make([]docs.Operation, len(routes))
	for i, rt := range routes {
		ops[i] = rt.op
	}
	return ops
}

func (h *Handler) routes() []route {
	problem := ProblemDetails{}
	notFound := func(description string) docs.Response {
		return docs.Response{
			Status:      http.StatusNotFound,
			Description: description,
			Body:        problem,
			ContentType: problemContentType,
		}
	}
	invalid := docs.Response{
		Status:      http.StatusBadRequest,
		Description: "Invalid request",
		Body:        problem,
		ContentType: problemContentType,
	}

	return []route{
		{
			op: docs.Operation{
				Method:      http.MethodGet,
				Path:        "/v1/product/{product_id}",
				OperationID: "getProduct",
				Tags:        []tags.Tag{tags.Products},
				Summary:     "Get product",
				Description: "Returns the product with the given ID.",
				PathParams:  []docs.Param{{Name: "product_id", Type: docs.ParamInteger, Required: true}},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Successful Response", Body: models.Product{}},
					notFound("Product not found"),
					invalid,
				},
			},
			handler: h.handleGetProduct,
		},
		{
			op: docs.Operation{
				Method:      http.MethodGet,
				Path:        "/v1/product/search",
				OperationID: "searchForProducts",
				Tags:        []tags.Tag{tags.Products},
				Summary:     "Search for products",
				Description: "Returns list of products that match the search criteria.",
				QueryParams: []docs.Param{{Name: "q", Description: "Case-insensitive substring of the product name.", Type: docs.ParamString}},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Successful Response", Body: []models.Product{}},
				},
			},
			handler: h.handleSearchProducts,
		},
		{
			op: docs.Operation{
				Method:      http.MethodGet,
				Path:        "/v1/order/{order_id}",
				OperationID: "getOrder",
				Tags:        []tags.Tag{tags.Orders},
				Summary:     "Get order",
				Description: "Returns the order with the given ID.\n\n" +
					"The currently logged in user is only able to retrieve the details of an order they placed.",
				PathParams: []docs.Param{{Name: "order_id", Type: docs.ParamInteger, Required: true}},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Successful Response", Body: models.Order{}},
					notFound("Order not found"),
					invalid,
				},
			},
			handler: h.handleGetOrder,
		},
		{
			op: docs.Operation{
				Method:      http.MethodPost,
				Path:        "/v1/account/password/change",
				OperationID: "changePassword",
				Tags:        []tags.Tag{tags.Accounts},
				Summary:     "Change password",
				Description: "The currently logged in user is able to change the password for their own user account.",
				Responses:   []docs.Response{{Status: http.StatusNoContent, Description: "Successful Response"}},
			},
			handler: h.handleChangePassword,
		},
		{
			op: docs.Operation{
				Method:      http.MethodPost,
				Path:        "/v1/account/password/request-reset",
				OperationID: "requestPasswordReset",
				Tags:        []tags.Tag{tags.Accounts},
				Summary:     "Request password reset",
				Description: "Starts a password reset flow for a user account.\n\n" +
					"The user will receive an email with a link to reset the password. " +
					"By receiving the email and clicking the link, the user proves to be the legitimate owner of the account. " +
					"The link will be valid for 30 minutes and opens a page where the user can set a new password.",
				Responses: []docs.Response{{Status: http.StatusAccepted, Description: "Successful Response"}},
			},
			handler: h.handleRequestPasswordReset,
		},
		{
			op: docs.Operation{
				Method:      http.MethodPost,
				Path:        "/v1/account/password/reset",
				OperationID: "resetPassword",
				Tags:        []tags.Tag{tags.Accounts},
				Summary:     "Reset password",
				Description: "Finishes a password reset flow for a user account.\n\n" +
					"The user has clicked the reset link in the email and set a new password, which is received in the request body.",
				Responses: []docs.Response{{Status: http.StatusNoContent, Description: "Successful Response"}},
			},
			handler: h.handleResetPassword,
		},
		{
			op: docs.Operation{
				Method:      http.MethodGet,
				Path:        "/v1/customer/b2c",
				OperationID: "listB2CCustomers",
				Tags:        []tags.Tag{tags.CustomersIndividual},
				Summary:     "List B2C customers",
				Description: "List all private customers (B2C).",
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Successful Response", Body: []models.B2CCustomer{}},
				},
			},
			handler: h.handleListCustomers,
		},
		{
			op: docs.Operation{
				Method:      http.MethodGet,
				Path:        "/v1/customer/b2c/{customer_id}",
				OperationID: "getB2CCustomer",
				Tags:        []tags.Tag{tags.CustomersIndividual},
				Summary:     "Get B2C customer",
				Description: "Get private customer (B2C).",
				PathParams:  []docs.Param{{Name: "customer_id", Type: docs.ParamInteger, Required: true}},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Successful Response", Body: models.B2CCustomer{}},
					notFound("Customer not found"),
					invalid,
				},
			},
			handler: h.handleGetCustomer,
		},
	}
}
