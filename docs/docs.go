// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/backoffice/main.go --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login"}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user"}},
        "/v1/orders": {
            "get": {"tags": ["orders"], "summary": "List orders", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["orders"], "summary": "Register an order", "security": [{"BearerAuth": []}]}
        },
        "/v1/orders/{order_number}": {"get": {"tags": ["orders"], "summary": "Get an order", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/cancel": {"post": {"tags": ["orders"], "summary": "Cancel an order", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/dispatch": {"post": {"tags": ["dispatch"], "summary": "Assign carrier and driver", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/settlement/close": {"post": {"tags": ["orders"], "summary": "Close settlement", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/ledger": {"get": {"tags": ["ledger"], "summary": "Get an order's fee ledger and totals", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/ledger/base": {"put": {"tags": ["ledger"], "summary": "Set base charge and dispatch amounts", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/ledger/fees": {"post": {"tags": ["ledger"], "summary": "Add a surcharge", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/ledger/fees/import": {"post": {"tags": ["ledger"], "summary": "Import legacy fee records", "security": [{"BearerAuth": []}]}},
        "/v1/orders/{order_number}/ledger/fees/{fee_id}": {
            "patch": {"tags": ["ledger"], "summary": "Update a surcharge", "security": [{"BearerAuth": []}]},
            "delete": {"tags": ["ledger"], "summary": "Remove a surcharge", "security": [{"BearerAuth": []}]}
        },
        "/v1/events": {"post": {"tags": ["events"], "summary": "Ingest a single status event", "security": [{"BearerAuth": []}]}},
        "/v1/events/batch": {"post": {"tags": ["events"], "summary": "Ingest a batch of status events", "security": [{"BearerAuth": []}]}},
        "/v1/companies": {
            "get": {"tags": ["companies"], "summary": "Search the roster", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["companies"], "summary": "Register a shipper or carrier", "security": [{"BearerAuth": []}]}
        },
        "/v1/companies/import": {"post": {"tags": ["companies"], "summary": "Import a roster CSV", "security": [{"BearerAuth": []}]}},
        "/v1/companies/export": {"get": {"tags": ["companies"], "summary": "Export the roster as CSV", "security": [{"BearerAuth": []}]}},
        "/v1/companies/{id}": {
            "get": {"tags": ["companies"], "summary": "Get a company", "security": [{"BearerAuth": []}]},
            "put": {"tags": ["companies"], "summary": "Update a company", "security": [{"BearerAuth": []}]},
            "delete": {"tags": ["companies"], "summary": "Delete a company", "security": [{"BearerAuth": []}]}
        },
        "/v1/companies/{id}/managers": {"post": {"tags": ["companies"], "summary": "Add a manager contact", "security": [{"BearerAuth": []}]}},
        "/v1/companies/{id}/managers/{manager_id}": {"delete": {"tags": ["companies"], "summary": "Remove a manager contact", "security": [{"BearerAuth": []}]}},
        "/v1/notifications/sms": {"post": {"tags": ["notifications"], "summary": "Queue a templated SMS", "security": [{"BearerAuth": []}]}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Freight back-office API",
	Description:      "Orders, dispatch, fee ledger and company roster for a freight brokerage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
