// Package docs registers the OpenAPI description served under /swagger.
// Refresh it with `swag init -g cmd/server/main.go` after changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/books": {
            "get": {"tags": ["books"], "summary": "List books", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["books"], "summary": "Create a book", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/books/search": {"get": {"tags": ["books"], "summary": "Search books by title", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/books/{id}": {
            "get": {"tags": ["books"], "summary": "Get a book with its current owner", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["books"], "summary": "Replace the editable fields of a book", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["books"], "summary": "Delete a book", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/books/{id}/edit": {"get": {"tags": ["books"], "summary": "Get a book for editing", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/books/{id}/take": {"patch": {"tags": ["lending"], "summary": "Lend a book to a person", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/books/{id}/free": {"patch": {"tags": ["lending"], "summary": "Return a book", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/books/{id}/history": {"get": {"tags": ["lending"], "summary": "Lending history of a book, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/people": {
            "get": {"tags": ["people"], "summary": "List people", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["people"], "summary": "Create a person", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/people/search": {"get": {"tags": ["people"], "summary": "Search people by name", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/people/{id}": {
            "get": {"tags": ["people"], "summary": "Get a person", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["people"], "summary": "Replace a person", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["people"], "summary": "Delete a person", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/people/{id}/edit": {"get": {"tags": ["people"], "summary": "Get a person for editing", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Library Admin API",
	Description:      "Book catalog, person directory and lending.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
