// Package docs registers the OpenAPI document served under /docs.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Register a user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Exchange credentials for a bearer token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "security": [{"BearerAuth": []}], "summary": "Revoke the presented bearer token", "responses": {"200": {"description": "OK"}}}},
        "/projects": {
            "get": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "List projects", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Create a draft project", "responses": {"201": {"description": "Created"}}}
        },
        "/projects/{id}": {
            "get": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Get a project", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Update project fields", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Delete a project and every version below it", "responses": {"204": {"description": "No Content"}}}
        },
        "/projects/{id}/done": {"post": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Mark a project done", "responses": {"200": {"description": "OK"}}}},
        "/projects/{id}/enhancements": {"post": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Start the next version of a done project", "responses": {"201": {"description": "Created"}, "409": {"description": "project is not done"}}}},
        "/projects/{id}/versions": {"get": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "List every version in a project's lineage", "responses": {"200": {"description": "OK"}}}},
        "/projects/{id}/history": {"get": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Change history, newest first", "responses": {"200": {"description": "OK"}}}},
        "/projects/{id}/autosave": {"patch": {"tags": ["Projects"], "security": [{"BearerAuth": []}], "summary": "Queue a debounced write of a free-text field", "responses": {"202": {"description": "Accepted"}}}},
        "/projects/{id}/chat/{flow}": {
            "get": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Start or resume a requirements conversation", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Answer the current question or send a command", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Forget the stored conversation", "responses": {"204": {"description": "No Content"}}}
        },
        "/projects/{id}/tasks": {
            "get": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "List a project's tasks in order", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Append a task", "responses": {"201": {"description": "Created"}}}
        },
        "/projects/{id}/tasks/order": {"put": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Replace the task order", "responses": {"200": {"description": "OK"}}}},
        "/projects/{id}/tasks/{taskID}": {
            "patch": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Toggle or move a task", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Remove a task", "responses": {"204": {"description": "No Content"}}}
        },
        "/projects/{id}/export": {"get": {"tags": ["Export"], "security": [{"BearerAuth": []}], "produces": ["text/markdown"], "summary": "Render the project as Markdown", "responses": {"200": {"description": "Markdown document"}}}},
        "/projects/{id}/exports": {"post": {"tags": ["Export"], "security": [{"BearerAuth": []}], "summary": "Render the export in the background", "responses": {"202": {"description": "Accepted"}, "503": {"description": "no queue configured"}}}},
        "/projects/{id}/exports/latest": {"get": {"tags": ["Export"], "security": [{"BearerAuth": []}], "summary": "Fetch the latest background export", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Dashboard Spec API",
	Description:      "Requirements conversations, versioned dashboard specifications and Markdown export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
