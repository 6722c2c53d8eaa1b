// Package docs registers the Swagger document of the panel registry API
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "Service is healthy", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/login/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "User Login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login Successful", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "429": {"description": "Too many failed attempts", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/password_reset/{email}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Reset Password",
                "parameters": [
                    {"type": "string", "description": "User email", "name": "email", "in": "path", "required": true},
                    {"description": "New password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PasswordResetRequest"}}
                ],
                "responses": {
                    "200": {"description": "Password reset successful", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "User with the given email not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "422": {"description": "Password must be at least 8 characters long", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/{resource}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Resources"],
                "summary": "List records",
                "parameters": [
                    {"enum": ["admin", "member", "user"], "type": "string", "name": "resource", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Records retrieved", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "No records exist", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Resources"],
                "summary": "Create record",
                "parameters": [
                    {"enum": ["admin", "member", "user"], "type": "string", "name": "resource", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Record created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/{resource}/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Resources"],
                "summary": "Export records",
                "parameters": [
                    {"enum": ["admin", "member", "user"], "type": "string", "name": "resource", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Workbook", "schema": {"type": "file"}},
                    "404": {"description": "No records exist", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/{resource}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Resources"],
                "summary": "Get record",
                "parameters": [
                    {"enum": ["admin", "member", "user"], "type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "integer", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Record retrieved", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Resources"],
                "summary": "Update record",
                "parameters": [
                    {"enum": ["admin", "member", "user"], "type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "integer", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Record updated", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Nothing changed", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Resources"],
                "summary": "Delete record",
                "parameters": [
                    {"enum": ["admin", "member", "user"], "type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "integer", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Record deleted", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "user@example.com"},
                "password": {"type": "string", "example": "SecurePass123!"}
            }
        },
        "dto.PasswordResetRequest": {
            "type": "object",
            "properties": {
                "new_password": {"type": "string", "example": "NewSecurePass123!"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Panel Registry API",
	Description:      "CRUD API for admins, panel members and users with login and password reset.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
