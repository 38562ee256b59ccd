// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package docs registers the OpenAPI document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Prefix the token with 'Bearer '"
        }
    },
    "paths": {
        "/movies/popular": {
            "get": {
                "tags": ["movies"],
                "summary": "List popular movies",
                "description": "Top 30 movies by popularity, served from a 3-hour cache.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "429": {"description": "Upstream rate limited", "schema": {"$ref": "#/definitions/Envelope"}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/movies/search": {
            "get": {
                "tags": ["movies"],
                "summary": "Search movies by title",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "query", "in": "query", "type": "string", "description": "Title query; blank returns an empty page"},
                    {"name": "page", "in": "query", "type": "integer", "default": 1}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/movies/{id}": {
            "get": {
                "tags": ["movies"],
                "summary": "Get one movie with full details",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Movie not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/movies/{id}/rating": {
            "post": {
                "tags": ["movies"],
                "summary": "Rate a movie",
                "description": "Records the authenticated user's score (1-10); a repeat vote replaces the previous score.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated aggregate", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid score", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Movie not cached", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "get": {
                "tags": ["movies"],
                "summary": "Get the caller's rating for a movie",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "The caller's vote", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "No rating recorded", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created, token issued", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out everywhere",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Sessions deleted", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Alive"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "fail", "error"]},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "errorCode": {"type": "string"}
            }
        },
        "RateRequest": {
            "type": "object",
            "required": ["score"],
            "properties": {
                "score": {"type": "integer", "minimum": 1, "maximum": 10}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "username", "password"],
            "properties": {
                "email": {"type": "string", "format": "email"},
                "username": {"type": "string"},
                "password": {"type": "string", "format": "password"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string", "format": "password"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Screenlog API",
	Description:      "Movie review REST API with TMDB catalog caching.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
