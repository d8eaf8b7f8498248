package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LabSyncPro API",
        "description": "School lab administration: period generation, timetable versioning and session scheduling",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session tokens"},
        {"name": "Timetable", "description": "Period generation and version management"},
        {"name": "Schedules", "description": "Session scheduling and conflict checks"},
        {"name": "Labs", "description": "Laboratories and workstation inventory"},
        {"name": "Classes", "description": "Class cohorts and lab groups"},
        {"name": "Grades", "description": "Grading scale"},
        {"name": "Import", "description": "Bulk CSV imports"},
        {"name": "Export", "description": "Timetable downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/config/generate-periods": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a candidate period layout for a school day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePeriodsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid generation parameters"}
                }
            }
        },
        "/timetable/versions": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable versions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Create a timetable version",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVersionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Effective date collides with existing versions"}
                }
            }
        },
        "/timetable/versions/active": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get the version effective on a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No version effective on the date"}
                }
            }
        },
        "/timetable/versions/compare": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Compare two timetable versions",
                "parameters": [
                    {"name": "versionA", "in": "query", "type": "string", "required": true},
                    {"name": "versionB", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/versions/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get a version with its periods",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a draft version",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Version already took effect or owns sessions"}
                }
            }
        },
        "/timetable/versions/{id}/validate": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Check a version's periods for gaps and overlaps",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/versions/{id}/periods": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Replace the period set of a draft version",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Version already took effect"}
                }
            }
        },
        "/timetable/versions/{id}/activate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Activate a version from a given date",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List scheduled sessions",
                "parameters": [
                    {"name": "versionId", "in": "query", "type": "string"},
                    {"name": "labId", "in": "query", "type": "string"},
                    {"name": "instructorId", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Schedule a session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict enforcement rejected the session"}
                }
            }
        },
        "/timetable/schedules/conflicts": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Probe conflicts for a prospective session",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date", "required": true},
                    {"name": "periodId", "in": "query", "type": "string", "required": true},
                    {"name": "labId", "in": "query", "type": "string"},
                    {"name": "instructorId", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "groupId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export/pdf": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the daily timetable as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/import/users": {
            "post": {
                "tags": ["Import"],
                "summary": "Bulk-import user accounts from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Import summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "GeneratePeriodsRequest": {
            "type": "object",
            "required": ["schoolStartTime", "schoolEndTime", "lectureDurationMinutes"],
            "properties": {
                "schoolStartTime": {"type": "string", "example": "08:00"},
                "schoolEndTime": {"type": "string", "example": "15:00"},
                "lectureDurationMinutes": {"type": "integer", "example": 45},
                "breakConfigurations": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/BreakConfiguration"}
                }
            }
        },
        "BreakConfiguration": {
            "type": "object",
            "required": ["durationMinutes"],
            "properties": {
                "afterLecture": {"type": "integer"},
                "durationMinutes": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "CreateVersionRequest": {
            "type": "object",
            "required": ["versionName", "effectiveFrom"],
            "properties": {
                "versionName": {"type": "string"},
                "description": {"type": "string"},
                "effectiveFrom": {"type": "string", "format": "date"},
                "copyFromVersionId": {"type": "string"},
                "copySchedules": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
