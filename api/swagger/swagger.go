package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Section Planner API",
        "description": "Generates conflict-free course section schedules and manages saved plans.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Schedule generation and saved schedules"},
        {"name": "Exports", "description": "CSV and PDF downloads of saved schedules"},
        {"name": "Catalog", "description": "Semesters, course offerings and uploads"}
    ],
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate ranked conflict-free schedules",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ranked options", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "A course has no sections", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/conflicts": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Check hand-picked sections for clashes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conflict report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List the caller's saved schedules",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "string"},
                    {"name": "favorite", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Saved schedules", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Save one option of a proposal",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Proposal expired or unknown", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get a saved schedule with its weekly layout",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a saved schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/schedules/{id}/favorite": {
            "patch": {
                "tags": ["Schedules"],
                "summary": "Toggle the favourite flag",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "New state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedules/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a CSV or PDF export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {"202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered export via signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/reference": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Academic calendar constants",
                "responses": {"200": {"description": "Reference data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog/semesters": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List semesters",
                "parameters": [{"name": "program", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "Semesters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a semester",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSemesterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/semesters/{id}/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Courses offered in a semester",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Courses", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog/semesters/{id}/courses/{code}/sections": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Sections of one course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Sections", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog/semesters/{id}/offerings/import": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Upload a CSV offering sheet",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "replace", "in": "formData", "type": "boolean"}
                ],
                "responses": {
                    "201": {"description": "Import summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No importable rows", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Preferences": {
            "type": "object",
            "properties": {
                "maxFreeDays": {"type": "boolean"},
                "avoidEarly": {"type": "boolean"},
                "avoidLate": {"type": "boolean"}
            }
        },
        "Section": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "title": {"type": "string"},
                "section": {"type": "string"},
                "courseType": {"type": "string"},
                "credit": {"type": "number"},
                "day1": {"type": "string"},
                "day2": {"type": "string"},
                "time1": {"type": "string", "example": "08:30 AM - 09:50 AM"},
                "time2": {"type": "string"},
                "room1": {"type": "string"},
                "room2": {"type": "string"},
                "facultyName": {"type": "string"},
                "facultyInitial": {"type": "string"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "title": {"type": "string"},
                "credit": {"type": "number"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "semesterId": {"type": "string"},
                "courseCodes": {"type": "array", "items": {"type": "string"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "preferences": {"$ref": "#/definitions/Preferences"},
                "numOptions": {"type": "integer", "minimum": 1}
            }
        },
        "ConflictCheckRequest": {
            "type": "object",
            "required": ["sections"],
            "properties": {
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}},
                "pairingMode": {"type": "string", "enum": ["positional", "cross"]}
            }
        },
        "SaveScheduleRequest": {
            "type": "object",
            "required": ["proposalId", "option"],
            "properties": {
                "proposalId": {"type": "string"},
                "option": {"type": "integer", "minimum": 1},
                "title": {"type": "string"},
                "favorite": {"type": "boolean"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {"format": {"type": "string", "enum": ["csv", "pdf"]}}
        },
        "CreateSemesterRequest": {
            "type": "object",
            "required": ["name", "year", "program"],
            "properties": {
                "name": {"type": "string", "enum": ["Spring", "Summer", "Fall"]},
                "year": {"type": "integer"},
                "program": {"type": "string", "enum": ["BSCSE", "BSDS"]}
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
