// Package swagger holds the OpenAPI document served at /swagger.
// Keep it in step with the handler annotations when routes change.
package swagger

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
        "/blocks": {
            "get": {
                "description": "Compute the all-day holds a booking of the given kind and window would produce.",
                "produces": ["application/json"],
                "tags": ["blocks"],
                "summary": "Preview Block Dates",
                "parameters": [
                    {"type": "string", "default": "event", "description": "Booking kind (event, photoshoot, lodging)", "name": "kind", "in": "query"},
                    {"type": "string", "description": "Start (RFC 3339 or YYYY-MM-DD)", "name": "start", "in": "query", "required": true},
                    {"type": "string", "description": "End (RFC 3339 or YYYY-MM-DD)", "name": "end", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Block dates", "schema": {"$ref": "#/definitions/intake.BlockPreview"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}},
                    "422": {"description": "Unprocessable Booking", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}}
                }
            }
        },
        "/bookings": {
            "put": {
                "description": "Sweep the booking's prior records around its new time, then sync it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Update Booking",
                "parameters": [
                    {"description": "Booking", "name": "booking", "in": "body", "required": true, "schema": {"$ref": "#/definitions/intake.BookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Outcome", "schema": {"$ref": "#/definitions/intake.Outcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}},
                    "422": {"description": "Unprocessable Booking", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}},
                    "500": {"description": "Sweep incomplete", "schema": {"$ref": "#/definitions/intake.PartialFailure"}}
                }
            },
            "post": {
                "description": "Place the reservation, buffers and day holds a booking needs. Repeated calls converge.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Sync Booking",
                "parameters": [
                    {"description": "Booking", "name": "booking", "in": "body", "required": true, "schema": {"$ref": "#/definitions/intake.BookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Outcome", "schema": {"$ref": "#/definitions/intake.Outcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}},
                    "422": {"description": "Unprocessable Booking", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}}
                }
            }
        },
        "/bookings/cancel": {
            "post": {
                "description": "Delete a booking's records by exact key, or by source and external id.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Cancel Booking",
                "parameters": [
                    {"description": "Cancellation", "name": "cancel", "in": "body", "required": true, "schema": {"$ref": "#/definitions/intake.CancelRequest"}}
                ],
                "responses": {
                    "200": {"description": "Outcome", "schema": {"$ref": "#/definitions/intake.Outcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/intake.ErrorResponse"}},
                    "500": {"description": "Sweep incomplete", "schema": {"$ref": "#/definitions/intake.PartialFailure"}}
                }
            }
        },
        "/integrity": {
            "get": {
                "description": "Performs every integrity check (Schema, Feed, Calendars). Unconfigured sources are reported as skipped.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Run All Integrity Checks",
                "responses": {
                    "200": {"description": "Combined Report", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/integrity/calendars": {
            "get": {
                "description": "Lists every configured calendar and reports days on the blocks calendar with more than one agent hold.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Calendars",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/integrity.CalendarReport"}},
                    "404": {"description": "Not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/feed": {
            "get": {
                "description": "Checks that the feed bucket exists and the feed object is a calendar. Optionally creates the missing bucket.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Feed",
                "parameters": [
                    {"type": "boolean", "description": "Create the missing bucket", "name": "fix", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checks.FeedReport"}},
                    "404": {"description": "Not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/schema": {
            "get": {
                "description": "Compares the calendar and ledger tables against their GORM models.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checks.SchemaReport"}},
                    "404": {"description": "Not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "checks.FeedReport": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "bucket_exists": {"type": "boolean"},
                "error": {"type": "string"},
                "object": {"type": "string"},
                "published": {"type": "boolean"},
                "valid": {"type": "boolean"}
            }
        },
        "checks.HoldsReport": {
            "type": "object",
            "properties": {
                "calendar": {"type": "string"},
                "days": {"type": "integer"},
                "duplicates": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "status": {"type": "string"}
            }
        },
        "checks.SchemaReport": {
            "type": "object",
            "properties": {
                "driver": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "matched": {"type": "boolean"},
                "tables": {"type": "object", "additionalProperties": {"$ref": "#/definitions/checks.TableReport"}}
            }
        },
        "checks.TableReport": {
            "type": "object",
            "properties": {
                "missing_columns": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "type_mismatches": {"type": "array", "items": {"type": "string"}}
            }
        },
        "integrity.CalendarReport": {
            "type": "object",
            "properties": {
                "holds": {"$ref": "#/definitions/checks.HoldsReport"},
                "reachable": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "intake.ActionView": {
            "type": "object",
            "properties": {
                "calendar": {"type": "string"},
                "key": {"type": "string"},
                "reason": {"type": "string"},
                "record_id": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "intake.BlockPreview": {
            "type": "object",
            "properties": {
                "dates": {"type": "array", "items": {"type": "string"}},
                "kind": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "intake.BookingRequest": {
            "type": "object",
            "properties": {
                "dry_run": {"type": "boolean"},
                "end": {"type": "string"},
                "external_id": {"type": "string", "example": "Alex"},
                "guest_name": {"type": "string", "example": "Alex Smith"},
                "kind": {"type": "string", "example": "event"},
                "location": {"type": "string", "example": "Disco"},
                "message_id": {"type": "string"},
                "source": {"type": "string", "example": "peerspace"},
                "start": {"type": "string"}
            }
        },
        "intake.CancelRequest": {
            "type": "object",
            "properties": {
                "dry_run": {"type": "boolean"},
                "end": {"type": "string"},
                "external_id": {"type": "string", "example": "Alex"},
                "key": {"type": "string", "example": "ps|Alex|event|2025-12-01"},
                "message_id": {"type": "string"},
                "source": {"type": "string", "example": "peerspace"},
                "start": {"type": "string"}
            }
        },
        "intake.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "intake.PartialFailure": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "outcome": {"$ref": "#/definitions/intake.Outcome"}
            }
        },
        "intake.Outcome": {
            "type": "object",
            "properties": {
                "actions": {"type": "array", "items": {"$ref": "#/definitions/intake.ActionView"}},
                "applied": {"$ref": "#/definitions/reconcile.Applied"},
                "booking_key": {"type": "string"},
                "status": {"type": "string"},
                "summary": {"$ref": "#/definitions/reconcile.PlanSummary"},
                "sweep": {"$ref": "#/definitions/reconcile.SweepResult"}
            }
        },
        "reconcile.Applied": {
            "type": "object",
            "properties": {
                "adopted": {"type": "integer"},
                "deleted": {"type": "integer"},
                "failed": {"type": "integer"},
                "inserted": {"type": "integer"},
                "patched": {"type": "integer"}
            }
        },
        "reconcile.PlanSummary": {
            "type": "object",
            "properties": {
                "adoptions": {"type": "integer"},
                "deletes": {"type": "integer"},
                "inserts": {"type": "integer"},
                "noops": {"type": "integer"},
                "patches": {"type": "integer"}
            }
        },
        "reconcile.SweepResult": {
            "type": "object",
            "properties": {
                "deleted": {"type": "integer"},
                "failed": {"type": "integer"},
                "patched": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Calendar Agent API",
	Description:      "Booking intake for the shared resource calendars.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
