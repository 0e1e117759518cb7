// Package docs registers the OpenAPI description of the HTTP API with swag.
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
    "paths": {
        "/packages": {
            "get": {
                "tags": ["packages"],
                "summary": "List packages",
                "parameters": [
                    {"type": "string", "name": "destination_id", "in": "query"},
                    {"type": "string", "format": "date", "name": "from", "in": "query"},
                    {"type": "string", "format": "date", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Package"}}}}
            },
            "post": {
                "tags": ["packages"],
                "summary": "Create a package",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PackageRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Package"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/packages/{id}": {
            "get": {"tags": ["packages"], "summary": "Get a package", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Package"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}},
            "put": {"tags": ["packages"], "summary": "Update a package", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PackageRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Package"}}}},
            "delete": {"tags": ["packages"], "summary": "Delete a package and its bookings", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/packages/{id}/remaining": {
            "get": {"tags": ["packages"], "summary": "Seats left on a package", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/packages/{id}/quote": {
            "get": {"tags": ["packages"], "summary": "Base price in another currency", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PriceQuote"}}, "503": {"description": "Conversion unavailable", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/packages/{id}/weather": {
            "get": {"tags": ["packages"], "summary": "Weather outlook for the travel dates", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/packages/{id}/holidays": {
            "get": {"tags": ["packages"], "summary": "Public holidays during the travel dates", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/destinations": {
            "get": {"tags": ["destinations"], "summary": "List destinations", "parameters": [{"type": "string", "name": "country", "in": "query"}, {"type": "string", "name": "city", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["destinations"], "summary": "Create a destination", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/destinations/import": {
            "post": {"tags": ["destinations"], "summary": "Import destinations from the country directory", "responses": {"200": {"description": "OK"}, "503": {"description": "Directory unavailable", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/destinations/{id}": {
            "get": {"tags": ["destinations"], "summary": "Get a destination", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["destinations"], "summary": "Update a destination", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["destinations"], "summary": "Delete a destination with its packages", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/destinations/{id}/country": {
            "get": {"tags": ["destinations"], "summary": "Country facts for a destination", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "503": {"description": "Directory unavailable"}}}
        },
        "/customers": {
            "get": {"tags": ["customers"], "summary": "List or search customers", "parameters": [{"type": "string", "name": "q", "in": "query"}, {"type": "string", "name": "email", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["customers"], "summary": "Create a customer", "responses": {"201": {"description": "Created"}, "409": {"description": "Email taken"}}}
        },
        "/customers/{id}": {
            "get": {"tags": ["customers"], "summary": "Get a customer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["customers"], "summary": "Update a customer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["customers"], "summary": "Delete a customer and their bookings", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/bookings": {
            "get": {"tags": ["bookings"], "summary": "List bookings, newest first", "parameters": [{"type": "string", "name": "email", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Booking"}}}}},
            "post": {"tags": ["bookings"], "summary": "Book seats on a package", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Booking"}}, "400": {"description": "Invalid quantity", "schema": {"$ref": "#/definitions/Error"}}, "404": {"description": "Unknown package or customer", "schema": {"$ref": "#/definitions/Error"}}, "409": {"description": "Not enough seats", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/bookings/{id}": {
            "get": {"tags": ["bookings"], "summary": "Get a booking", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Booking"}}}},
            "delete": {"tags": ["bookings"], "summary": "Cancel a booking and release its seats", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Booking"}}}}
        },
        "/bookings/{id}/convert": {
            "get": {"tags": ["bookings"], "summary": "Booking total in another currency", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PriceQuote"}}, "503": {"description": "Conversion unavailable"}}}
        },
        "/bookings/{id}/status": {
            "put": {"tags": ["bookings"], "summary": "Set booking status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Booking is cancelled"}}}
        },
        "/bookings/audit/{packageId}": {
            "get": {"tags": ["bookings"], "summary": "Compare a package's seat counter with its bookings", "parameters": [{"type": "string", "name": "packageId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/cart": {
            "get": {"tags": ["cart"], "summary": "Current session cart", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}}}
        },
        "/cart/items": {
            "post": {"tags": ["cart"], "summary": "Stage a package", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}, "404": {"description": "Unknown package"}}}
        },
        "/cart/items/{packageId}": {
            "delete": {"tags": ["cart"], "summary": "Remove a staged package", "parameters": [{"type": "string", "name": "packageId", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}}}
        },
        "/cart/checkout": {
            "post": {"tags": ["cart"], "summary": "Book everything in the cart", "responses": {"201": {"description": "Created"}, "409": {"description": "Not enough seats, empty cart or partial checkout", "schema": {"$ref": "#/definitions/Error"}}}}
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}, "details": {"type": "object"}}},
        "PackageRequest": {"type": "object", "required": ["destination_id", "title", "start_date", "end_date"], "properties": {"destination_id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "base_price": {"type": "number"}, "start_date": {"type": "string", "format": "date"}, "end_date": {"type": "string", "format": "date"}, "available_seats": {"type": "integer"}}},
        "Package": {"type": "object", "properties": {"id": {"type": "string"}, "destination_id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "base_price": {"type": "string"}, "currency": {"type": "string"}, "start_date": {"type": "string", "format": "date"}, "end_date": {"type": "string", "format": "date"}, "total_seats": {"type": "integer"}, "available_seats": {"type": "integer"}, "remaining_seats": {"type": "integer"}}},
        "BookingRequest": {"type": "object", "required": ["customer_id", "package_id"], "properties": {"customer_id": {"type": "string"}, "package_id": {"type": "string"}, "people_count": {"type": "integer"}}},
        "Booking": {"type": "object", "properties": {"id": {"type": "string"}, "package_id": {"type": "string"}, "package_title": {"type": "string"}, "customer_id": {"type": "string"}, "customer_email": {"type": "string"}, "people_count": {"type": "integer"}, "total_base_price": {"type": "string"}, "currency": {"type": "string"}, "status": {"type": "string"}, "created_at": {"type": "string", "format": "date-time"}}},
        "PriceQuote": {"type": "object", "properties": {"from_currency": {"type": "string"}, "to_currency": {"type": "string"}, "rate": {"type": "string"}, "amount_base": {"type": "string"}, "amount_converted": {"type": "string"}, "timestamp": {"type": "string", "format": "date-time"}}},
        "Cart": {"type": "object", "properties": {"session_id": {"type": "string"}, "total": {"type": "string"}, "items": {"type": "array", "items": {"type": "object", "properties": {"package_id": {"type": "string"}, "title": {"type": "string"}, "people_count": {"type": "integer"}, "unit_price": {"type": "string"}, "subtotal": {"type": "string"}}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Travel Agency API",
	Description:      "Tour packages, destinations, customers, bookings and the session cart.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
