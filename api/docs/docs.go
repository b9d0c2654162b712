// Package docs holds the swagger document served at /swagger/.
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
        "/courses": {
            "get": {
                "description": "Courses of one GE category, or of every category when course is AnyGE or omitted.",
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "List scraped courses",
                "parameters": [
                    {"type": "string", "default": "AnyGE", "description": "GE category code", "name": "course", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.CoursesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/courses/{degree}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["degrees"],
                "summary": "Required courses of a degree grouped by requirement",
                "parameters": [
                    {"type": "string", "description": "Degree name", "name": "degree", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.DegreeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/last_update": {
            "get": {
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Time of the last completed refresh",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "GE categories offered by the search form",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/degrees": {
            "get": {
                "produces": ["application/json"],
                "tags": ["degrees"],
                "summary": "Names of every discovered degree",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/refresh": {
            "post": {
                "description": "Queues a cycle on the broker when one is configured, otherwise starts it in the background.",
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Request a scrape cycle",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "entity.CourseRecord": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "instructor": {"type": "string"},
                "link": {"type": "string"},
                "seats_available": {"type": "integer"},
                "seats_total": {"type": "integer"},
                "enroll_num": {"type": "string"},
                "class_type": {"type": "string"},
                "schedule": {"type": "string"},
                "location": {"type": "string"},
                "ge": {"type": "string"}
            }
        },
        "entity.CourseTypeGroup": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "courses": {"type": "array", "items": {"type": "string"}}
            }
        },
        "entity.Degree": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "url": {"type": "string"},
                "course_types": {"type": "array", "items": {"$ref": "#/definitions/entity.CourseTypeGroup"}}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "response.CoursesResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/entity.CourseRecord"}}
            }
        },
        "response.DegreeResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/entity.Degree"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "GE Course Scraper API",
	Description:      "Read access to the scraped GE course snapshot and degree requirements.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
