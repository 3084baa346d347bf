package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Registration Helper API",
        "description": "Catalog browsing, interest-based demand tracking, saved timetables and AI recommendations for course registration.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "CronSecret": {"type": "apiKey", "name": "X-Cron-Secret", "in": "header"}
    },
    "tags": [
        {"name": "Courses", "description": "Catalog, demand alerts, conflicts and interests"},
        {"name": "Auth", "description": "Student accounts and access tokens"},
        {"name": "Timetables", "description": "Saved timetable snapshots and exports"},
        {"name": "AI", "description": "Proxy to the recommendation and optimizer service"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ClassWithSchedules"}}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/courses/alerts": {
            "get": {
                "tags": ["Courses"],
                "summary": "List classes nearing or at capacity",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Class"}}}
                }
            }
        },
        "/courses/conflicts": {
            "post": {
                "tags": ["Courses"],
                "summary": "Check schedule conflicts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ConflictReport"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/courses/interests": {
            "get": {
                "tags": ["Courses"],
                "summary": "List my interests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/InterestList"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/courses/{classId}/interest": {
            "post": {
                "tags": ["Courses"],
                "summary": "Toggle interest in a class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToggleInterestResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Class not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/courses/aggregate": {
            "post": {
                "tags": ["Courses"],
                "summary": "Recompute enrolled counts and demand status",
                "security": [{"CronSecret": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AggregateResult"}},
                    "401": {"description": "Invalid cron secret", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Validation failed or student id taken", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the current token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserInfo"}}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List my timetables",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Timetable"}}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Save a timetable snapshot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Timetable"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/timetables/{id}": {
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/timetables/{id}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Export a timetable",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/calendar"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx", "ics"], "default": "csv"},
                    {"name": "start", "in": "query", "type": "string", "format": "date", "description": "First week of the semester (ics only)"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format or bad start date", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/ai/recommend": {
            "post": {
                "tags": ["AI"],
                "summary": "Recommend courses",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecommendRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recommender response, relayed unchanged"},
                    "500": {"description": "Recommender failed", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/ai/schedule": {
            "post": {
                "tags": ["AI"],
                "summary": "Generate timetable candidates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Optimizer response, relayed unchanged"},
                    "500": {"description": "Optimizer failed", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "Class": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "professor": {"type": "string"},
                "credits": {"type": "integer"},
                "capacity": {"type": "integer"},
                "enrolled": {"type": "integer"},
                "department": {"type": "string"},
                "courseType": {"type": "string", "enum": ["REQUIRED_MAJOR", "ELECTIVE_MAJOR", "GENERAL"]},
                "demandStatus": {"type": "string", "enum": ["NORMAL", "NEAR", "FULL"]}
            }
        },
        "ClassSchedule": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "class_id": {"type": "string"},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:15"},
                "duration_minutes": {"type": "integer"},
                "location": {"type": "string"}
            }
        },
        "ClassWithSchedules": {
            "allOf": [
                {"$ref": "#/definitions/Class"},
                {"type": "object", "properties": {"schedules": {"type": "array", "items": {"$ref": "#/definitions/ClassSchedule"}}}}
            ]
        },
        "ConflictCheckRequest": {
            "type": "object",
            "properties": {
                "classIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["classIds"]
        },
        "ConflictReport": {
            "type": "object",
            "properties": {
                "hasConflict": {"type": "boolean"},
                "conflicts": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "classA": {"type": "string"},
                            "classB": {"type": "string"},
                            "weekday": {"type": "integer"},
                            "day": {"type": "string"},
                            "timeA": {"type": "string"},
                            "timeB": {"type": "string"}
                        }
                    }
                }
            }
        },
        "InterestList": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ToggleInterestResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "isInterested": {"type": "boolean"},
                "course": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "string"},
                        "enrolled": {"type": "integer"},
                        "capacity": {"type": "integer"}
                    }
                }
            }
        },
        "AggregateResult": {
            "type": "object",
            "properties": {
                "updated": {"type": "integer"},
                "changed": {"type": "integer"},
                "summaries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "classId": {"type": "string"},
                            "interestCount": {"type": "integer"},
                            "capacity": {"type": "integer"},
                            "demandStatus": {"type": "string"}
                        }
                    }
                }
            }
        },
        "SignupRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "name": {"type": "string"},
                "major": {"type": "string"}
            },
            "required": ["studentId", "password", "name"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["studentId", "password"]
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "studentId": {"type": "string"},
                "name": {"type": "string"},
                "major": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "user": {"$ref": "#/definitions/UserInfo"}
            }
        },
        "CreateTimetableRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "courses": {"type": "array", "items": {"type": "object"}}
            },
            "required": ["name", "courses"]
        },
        "Timetable": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "courses": {"type": "array", "items": {"type": "object"}},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "RecommendRequest": {
            "type": "object",
            "properties": {
                "major": {"type": "string"},
                "jobInterest": {"type": "string"}
            },
            "required": ["jobInterest"]
        },
        "ScheduleRequest": {
            "type": "object",
            "properties": {
                "selectedCourseIds": {"type": "array", "items": {"type": "string"}},
                "preferences": {"type": "object"}
            },
            "required": ["selectedCourseIds"]
        },
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "object"}
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
