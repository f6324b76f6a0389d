package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Vocational Timetable API",
        "description": "Evolutionary course-timetabling service: catalog management, timetable generation, search and export.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Generation, search and export of the weekly timetable"},
        {"name": "Catalog", "description": "Students, instructors, classrooms and curriculum offerings"}
    ],
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate the weekly timetable",
                "description": "Runs the evolutionary engine over the current catalog and replaces the persisted timetable. Set async=true to run in the background and poll the returned run.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generation result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Run accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Catalog incomplete", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/runs/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Inspect a generation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Run status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown run", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/search": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Search the persisted timetable",
                "description": "Advanced search by identity: a student's cohort, an instructor, a room or a subject.",
                "parameters": [
                    {"name": "mode", "in": "query", "required": true, "type": "string", "enum": ["student", "instructor", "room", "subject"]},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "first_name", "in": "query", "type": "string"},
                    {"name": "last_name", "in": "query", "type": "string"},
                    {"name": "room_code", "in": "query", "type": "string"},
                    {"name": "subject_code", "in": "query", "type": "string"},
                    {"name": "subject_name", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Matching timetable entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download the timetable as a file",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "year_level", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/students": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student number taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List instructors",
                "parameters": [
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "last_name", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Instructors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register an instructor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInstructorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List classrooms",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "building", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Classrooms", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a classroom",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Room code taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a curriculum offering",
                "description": "Registers the subject definition and the cohort it is taught to in one call.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOfferingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Catalog and timetable volume counters",
                "responses": {
                    "200": {"description": "Counters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "preset": {"type": "string", "enum": ["draft", "balanced", "precise"]},
                "strategy": {"type": "string", "enum": ["naive", "greedy"]},
                "seed": {"type": "integer"},
                "async": {"type": "boolean"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "department": {"type": "string"},
                "year_level": {"type": "string"},
                "group_no": {"type": "string"}
            }
        },
        "CreateInstructorRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "department": {"type": "string"},
                "role": {"type": "string", "enum": ["ORDINARY", "DEPARTMENT_HEAD"]},
                "min_hours_per_week": {"type": "integer"},
                "max_hours_per_week": {"type": "integer"},
                "full_week_required": {"type": "boolean"},
                "blackouts": {"type": "array", "items": {"type": "object"}}
            }
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {
                "room_code": {"type": "string"},
                "category": {"type": "string"},
                "capacity": {"type": "integer"},
                "building": {"type": "string"},
                "department_owner": {"type": "string"}
            }
        },
        "CreateOfferingRequest": {
            "type": "object",
            "properties": {
                "subject_code": {"type": "string"},
                "subject_name": {"type": "string"},
                "theory_hours": {"type": "integer"},
                "practice_hours": {"type": "integer"},
                "department": {"type": "string"},
                "year_level": {"type": "string"},
                "group_no": {"type": "string"},
                "activity_type": {"type": "string", "enum": ["REGULAR", "FIXED"]},
                "required_room_category": {"type": "string"},
                "fixed_day": {"type": "integer"},
                "fixed_start_slot": {"type": "integer"},
                "fixed_room_code": {"type": "string"},
                "advisor_id": {"type": "integer"},
                "instructor_1_fname": {"type": "string"},
                "instructor_1_lname": {"type": "string"},
                "instructor_2_fname": {"type": "string"},
                "instructor_2_lname": {"type": "string"},
                "instructor_3_fname": {"type": "string"},
                "instructor_3_lname": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
