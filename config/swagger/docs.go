// Package swagger holds the OpenAPI description served at /swagger.
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
        "/ping": {
            "get": {
                "description": "Returns a basic message and whether the room store answers",
                "produces": ["application/json"],
                "tags": ["test"],
                "summary": "Endpoint just pings the server",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.pingResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/controllers.pingResponse"}}
                }
            }
        },
        "/rooms/code": {
            "get": {
                "description": "Returns a code no active room is using",
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Fresh room code",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"code": {"type": "string"}}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/controllers.errorResponse"}}
                }
            }
        },
        "/rooms/{code}": {
            "get": {
                "description": "Returns the live room. Roles and words stay hidden until the game is finished, except for eliminated players' roles.",
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Current state of a room",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/redis_models.RoomState"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/controllers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/controllers.errorResponse"}}
                }
            }
        },
        "/games": {
            "get": {
                "description": "Lists the latest archived games, newest first",
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Recently finished games",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Maximum number of games", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/postgres.GameRecord"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}}
                }
            }
        },
        "/games/{code}": {
            "get": {
                "description": "Returns the most recent finished game played in a room",
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Archived game of a room",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/postgres.GameRecord"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}}
                }
            }
        }
    },
    "definitions": {
        "controllers.pingResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "store": {"type": "string"}}
        },
        "controllers.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "postgres.GameRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "roomCode": {"type": "string"},
                "winner": {"type": "string"},
                "rounds": {"type": "integer"},
                "civilianWord": {"type": "string"},
                "undercoverWord": {"type": "string"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/postgres.ArchivedPlayer"}},
                "finishedAt": {"type": "string"}
            }
        },
        "postgres.ArchivedPlayer": {
            "type": "object",
            "properties": {
                "displayName": {"type": "string"},
                "role": {"type": "string"},
                "alive": {"type": "boolean"},
                "guest": {"type": "boolean"}
            }
        },
        "redis_models.Player": {
            "type": "object",
            "properties": {
                "connectionId": {"type": "string"},
                "identityId": {"type": "string"},
                "displayName": {"type": "string"},
                "role": {"type": "string", "enum": ["unassigned", "undercover", "civilian", "mr_white"]},
                "secretWord": {"type": "string"},
                "alive": {"type": "boolean"},
                "voteCount": {"type": "integer"},
                "hasVotedThisRound": {"type": "boolean"}
            }
        },
        "redis_models.ChatMessage": {
            "type": "object",
            "properties": {
                "authorConnectionId": {"type": "string"},
                "authorDisplayName": {"type": "string"},
                "text": {"type": "string"},
                "sentAt": {"type": "string"}
            }
        },
        "redis_models.RoomState": {
            "type": "object",
            "properties": {
                "roomCode": {"type": "string"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/redis_models.Player"}},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/redis_models.ChatMessage"}},
                "status": {"type": "string", "enum": ["waiting", "playing", "finished"]},
                "currentRound": {"type": "integer"},
                "civilianWord": {"type": "string"},
                "undercoverWord": {"type": "string"},
                "winner": {"type": "string", "enum": ["none", "civilians", "undercover", "mr_white"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
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
	Title:            "Undercover API",
	Description:      "Gin-Gonic server for the \"Undercover\" word game. Gameplay runs over socket.io at /socket.io.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
