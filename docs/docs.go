// Package docs holds the OpenAPI description served under /swagger.
// Regenerate it with `swag init -g cmd/main.go` after changing handler
// annotations.
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
        "/tournaments/{tournament_id}/leaderboard": {
            "get": {
                "description": "Recomputed from the completed matches on every request.",
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Leaderboard of a tournament",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournament_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournament_id}/pools-leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "One leaderboard per pool",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournament_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/services.PoolLeaderboard"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/leaderboard/season/{season}": {
            "get": {
                "description": "Covers every tournament whose start date falls in the season year.",
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Season leaderboard per user",
                "parameters": [
                    {"type": "integer", "description": "Season year", "name": "season", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "standings.Entry": {
            "type": "object",
            "properties": {
                "participant_id": {"type": "integer"},
                "nickname": {"type": "string"},
                "wins": {"type": "integer"},
                "total_manches": {"type": "number"}
            }
        },
        "standings.SeasonEntry": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "nickname": {"type": "string"},
                "total_points": {"type": "number"},
                "single_wins": {"type": "number"},
                "double_wins": {"type": "number"},
                "single_manches": {"type": "number"},
                "double_manches": {"type": "number"}
            }
        },
        "services.PoolLeaderboard": {
            "type": "object",
            "properties": {
                "tournament_id": {"type": "integer"},
                "pool_id": {"type": "integer"},
                "pool_name": {"type": "string"},
                "leaderboard": {"type": "array", "items": {"$ref": "#/definitions/standings.Entry"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Club backend API",
	Description:      "Tournaments, leaderboards, licences and inscriptions of the darts club.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
