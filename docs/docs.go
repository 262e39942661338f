// Package docs registers the OpenAPI description served at /swagger/*.
//
// The paths are produced by `swag init -g cmd/server/main.go` from the
// handler annotations; this file keeps the registration and general info.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "league", "description": "Публичные страницы лиги"},
        {"name": "export", "description": "Выгрузка данных"},
        {"name": "auth", "description": "Вход администратора"},
        {"name": "admin", "description": "Управление лигой"},
        {"name": "realtime", "description": "WebSocket-обновления"}
    ],
    "paths": {}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "League System API",
	Description:      "Amateur football league: group stage, playoff bracket, results and player statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
