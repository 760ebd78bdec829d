// Package docs 由 swag 生成的接口文档，修改 handler 注释后执行
// swag init -g cmd/server/main.go -o docs 重新生成
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
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "注册", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "登录", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["Auth"], "summary": "刷新令牌", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "退出登录", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/user/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["User"], "summary": "当前用户", "responses": {"200": {"description": "OK"}}}},
        "/user/edit": {"post": {"security": [{"BearerAuth": []}], "tags": ["User"], "summary": "修改资料", "responses": {"200": {"description": "OK"}}}},
        "/user/{id}": {"get": {"tags": ["User"], "summary": "获取用户", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/user/{id}/posts": {"get": {"tags": ["Feed"], "summary": "用户帖子", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "per_page", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/users": {"get": {"tags": ["User"], "summary": "用户列表", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "per_page", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/image/upload": {"post": {"security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "tags": ["Image"], "summary": "上传图片", "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/image/upload/batch": {"post": {"security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "tags": ["Image"], "summary": "批量上传图片", "parameters": [{"type": "file", "name": "files", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/image/{hash}": {"get": {"tags": ["Image"], "summary": "获取图片", "parameters": [{"type": "string", "name": "hash", "in": "path", "required": true}], "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}}},
        "/post/add": {"post": {"security": [{"BearerAuth": []}], "tags": ["Post"], "summary": "发布帖子", "responses": {"200": {"description": "OK"}}}},
        "/post/latests": {"get": {"tags": ["Feed"], "summary": "最新流", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "per_page", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/post/recommended": {"get": {"tags": ["Feed"], "summary": "推荐流，仅包含推荐窗口内的帖子，按得分降序", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "per_page", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/post/{id}": {
            "get": {"tags": ["Post"], "summary": "获取帖子", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Post"], "summary": "删除帖子", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/post/{id}/like": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Post"], "summary": "点赞", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Post"], "summary": "取消点赞", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/post/{id}/comments": {
            "get": {"tags": ["Comment"], "summary": "评论列表，按时间正序", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "per_page", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Comment"], "summary": "发表评论", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/comment/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Comment"], "summary": "修改评论", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Comment"], "summary": "删除评论", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Social Feed API",
	Description:      "帖子、评论、点赞与信息流（最新 / 推荐 / 按作者）",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
