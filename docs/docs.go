// Package docs 接口文档（swag 格式），由 gin-swagger 在 /swagger 下提供
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
        "/auth/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "用户注册",
                "parameters": [
                    {"type": "string", "description": "用户名", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "密码，至少 4 位", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "确认密码", "name": "confirm", "in": "formData", "required": true},
                    {"type": "file", "description": "头像", "name": "avatar", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.UserInfo"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "用户登录",
                "parameters": [
                    {"description": "登录信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "当前用户资料",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserInfo"}}}
            }
        },
        "/auth/account": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "注销账号",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DeleteResponse"}}}
            }
        },
        "/manage": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "我的餐厅",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/manage/restaurant": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "创建餐厅",
                "parameters": [
                    {"type": "string", "description": "餐厅名（全局唯一）", "name": "name", "in": "formData", "required": true},
                    {"type": "file", "description": "Logo", "name": "logo", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RestaurantResponse"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "删除餐厅",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DeleteResponse"}}}
            }
        },
        "/manage/categories/{category_id}/dishes": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "新增菜品",
                "parameters": [
                    {"type": "integer", "description": "分类 ID", "name": "category_id", "in": "path", "required": true},
                    {"type": "string", "description": "菜名", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "介绍（1-500 字）", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "description": "价格，最多两位小数", "name": "price", "in": "formData", "required": true},
                    {"type": "file", "description": "菜品图片", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/manage/dishes/{dish_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "删除菜品",
                "parameters": [
                    {"type": "integer", "description": "菜品 ID", "name": "dish_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DeleteResponse"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/manage/blacklist": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "黑名单列表",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.BlacklistEntry"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "拉黑用户",
                "parameters": [
                    {"description": "用户", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BlockUserRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/manage/blacklist/{user_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "移出黑名单",
                "parameters": [
                    {"type": "integer", "description": "用户 ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/manage/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Manage"],
                "summary": "本餐厅订单",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "每页数量", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListOrdersResponse"}}}
            }
        },
        "/restaurants/{id}/menu": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Restaurant"],
                "summary": "餐厅菜单",
                "parameters": [
                    {"type": "integer", "description": "餐厅 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/restaurants/{id}/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Order"],
                "summary": "下单",
                "parameters": [
                    {"type": "integer", "description": "餐厅 ID", "name": "id", "in": "path", "required": true},
                    {"description": "订单行", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PlaceOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.OrderResponse"}},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "已被餐厅拉黑"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/restaurants/{id}/chats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "聊天记录",
                "parameters": [
                    {"type": "integer", "description": "餐厅 ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "dish | advisor", "name": "scene", "in": "query"},
                    {"type": "integer", "description": "菜品 ID", "name": "dish_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "发送消息",
                "parameters": [
                    {"type": "integer", "description": "餐厅 ID", "name": "id", "in": "path", "required": true},
                    {"description": "消息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PostChatRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Order"],
                "summary": "我的订单",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "每页数量", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListOrdersResponse"}}}
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Order"],
                "summary": "订单详情",
                "parameters": [
                    {"type": "integer", "description": "订单 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.OrderResponse"}}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Order"],
                "summary": "删除订单",
                "parameters": [
                    {"type": "integer", "description": "订单 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DeleteResponse"}}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_at": {"type": "string"},
                "user": {"$ref": "#/definitions/dto.UserInfo"}
            }
        },
        "dto.UserInfo": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "dto.DeleteResponse": {
            "type": "object",
            "properties": {
                "rows": {"type": "object", "additionalProperties": {"type": "integer"}},
                "total": {"type": "integer"}
            }
        },
        "dto.RestaurantResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"$ref": "#/definitions/dto.CategoryResponse"}},
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "logo_url": {"type": "string"},
                "manager_id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "dto.CategoryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "dto.BlockUserRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {"user_id": {"type": "integer"}}
        },
        "dto.BlacklistEntry": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "dto.PlaceOrderRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.OrderLineRequest"}}
            }
        },
        "dto.OrderLineRequest": {
            "type": "object",
            "required": ["dish_id"],
            "properties": {
                "dish_id": {"type": "integer"},
                "quantity": {"type": "integer"}
            }
        },
        "dto.OrderResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.OrderItemResponse"}},
                "restaurant_id": {"type": "integer"},
                "total_amount": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "dto.OrderItemResponse": {
            "type": "object",
            "properties": {
                "dish_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "subtotal": {"type": "string"},
                "unit_price": {"type": "string"}
            }
        },
        "dto.ListOrdersResponse": {
            "type": "object",
            "properties": {
                "list": {"type": "array", "items": {"$ref": "#/definitions/dto.OrderResponse"}},
                "page": {"type": "integer"},
                "size": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "dto.PostChatRequest": {
            "type": "object",
            "required": ["role", "scene"],
            "properties": {
                "content": {"type": "string"},
                "dish_id": {"type": "integer"},
                "role": {"type": "string"},
                "scene": {"type": "string"}
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Restaurant Hub API",
	Description:      "多餐厅菜单与订单服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
