package database

import "embed"

// SchemaSQL 嵌入的补充 DDL（AutoMigrate 之后执行，需幂等）
//
//go:embed schema/*.sql
var SchemaSQL embed.FS
