package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"restaurant_hub_202601/pkg/logger"
)

// Initializer 数据库初始化器
type Initializer struct {
	db     *gorm.DB
	models []interface{}
	files  []SQLFile
}

// SQLFile 一个补充 DDL 文件
type SQLFile struct {
	Name       string
	Statements []string
}

// InitOptions 初始化选项
type InitOptions struct {
	// 嵌入文件系统（推荐）
	EmbedFS   fs.FS
	EmbedRoot string

	// 外部目录（可选，用于开发调试）
	SQLDir string

	// 需要 AutoMigrate 的 Model
	Models []interface{}
}

// NewInitializer 创建初始化器
func NewInitializer(db *gorm.DB, opts InitOptions) (*Initializer, error) {
	var (
		files []SQLFile
		err   error
	)
	switch {
	case opts.EmbedFS != nil:
		files, err = LoadSQLFiles(opts.EmbedFS, opts.EmbedRoot)
	case opts.SQLDir != "":
		files, err = LoadSQLFiles(os.DirFS(opts.SQLDir), ".")
	}
	if err != nil {
		return nil, err
	}

	return &Initializer{db: db, models: opts.Models, files: files}, nil
}

// Initialize 执行初始化：先 AutoMigrate，再按文件名顺序执行补充 DDL
func (i *Initializer) Initialize(ctx context.Context) error {
	log := logger.L()
	log.Info("[DB] 开始数据库初始化...")
	start := time.Now()

	if len(i.models) > 0 {
		log.Infof("[DB] 1/2 AutoMigrate %d 张表...", len(i.models))
		if err := i.db.WithContext(ctx).AutoMigrate(i.models...); err != nil {
			return fmt.Errorf("AutoMigrate 失败: %w", err)
		}
	}

	log.Infof("[DB] 2/2 执行 %d 个补充 SQL 文件...", len(i.files))
	for _, f := range i.files {
		for _, stmt := range f.Statements {
			if err := i.db.WithContext(ctx).Exec(stmt).Error; err != nil {
				return fmt.Errorf("执行 %s 失败: %w", f.Name, err)
			}
		}
	}

	i.printStats(ctx)
	log.Infof("[DB] 初始化完成，耗时 %v", time.Since(start))
	return nil
}

func (i *Initializer) printStats(ctx context.Context) {
	stats, err := TableRowCounts(ctx, i.db, i.models)
	if err != nil {
		return
	}
	for _, s := range stats {
		logger.L().Debugf("[DB] %s: %d 行", s.TableName, s.Rows)
	}
}

// Files 已加载的补充 SQL
func (i *Initializer) Files() []SQLFile {
	return i.files
}

// ==================== SQL 文件加载 ====================

// LoadSQLFiles 读取 root 下的 *.sql，按文件名排序并拆分语句
func LoadSQLFiles(fsys fs.FS, root string) ([]SQLFile, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("读取 SQL 目录失败: %w", err)
	}

	var files []SQLFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("读取 SQL 文件 %s 失败: %w", e.Name(), err)
		}
		files = append(files, SQLFile{Name: e.Name(), Statements: SplitStatements(string(data))})
	}
	sort.Slice(files, func(a, b int) bool { return files[a].Name < files[b].Name })
	return files, nil
}

// SplitStatements 按分号拆分语句，忽略 -- 注释与空语句
func SplitStatements(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		lines = append(lines, trimmed)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, " "), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ==================== 统计 / 健康检查 ====================

// TableStats 表统计
type TableStats struct {
	TableName string
	Rows      int64
}

// TableRowCounts 统计各表行数
func TableRowCounts(ctx context.Context, db *gorm.DB, models []interface{}) ([]TableStats, error) {
	stats := make([]TableStats, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		var n int64
		if err := db.WithContext(ctx).Table(stmt.Schema.Table).Count(&n).Error; err != nil {
			return nil, err
		}
		stats = append(stats, TableStats{TableName: stmt.Schema.Table, Rows: n})
	}
	return stats, nil
}

// HealthCheck 数据库连通性检查
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// ==================== 快捷入口 ====================

// QuickInit 使用内嵌 SQL 完成初始化
func QuickInit(db *gorm.DB, models []interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	init, err := NewInitializer(db, InitOptions{
		EmbedFS:   SchemaSQL,
		EmbedRoot: "schema",
		Models:    models,
	})
	if err != nil {
		return err
	}
	for _, f := range init.Files() {
		logger.L().Debugw("[DB] 已加载补充 SQL", "file", f.Name, "statements", len(f.Statements))
	}
	return init.Initialize(ctx)
}
