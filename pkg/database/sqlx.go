package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// 方言名称，与 gorm Dialector.Name() 一致
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// NewSQLX 在 gorm 的连接池上包一层 sqlx，用于手写批量查询
func NewSQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	var driver string
	switch db.Dialector.Name() {
	case DialectPostgres:
		driver = "pgx"
	case DialectSQLite:
		driver = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", db.Dialector.Name())
	}
	return sqlx.NewDb(sqlDB, driver), nil
}

// EpochExpr 返回把时间列转换为 unix 秒(浮点)的 SQL 片段
func EpochExpr(dialect, column string) string {
	if dialect == DialectSQLite {
		return fmt.Sprintf("CAST(strftime('%%s', %s) AS DOUBLE PRECISION)", column)
	}
	return fmt.Sprintf("CAST(EXTRACT(EPOCH FROM %s) AS DOUBLE PRECISION)", column)
}

// GreatestExpr 两个数值表达式中较大的一个
func GreatestExpr(dialect, a, b string) string {
	if dialect == DialectSQLite {
		return fmt.Sprintf("MAX(%s, %s)", a, b)
	}
	return fmt.Sprintf("GREATEST(%s, %s)", a, b)
}
