package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database from environment configuration. A missing
// DB_HOST falls back to a local sqlite file so the dashboard runs without
// a database server during development.
func InitDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	if host == "" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "orderdesk.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
