package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"authapp/internal/adapter/database/sqlite"

	_ "github.com/mattn/go-sqlite3"
)

// ProjectRoot returns the directory containing go.mod, for locating
// migrations from tests that run in a package working directory
func ProjectRoot() string {
	return findProjectRoot()
}

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB returns an in-memory sqlite handle with migrations applied
func InitTestDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	// a second connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	projectRoot := findProjectRoot()
	migrationsPath := filepath.Join(projectRoot, "db", "migrations")
	sqlite.RunMigrations(db, migrationsPath)

	return db
}
