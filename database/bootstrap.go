// database/bootstrap.go
package database

import (
	"log"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"

	"github.com/Valeria115/VK-chat-bot/entities"
)

func OpenSQLite(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&entities.KnowledgeRecord{},
		&entities.MetaEntry{},
	); err != nil {
		log.Fatalf("automigrate: %v", err)
	}

	return db
}

// Open is OpenSQLite without the fatal exit, for callers that
// handle the error themselves (tests use ":memory:").
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entities.KnowledgeRecord{}, &entities.MetaEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}
