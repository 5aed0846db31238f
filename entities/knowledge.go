package entities

import "time"

// KnowledgeRecord is one extracted section of the education site.
// Embedding holds the section content's embedding as little-endian float32 bytes.
type KnowledgeRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index" json:"title"`
	Content     string    `json:"content"`
	SourceURL   string    `gorm:"index" json:"source_url"`
	Embedding   []byte    `json:"-"`
	LastUpdated time.Time `json:"last_updated"`
}

// MetaEntry is a singleton key-value row. Keys in use: "last_updated"
// (RFC3339 time of the last successful ingestion) and "model_version"
// (embedding model the stored vectors were produced with).
type MetaEntry struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}
