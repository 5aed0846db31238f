package repository

import "github.com/Valeria115/VK-chat-bot/entities"

type KBRepository interface {
	// ReplaceAll swaps the whole record set in one transaction.
	ReplaceAll([]entities.KnowledgeRecord) error
	AllRecords() ([]entities.KnowledgeRecord, error)
	Count() (int64, error)
	GetMeta(key string) (string, bool, error)
	SetMeta(key, value string) error
}
