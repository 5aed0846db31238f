package repositoryImp

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Valeria115/VK-chat-bot/entities"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KBRepository { return &repo{db} }

// ReplaceAll deletes every record and inserts the new set inside one
// transaction, so readers see either the old set or the new one.
func (r *repo) ReplaceAll(recs []entities.KnowledgeRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.KnowledgeRecord{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.Create(&recs).Error
	})
}

func (r *repo) AllRecords() ([]entities.KnowledgeRecord, error) {
	var recs []entities.KnowledgeRecord
	return recs, r.db.Find(&recs).Error
}

func (r *repo) Count() (int64, error) {
	var n int64
	return n, r.db.Model(&entities.KnowledgeRecord{}).Count(&n).Error
}

func (r *repo) GetMeta(key string) (string, bool, error) {
	var m entities.MetaEntry
	err := r.db.First(&m, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}

func (r *repo) SetMeta(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entities.MetaEntry{Key: key, Value: value}).Error
}
