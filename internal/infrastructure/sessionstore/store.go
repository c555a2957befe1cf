package sessionstore

import (
	"encoding/json"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pedidos-agent/internal/domain"
)

// sessionRecord is the single persisted row; the agent holds at most one
// session at a time.
type sessionRecord struct {
	Key      string `gorm:"primaryKey"`
	Username string
	Password string
	UserJSON string
}

func (sessionRecord) TableName() string { return "sessions" }

const currentKey = "current"

// SQLiteStore persists the session in a local sqlite file, the closest thing
// a headless agent has to the device preference store the credentials used to
// live in.
type SQLiteStore struct {
	mu sync.RWMutex
	db *gorm.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(sess domain.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := sessionRecord{
		Key:      currentKey,
		Username: sess.Username,
		Password: sess.Password,
		UserJSON: string(raw),
	}
	return s.db.Save(&rec).Error
}

func (s *SQLiteStore) Load() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rec sessionRecord
	if err := s.db.First(&rec, "key = ?", currentKey).Error; err != nil {
		return domain.Session{}, false
	}
	var user domain.User
	if err := json.Unmarshal([]byte(rec.UserJSON), &user); err != nil {
		return domain.Session{}, false
	}
	return domain.Session{User: user, Username: rec.Username, Password: rec.Password}, true
}

func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Delete(&sessionRecord{}, "key = ?", currentKey).Error
}

// MemoryStore keeps the session in memory only. Used by tests and as a
// fallback when no database path is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	sess *domain.Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := sess
	s.sess = &cp
	return nil
}

func (s *MemoryStore) Load() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return domain.Session{}, false
	}
	return *s.sess, true
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
