// Package history records completion requests made through the CLI, so
// recently completed directories can be listed and re-used. The completion
// core itself stays stateless; this store belongs to the host.
package history

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type Manager struct {
	db *gorm.DB
}

// Entry is one recorded completion request.
type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	// Line is the cursor text the request came from.
	Line string

	// Directory is the resolved absolute directory that was scanned.
	Directory string `gorm:"index"`

	// Candidates is how many candidates the scan produced.
	Candidates int
}

func NewManager(dbFilePath string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record stores one completed request.
func (m *Manager) Record(line string, directory string, candidates int) (*Entry, error) {
	entry := Entry{
		Line:       line,
		Directory:  directory,
		Candidates: candidates,
	}
	result := m.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

// RecentDirectories returns the most recently completed directories, newest
// first, deduplicated.
func (m *Manager) RecentDirectories(limit int) ([]string, error) {
	var directories []string
	result := m.db.Model(&Entry{}).
		Distinct("directory").
		Order("max(created_at) desc").
		Group("directory").
		Limit(limit).
		Pluck("directory", &directories)
	if result.Error != nil {
		return nil, result.Error
	}
	return directories, nil
}

// RecentEntries returns the most recent entries, newest first, optionally
// filtered to one directory.
func (m *Manager) RecentEntries(directory string, limit int) ([]Entry, error) {
	var entries []Entry
	db := m.db
	if directory != "" {
		db = db.Where("directory = ?", directory)
	}
	result := db.Order("created_at desc, id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// Search returns entries whose line contains the given substring, newest
// first.
func (m *Manager) Search(query string, limit int) ([]Entry, error) {
	var entries []Entry
	result := m.db.Where("line LIKE ?", "%"+query+"%").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// Reset deletes all recorded requests.
func (m *Manager) Reset() error {
	return m.db.Exec("DELETE FROM entries").Error
}
