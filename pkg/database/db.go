package database

import (
	"fmt"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EventRecord represents the events table. Start and End are nullable so
// that rows written by other clients without times still load.
type EventRecord struct {
	ID                     string     `gorm:"primaryKey"`
	OwnerID                string     `gorm:"index;not null"`
	Title                  string     `gorm:"not null"`
	Description            string
	Location               string
	Start                  *time.Time `gorm:"column:start_at"`
	End                    *time.Time `gorm:"column:end_at"`
	Type                   string
	AssignedTo             *string    `gorm:"index"`
	RequiredSkills         []string   `gorm:"serializer:json"`
	Status                 string
	Priority               int
	Dependencies           []string   `gorm:"serializer:json"`
	EstimatedDurationHours float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName overrides the default table name
func (EventRecord) TableName() string { return "events" }

// EmployeeRecord represents the employees table
type EmployeeRecord struct {
	ID                   string                       `gorm:"primaryKey"`
	OwnerID              string                       `gorm:"index;not null"`
	Name                 string                       `gorm:"not null"`
	Email                string
	Skills               []models.Skill               `gorm:"serializer:json"`
	AvailabilityPatterns []models.AvailabilityPattern `gorm:"serializer:json"`
	EmploymentType       string
	ShiftPreference      string
	Color                string
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName overrides the default table name
func (EmployeeRecord) TableName() string { return "employees" }

// User represents the users table
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB opens postgres when databaseURL is set, otherwise sqlite at dataPath,
// and migrates the schema
func InitDB(databaseURL, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if databaseURL != "" {
		cfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		if dataPath == "" {
			dataPath = "calendar.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if dataPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&EventRecord{}, &EmployeeRecord{}, &User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}
