package database

import (
	"embed"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"moul.io/zapgorm2"

	"github.com/cloudgrab/cloudgrab/internal/session"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Database is the download history, a record of every operation the tool has
// run and the files it produced.
type Database struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewDatabase(path string, log *zap.Logger) (*Database, error) {
	gormLogger := zapgorm2.New(log.Named("gorm"))
	gormLogger.IgnoreRecordNotFoundError = true
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}
	return &Database{db: db, log: log.Sugar().Named("database")}, nil
}

func (d *Database) Migrate() error {
	d.log.Debug("running database migrations")
	fs, err := iofs.New(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", fs, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	switch err {
	case nil:
		d.log.Info("database migration complete")
	case migrate.ErrNoChange:
		d.log.Debug("no database migration required")
	default:
		return err
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordOperation upserts the history entry for an operation, replacing its
// file list.
func (d *Database) RecordOperation(record *session.OperationRecord) error {
	operation := operationFromRecord(record)
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Files").Clauses(clause.OnConflict{UpdateAll: true}).Create(&operation).Error; err != nil {
			return err
		}
		if err := tx.Where("operation_id = ?", operation.ID).Delete(&File{}).Error; err != nil {
			return err
		}
		for _, path := range record.Files {
			file := File{OperationID: operation.ID, Path: path}
			if err := tx.Create(&file).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetOperation returns (nil, nil) if no such operation has been recorded.
func (d *Database) GetOperation(id session.OperationID) (*session.OperationRecord, error) {
	var operation Operation
	err := d.db.Preload("Files").First(&operation, "id = ?", string(id)).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	record := operation.toRecord()
	return &record, nil
}

// ListOperations returns up to limit history entries, most recent first; a
// limit of 0 means no limit.
func (d *Database) ListOperations(limit int) ([]session.OperationRecord, error) {
	var operations []Operation
	query := d.db.Preload("Files").Order("added_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&operations).Error; err != nil {
		return nil, err
	}
	records := make([]session.OperationRecord, 0, len(operations))
	for _, operation := range operations {
		records = append(records, operation.toRecord())
	}
	return records, nil
}

type Operation struct {
	ID         string `gorm:"primaryKey"`
	URL        string
	Kind       string
	Provider   string
	OutputDir  string
	Quality    string
	Completed  bool
	Error      string
	AddedAt    time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []File `gorm:"foreignKey:OperationID"`
}

func (Operation) TableName() string {
	return "operation"
}

type File struct {
	ID          int64 `gorm:"primaryKey"`
	OperationID string
	Path        string
}

func (File) TableName() string {
	return "file"
}

func operationFromRecord(record *session.OperationRecord) Operation {
	return Operation{
		ID:         string(record.ID),
		URL:        record.URL,
		Kind:       record.Kind,
		Provider:   record.Provider,
		OutputDir:  record.OutputDir,
		Quality:    record.Quality,
		Completed:  record.Completed,
		Error:      record.Error,
		AddedAt:    record.AddedAt,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
}

func (o Operation) toRecord() session.OperationRecord {
	record := session.OperationRecord{
		ID:         session.OperationID(o.ID),
		URL:        o.URL,
		Kind:       o.Kind,
		Provider:   o.Provider,
		OutputDir:  o.OutputDir,
		Quality:    o.Quality,
		Completed:  o.Completed,
		Error:      o.Error,
		AddedAt:    o.AddedAt,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
	}
	for _, f := range o.Files {
		record.Files = append(record.Files, f.Path)
	}
	return record
}
