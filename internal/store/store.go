// Package store persists optimisation runs and their league tables to SQLite.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/scenario"
)

var ErrNotFound = errors.New("run not found")

// Run is one optimisation over a list of tasks.
type Run struct {
	ID         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	SiteDigest string
	Tasks      int
	Evaluated  int
	CacheHits  int
	Rejected   int
	Failed     int
	DurationMS int64

	Entries []StoredEntry `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// StoredEntry is one row of a run's league table.
type StoredEntry struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index"`
	Objective string `gorm:"index"`
	Position  int
	TaskIndex int
	// TaskHash is hex encoded; SQLite integers are signed.
	TaskHash string

	CAPEX          float64
	AnnualisedCost float64
	CostBalance    float64
	PaybackHorizon float64
	CarbonBalance  float64
	NPVBalance     float64
}

func (e StoredEntry) Entry() analysis.Entry {
	h, _ := strconv.ParseUint(e.TaskHash, 16, 64)
	return analysis.Entry{
		Index: e.TaskIndex,
		Hash:  h,
		Result: scenario.SimulationResult{
			CAPEX:          e.CAPEX,
			AnnualisedCost: e.AnnualisedCost,
			CostBalance:    e.CostBalance,
			PaybackHorizon: e.PaybackHorizon,
			CarbonBalance:  e.CarbonBalance,
			NPVBalance:     e.NPVBalance,
		},
	}
}

// League regroups the stored entries by objective, best first.
func (r *Run) League() map[analysis.Objective][]analysis.Entry {
	out := make(map[analysis.Objective][]analysis.Entry)
	for _, e := range r.Entries {
		o := analysis.Objective(e.Objective)
		out[o] = append(out[o], e.Entry())
	}
	return out
}

// NewRun builds a run record with a fresh id from a league snapshot.
func NewRun(siteDigest string, league map[analysis.Objective][]analysis.Entry) *Run {
	r := &Run{ID: uuid.New().String(), SiteDigest: siteDigest}
	for _, o := range analysis.Objectives() {
		for pos, e := range league[o] {
			r.Entries = append(r.Entries, StoredEntry{
				RunID:          r.ID,
				Objective:      string(o),
				Position:       pos,
				TaskIndex:      e.Index,
				TaskHash:       strconv.FormatUint(e.Hash, 16),
				CAPEX:          e.Result.CAPEX,
				AnnualisedCost: e.Result.AnnualisedCost,
				CostBalance:    e.Result.CostBalance,
				PaybackHorizon: e.Result.PaybackHorizon,
				CarbonBalance:  e.Result.CarbonBalance,
				NPVBalance:     e.Result.NPVBalance,
			})
		}
	}
	return r
}

type Store struct {
	db *gorm.DB
}

// New opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func New(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Run{}, &StoredEntry{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveRun(r *Run) error {
	return s.db.Create(r).Error
}

func (s *Store) GetRun(id string) (*Run, error) {
	var r Run
	err := s.db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("objective asc, position asc") }).
		First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns the most recent runs without their entries.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	if err := s.db.Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
