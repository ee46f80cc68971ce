// Package storage keeps datasets in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"marketswarm/internal/finance"
)

// ErrNoDataset is returned by LoadDataset when nothing has been saved.
var ErrNoDataset = errors.New("no dataset stored")

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Begin() (*sql.Tx, error)
	Close() error
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS companies(
		ticker TEXT PRIMARY KEY, position INTEGER, name TEXT, sector TEXT,
		marketcap REAL, pe REAL, eps REAL, beta REAL, dividend REAL
	);
	CREATE TABLE IF NOT EXISTS bars(
		ticker TEXT REFERENCES companies(ticker) ON DELETE CASCADE, idx INTEGER,
		date TEXT, minute TEXT, open REAL, high REAL, low REAL, close REAL,
		volume REAL, market_close REAL,
		PRIMARY KEY(ticker, idx)
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// SaveDataset replaces the stored dataset with ds in one transaction.
func (s *Store) SaveDataset(ds finance.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := saveDataset(tx, ds); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveDataset(tx *sql.Tx, ds finance.Dataset) error {
	if _, err := tx.Exec(`DELETE FROM bars`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM companies`); err != nil {
		return err
	}
	company, err := tx.Prepare(`INSERT INTO companies(ticker,position,name,sector,marketcap,pe,eps,beta,dividend)
		VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer company.Close()
	bar, err := tx.Prepare(`INSERT INTO bars(ticker,idx,date,minute,open,high,low,close,volume,market_close)
		VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer bar.Close()

	for pos, c := range ds {
		if _, err := company.Exec(c.Ticker, pos, c.Name, c.Sector, c.MarketCap, c.PE, c.EPS, c.Beta, c.Dividend); err != nil {
			return fmt.Errorf("save %s: %w", c.Ticker, err)
		}
		for i, b := range c.Chart {
			if _, err := bar.Exec(c.Ticker, i, b.Date, b.Minute, b.Open, b.High, b.Low, b.Close, b.Volume, b.MarketClose); err != nil {
				return fmt.Errorf("save %s[%d]: %w", c.Ticker, i, err)
			}
		}
	}
	return nil
}

// LoadDataset reads the stored dataset in its saved order.
func (s *Store) LoadDataset() (finance.Dataset, error) {
	rows, err := s.db.Query(`SELECT ticker,name,sector,marketcap,pe,eps,beta,dividend FROM companies ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	var ds finance.Dataset
	byTicker := map[string]int{}
	for rows.Next() {
		var c finance.Company
		if err := rows.Scan(&c.Ticker, &c.Name, &c.Sector, &c.MarketCap, &c.PE, &c.EPS, &c.Beta, &c.Dividend); err != nil {
			rows.Close()
			return nil, err
		}
		byTicker[c.Ticker] = len(ds)
		ds = append(ds, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, ErrNoDataset
	}

	rows, err = s.db.Query(`SELECT ticker,date,minute,open,high,low,close,volume,market_close FROM bars ORDER BY ticker, idx ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ticker string
		var b finance.Bar
		if err := rows.Scan(&ticker, &b.Date, &b.Minute, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.MarketClose); err != nil {
			return nil, err
		}
		i, ok := byTicker[ticker]
		if !ok {
			continue
		}
		ds[i].Chart = append(ds[i].Chart, b)
	}
	return ds, rows.Err()
}

// Tickers lists the stored tickers in saved order.
func (s *Store) Tickers() ([]string, error) {
	rows, err := s.db.Query(`SELECT ticker FROM companies ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err == nil && t != "" {
			out = append(out, t)
		}
	}
	return out, rows.Err()
}
