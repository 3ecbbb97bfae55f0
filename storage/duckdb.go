// Package storage records resolved turns into duckdb for offline
// analysis of how seasons actually play out.
package storage

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb/v2"
)

//go:embed schema/turns.sql
var turnsSchema []byte

type DuckDB = *sqlx.DB

func InitDuckDB(path string) (DuckDB, error) {
	db, err := sqlx.Connect("duckdb", path)
	if err != nil {
		return nil, err
	}

	_ = db.MustExec(string(turnsSchema))

	return db, nil
}
