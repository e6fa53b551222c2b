package postgres

import (
	"database/sql"
	"errors"
	"math"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// NaN is how the domain spells "no value"; Postgres spells it NULL.
func nullFloat64(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullFloat64ToFloat64(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
