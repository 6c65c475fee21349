package stats

import (
	"errors"
	"sort"
	"time"

	apsql "leadfilter/sql"
)

// SQL implements Logger and Sampler on the shared database.
type SQL struct {
	// Node names the process writing the points, for multi-node setups.
	Node string
	DB   *apsql.DB
}

var _ Logger = &SQL{}
var _ Sampler = &SQL{}

// Log writes each point's values as rows of the stats table.
func (s *SQL) Log(points ...Point) error {
	if len(points) < 1 {
		return errors.New("must pass at least one stats.Point")
	}

	return s.DB.DoInTransaction(func(tx *apsql.Tx) error {
		for _, point := range points {
			timestamp := point.Timestamp.UTC()

			// Deterministic row order for a point's values.
			names := make([]string, 0, len(point.Values))
			for name := range point.Values {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				_, err := tx.Exec(
					`INSERT INTO stats (node, timestamp, name, value)
					 VALUES (?, ?, ?, ?)`,
					s.Node, timestamp, name, point.Values[name])
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Sample reads back rows in the interval, oldest first.
func (s *SQL) Sample(from, to time.Time, measurements ...string) (Result, error) {
	query := `SELECT node, timestamp, name, value FROM stats
		 WHERE timestamp >= ? AND timestamp <= ?`
	args := []interface{}{from.UTC(), to.UTC()}

	if len(measurements) > 0 {
		query += ` AND name IN (` + apsql.NQs(len(measurements)) + `)`
		for _, m := range measurements {
			args = append(args, m)
		}
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := s.DB.Queryx(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result Result
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Node, &row.Timestamp, &row.Name, &row.Value); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
