package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// TableName is the relational table holding the readings.
const TableName = "weatherHistory"

const columns = "id, reading_time, summary, precip_type, temperature, apparent_temperature, " +
	"humidity, wind_speed, wind_bearing, visibility, pressure"

// PoolConfig bounds the connection pool shared by all accessor calls.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLStore reads and writes readings through database/sql. Each operation
// acquires one pooled connection and releases it before returning.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open connects to the row store with the given driver ("sqlite" or "mysql").
func Open(ctx context.Context, driver, dsn string, pool PoolConfig) (*SQLStore, error) {
	if _, ok := schemas[driver]; !ok {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, wrap("open", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap("ping", err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// Close releases the pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Migrate creates the readings table when it does not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	return s.withConn(ctx, "migrate", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, schemas[s.driver])
		return err
	})
}

// FetchAll returns every row of the table.
func (s *SQLStore) FetchAll(ctx context.Context) ([]weather.Reading, error) {
	return s.query(ctx, "fetch all", "SELECT "+columns+" FROM "+TableName)
}

// FetchRecent returns at most n rows, newest first by id.
func (s *SQLStore) FetchRecent(ctx context.Context, n int) ([]weather.Reading, error) {
	if n <= 0 {
		return nil, &Error{Kind: KindOther, Op: "fetch recent", Err: fmt.Errorf("row count must be positive, got %d", n)}
	}
	return s.query(ctx, "fetch recent",
		"SELECT "+columns+" FROM "+TableName+" ORDER BY id DESC LIMIT ?", n)
}

// FetchByYear returns the rows whose UTC timestamp falls in the given year.
//
// Stored values may carry a local offset, so the query also pulls the last day
// of the previous year and the first day of the next one; the exact bound is
// applied on the parsed UTC time.
func (s *SQLStore) FetchByYear(ctx context.Context, year string) ([]weather.Reading, error) {
	y, err := weather.ParseYear(year)
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: "fetch by year", Err: err}
	}

	rows, err := s.query(ctx, "fetch by year",
		"SELECT "+columns+" FROM "+TableName+
			" WHERE reading_time LIKE ? OR reading_time LIKE ? OR reading_time LIKE ? ORDER BY id",
		year+"%",
		fmt.Sprintf("%04d-12-31%%", y-1),
		fmt.Sprintf("%04d-01-01%%", y+1),
	)
	if err != nil {
		return nil, err
	}
	return filterYear(rows, year, y), nil
}

// Insert stores one reading; id is assigned by the database.
func (s *SQLStore) Insert(ctx context.Context, r weather.Reading) error {
	return s.withConn(ctx, "insert", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			"INSERT INTO "+TableName+" (reading_time, summary, precip_type, temperature, apparent_temperature, "+
				"humidity, wind_speed, wind_bearing, visibility, pressure) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			r.ReadingTime, r.Summary, r.PrecipType, r.Temperature, r.ApparentTemperature,
			r.Humidity, r.WindSpeed, r.WindBearing, r.Visibility, r.Pressure,
		)
		return err
	})
}

func (s *SQLStore) query(ctx context.Context, op, q string, args ...any) ([]weather.Reading, error) {
	var out []weather.Reading
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]weather.Reading, 0)
		for rows.Next() {
			var r weather.Reading
			if err := rows.Scan(
				&r.ID, &r.ReadingTime, &r.Summary, &r.PrecipType,
				&r.Temperature, &r.ApparentTemperature, &r.Humidity,
				&r.WindSpeed, &r.WindBearing, &r.Visibility, &r.Pressure,
			); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withConn scopes one pooled connection to fn and always hands it back.
func (s *SQLStore) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return wrap(op, err)
	}
	defer conn.Close()

	return wrap(op, fn(conn))
}

// filterYear keeps rows whose parsed UTC year matches. Rows that fail to parse
// are kept when their raw prefix matches, so cleaning reports them.
func filterYear(rows []weather.Reading, prefix string, year int) []weather.Reading {
	out := make([]weather.Reading, 0, len(rows))
	for _, r := range rows {
		t, err := weather.ParseReadingTime(r.ReadingTime)
		if err != nil {
			if len(r.ReadingTime) >= 4 && r.ReadingTime[:4] == prefix {
				out = append(out, r)
			}
			continue
		}
		if t.Year() == year {
			out = append(out, r)
		}
	}
	return out
}
