package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const orderEventTypeID = 6 // "Commande"

// Open a DSN in mariadb:// or mysql:// form (or a native driver DSN) and
// return the connection plus the normalized DSN actually used.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadActiveCounts derives a persistency series for the cohort acquired in
// [cohortStart, cohortStart+1 month): active[t] = number of cohort customers
// whose last order event falls in period t+1 or later. active[0] is the
// cohort size, and the series is non-increasing by construction.
func LoadActiveCounts(
	ctx context.Context,
	db *sql.DB,
	tableName string,
	cohortStart time.Time,
	periods int,
) ([]int, error) {

	if !regexp.MustCompile(`^[A-Za-z0-9_]+$`).MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name")
	}
	if periods < 2 {
		return nil, fmt.Errorf("need at least 2 periods, got %d", periods)
	}

	// Always work in UTC and format as MySQL DATETIME strings
	const layout = "2006-01-02 15:04:05"
	cohortEnd := cohortStart.AddDate(0, 1, 0)
	cStart := cohortStart.UTC().Format(layout)
	cEnd := cohortEnd.UTC().Format(layout)

	// Cohort = customers whose first order lands in [cohortStart, cohortEnd);
	// we only need each customer's last order date to bucket persistency.
	q := fmt.Sprintf(`
		SELECT MAX(ced.EventDate) AS lastDT
		FROM %s ced
		WHERE ced.EventTypeID = ?
		GROUP BY ced.CustomerID
		HAVING MIN(ced.EventDate) >= ? AND MIN(ced.EventDate) < ?
	`, tableName)

	rows, err := db.QueryContext(ctx, q, orderEventTypeID, cStart, cEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lasts []time.Time
	for rows.Next() {
		var last time.Time
		if err := rows.Scan(&last); err != nil {
			return nil, err
		}
		lasts = append(lasts, last)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] cohort=[%s ; %s) customers=%d", cStart, cEnd, len(lasts))
	if len(lasts) == 0 {
		return nil, fmt.Errorf("no cohort customers found in [%s ; %s)", cStart, cEnd)
	}
	return activeFromLastEvents(lasts, cohortStart, periods), nil
}

// activeFromLastEvents buckets per-customer last-event dates into a
// non-increasing active-count series of the requested length.
func activeFromLastEvents(lasts []time.Time, cohortStart time.Time, periods int) []int {
	active := make([]int, periods)
	active[0] = len(lasts)
	for t := 1; t < periods; t++ {
		periodStart := cohortStart.AddDate(0, t, 0)
		for _, last := range lasts {
			if !last.Before(periodStart) {
				active[t]++
			}
		}
	}
	return active
}
