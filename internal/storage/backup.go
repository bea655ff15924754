package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// backupPageBatch and backupSleep bound how much work one Step() call
// does before yielding, keeping a backup from starving concurrent readers
// on a busy store.
const (
	backupPageBatch = 32
	backupSleep     = 250 * time.Millisecond
)

var errNotSQLiteConn = errors.New("storage: connection is not a sqlite3 driver connection")

// Backup writes a consistent snapshot of the store to destPath using
// SQLite's online-backup API, copying backupPageBatch pages at a time and
// sleeping between batches so the source database stays responsive.
func (s *Store) Backup(destPath string) error {
	ctx := context.Background()

	destDB, err := sql.Open("sqlite3", destPath)
	if err != nil {
		return wrapDB(err)
	}
	defer destDB.Close()

	srcConn, err := s.db.Conn(ctx)
	if err != nil {
		return wrapDB(err)
	}
	defer srcConn.Close()

	destConn, err := destDB.Conn(ctx)
	if err != nil {
		return wrapDB(err)
	}
	defer destConn.Close()

	err = destConn.Raw(func(destDriver any) error {
		return srcConn.Raw(func(srcDriver any) error {
			destSQLite, ok := destDriver.(*sqlite3.SQLiteConn)
			if !ok {
				return errNotSQLiteConn
			}
			srcSQLite, ok := srcDriver.(*sqlite3.SQLiteConn)
			if !ok {
				return errNotSQLiteConn
			}

			backup, err := destSQLite.Backup("main", srcSQLite, "main")
			if err != nil {
				return err
			}
			defer backup.Close()

			for {
				done, err := backup.Step(backupPageBatch)
				if err != nil {
					return err
				}
				if done {
					return nil
				}
				time.Sleep(backupSleep)
			}
		})
	})
	return wrapDB(err)
}
