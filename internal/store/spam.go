package store

import "context"

// InsertSpamReport records that reporter flagged reported as spam.
// Returns ErrDuplicate when the pair is already recorded.
func (db *DB) InsertSpamReport(ctx context.Context, id, reporterID, reportedID string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO spam_reports (id, reporter_user_id, reported_user_id, created_at)
		VALUES (?, ?, ?, ?)`,
		id, reporterID, reportedID, db.nowMs())
	return classify(err)
}

// DeleteSpamReport removes the reporter/reported pair. Missing pairs are not an error.
func (db *DB) DeleteSpamReport(ctx context.Context, reporterID, reportedID string) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM spam_reports WHERE reporter_user_id = ? AND reported_user_id = ?`,
		reporterID, reportedID)
	return err
}

// ReportedSenders returns the profile ids reporter has flagged.
func (db *DB) ReportedSenders(ctx context.Context, reporterID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT reported_user_id FROM spam_reports WHERE reporter_user_id = ? ORDER BY created_at`, reporterID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
