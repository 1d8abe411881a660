package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotArchiver keeps an audit trail of league standings rebuilds as JSON objects.
type SnapshotArchiver interface {
	Archive(ctx context.Context, leagueID int, snapshot interface{}) (*UploadResult, error)
}

type snapshotArchiver struct {
	uploader FileUploader
	prefix   string
	now      func() time.Time
}

func NewSnapshotArchiver(uploader FileUploader, prefix string) SnapshotArchiver {
	if prefix == "" {
		prefix = "league-standings"
	}
	return &snapshotArchiver{uploader: uploader, prefix: prefix, now: time.Now}
}

// SnapshotKey is the object key of a league snapshot taken at t.
func SnapshotKey(prefix string, leagueID int, t time.Time) string {
	return fmt.Sprintf("%s/%d/%s.json", prefix, leagueID, t.UTC().Format("20060102T150405.000000000Z"))
}

func (a *snapshotArchiver) Archive(ctx context.Context, leagueID int, snapshot interface{}) (*UploadResult, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings snapshot of league %d: %w", leagueID, err)
	}
	return a.uploader.Upload(ctx, SnapshotKey(a.prefix, leagueID, a.now()), "application/json", bytes.NewReader(body))
}
