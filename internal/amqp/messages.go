package amqp

import (
	"encoding/json"
	"time"
)

// DatasetRefreshedMessage is published after a collector run. Consumers
// re-read the dashboard table from storage; the message carries only the
// snapshot reference and counts.
type DatasetRefreshedMessage struct {
	SnapshotID     int64     `json:"snapshot_id"`
	RecordsFetched int       `json:"records_fetched"`
	DashboardRows  int       `json:"dashboard_rows"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewDatasetRefreshedMessage creates a refresh message for a stored snapshot.
func NewDatasetRefreshedMessage(snapshotID int64, recordsFetched, dashboardRows int) *DatasetRefreshedMessage {
	return &DatasetRefreshedMessage{
		SnapshotID:     snapshotID,
		RecordsFetched: recordsFetched,
		DashboardRows:  dashboardRows,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetRefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetRefreshedMessageFromJSON creates a message from JSON bytes
func DatasetRefreshedMessageFromJSON(data []byte) (*DatasetRefreshedMessage, error) {
	var msg DatasetRefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
