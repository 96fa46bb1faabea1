package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reasons attached to a fetch failure notice.
const (
	ReasonEmpty = "empty"
	ReasonError = "error"
)

// FetchFailureNotice reports that a dashboard refresh fell back to zeros.
type FetchFailureNotice struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Reason    string    `json:"reason"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFetchFailureNotice stamps a notice with a fresh id and the current time.
func NewFetchFailureNotice(source, reason string, err error) *FetchFailureNotice {
	n := &FetchFailureNotice{
		ID:        uuid.NewString(),
		Source:    source,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		n.Error = err.Error()
	}
	return n
}

// ToJSON converts the notice to JSON bytes
func (n *FetchFailureNotice) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// FetchFailureNoticeFromJSON decodes a notice published by this service.
func FetchFailureNoticeFromJSON(data []byte) (*FetchFailureNotice, error) {
	var n FetchFailureNotice
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
