// Package publish emits finished edge records to downstream consumers.
package publish

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yourusername/sharpline/internal/models"
)

// Record is the published shape: the immutable edge plus its stake
// recommendation when one was sized
type Record struct {
	Edge  *models.BettingEdge         `json:"edge"`
	Stake *models.StakeRecommendation `json:"stake,omitempty"`
}

// NDJSONWriter streams one JSON object per line to an io.Writer. Output is
// append-only; consumers tail it or pipe it onward.
type NDJSONWriter struct {
	w   io.Writer
	enc *json.Encoder
}

// NewNDJSONWriter creates an NDJSON publisher
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{w: w, enc: json.NewEncoder(w)}
}

// Publish writes one record as a single JSON line
func (p *NDJSONWriter) Publish(record Record) error {
	if record.Edge == nil {
		return fmt.Errorf("record has no edge")
	}
	if err := p.enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode edge record: %w", err)
	}
	return nil
}

// PublishAll writes a batch of edges with their stakes, pairing by edge ID
func (p *NDJSONWriter) PublishAll(edges []*models.BettingEdge, stakes []*models.StakeRecommendation) error {
	for _, record := range pairRecords(edges, stakes) {
		if err := p.Publish(record); err != nil {
			return err
		}
	}
	return nil
}

// pairRecords attaches each sized stake to its edge. Stakes the sizer
// rejected or zeroed are dropped; the edge record still goes out
func pairRecords(edges []*models.BettingEdge, stakes []*models.StakeRecommendation) []Record {
	stakeByEdge := make(map[string]*models.StakeRecommendation, len(stakes))
	for _, s := range stakes {
		stakeByEdge[s.EdgeID.String()] = s
	}

	records := make([]Record, 0, len(edges))
	for _, e := range edges {
		record := Record{Edge: e}
		if s, ok := stakeByEdge[e.ID.String()]; ok && s.IsBet() {
			record.Stake = s
		}
		records = append(records, record)
	}
	return records
}
