package manifest

import (
	_ "crypto/sha256" // registers the digest.Canonical hash
	"time"

	"github.com/opencontainers/go-digest"

	"bankrip/internal/extract"
)

// Run is one recorded extraction run.
type Run struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	BankRoot        string    `json:"bank_root"`
	OutputRoot      string    `json:"output_root"`
	DescriptionPath string    `json:"description_path"`
	DryRun          bool      `json:"dry_run"`
	TotalExtracted  int       `json:"total_extracted"`
	Records         []Record  `json:"records,omitempty"`
}

// Record is the persisted outcome of one sample entry.
type Record struct {
	Seq           int           `json:"seq"`
	Bank          string        `json:"bank"`
	Name          string        `json:"name"`
	Outcome       string        `json:"outcome"`
	EntryOffset   uint64        `json:"entry_offset"`
	EntryLength   uint64        `json:"entry_length"`
	PayloadOffset *uint64       `json:"payload_offset,omitempty"`
	PayloadSize   int           `json:"payload_size"`
	Digest        digest.Digest `json:"digest,omitempty"`
	OutputPath    string        `json:"output_path,omitempty"`
	Reason        string        `json:"reason,omitempty"`
}

// NewRecord converts an extraction result into a Record. outputPath is empty
// when nothing was written.
func NewRecord(seq int, res extract.Result, outputPath string) Record {
	rec := Record{
		Seq:         seq,
		Bank:        res.Entry.Bank.String(),
		Name:        res.Entry.Name,
		Outcome:     res.Kind.String(),
		EntryOffset: res.Entry.Offset,
		EntryLength: res.Entry.Length,
		OutputPath:  outputPath,
	}
	if res.Kind != extract.KindFailed {
		offset := res.Offset
		rec.PayloadOffset = &offset
		rec.PayloadSize = len(res.Payload)
		rec.Digest = digest.FromBytes(res.Payload)
	}
	if res.Err != nil {
		rec.Reason = res.Err.Error()
	}
	return rec
}
