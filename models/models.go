package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ExportRun records one successfully produced document. Table content itself is never stored.
type ExportRun struct {
	bun.BaseModel `bun:"table:export_runs,alias:er"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Reference       string    `bun:"reference,notnull"`
	FileName        string    `bun:"file_name,notnull"`
	Title           string    `bun:"title,notnull"`
	RowCount        int       `bun:"row_count,notnull"`
	PageCount       int       `bun:"page_count,notnull"`
	SignatureSource string    `bun:"signature_source,notnull"`
	Digest          string    `bun:"digest,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// CustomerInfo is free-form document metadata shown in every page header.
type CustomerInfo struct {
	Name     string
	Location string
	Date     string
}

// Signature is the footer image plus its signing date. Empty Data means the bundled placeholder.
type Signature struct {
	Data     []byte
	MIMEType string
	FileName string
	SignDate string
}

// Uploaded reports whether the user supplied their own signature image.
func (s Signature) Uploaded() bool {
	return len(s.Data) > 0
}

const (
	SignatureSourceUploaded = "uploaded"
	SignatureSourceDefault  = "default"
)
