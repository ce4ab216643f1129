package model

import "time"

// Item is one ingested piece of content. Fingerprint is fixed at insert time.
type Item struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Summary     string    `json:"summary" yaml:"summary"`
	Link        string    `json:"link" yaml:"link"`
	PublishedAt string    `json:"published_at" yaml:"published_at"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// PublicationRecord marks a fingerprint as published.
// It may outlive the Item it refers to.
type PublicationRecord struct {
	ID          int64     `json:"id" yaml:"id"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	RemoteID    string    `json:"remote_id" yaml:"remote_id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}
