// Package store provides the in-memory record catalog and its secondary indexes.
package store

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ErrDuplicateID is returned when inserting a record whose ID is already present.
var ErrDuplicateID = errors.New("duplicate identifier")

// ID identifies a record. IDs are assigned by the caller and never change.
type ID int64

// Record represents a cataloged file.
type Record struct {
	ID           ID        `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Size         int64     `json:"size" yaml:"size"`
	Type         string    `json:"type" yaml:"type"`
	Content      string    `json:"content" yaml:"content"`
	Tags         []string  `json:"tags" yaml:"tags"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
}

// HasTag reports whether the record carries tag.
func (r Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// ContentHash returns the xxh64 digest of the record content.
func (r Record) ContentHash() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(r.Content))
}

// clone returns a copy that shares no mutable state with r.
func (r *Record) clone() Record {
	c := *r
	c.Tags = slices.Clone(r.Tags)
	return c
}

// DuplicatePair links a later record to the first record with identical content.
type DuplicatePair struct {
	Original  Record `json:"original"`
	Duplicate Record `json:"duplicate"`
}

// TypeStats aggregates the records of one type.
type TypeStats struct {
	Count       int     `json:"count"`
	TotalSize   int64   `json:"total_size"`
	AverageSize float64 `json:"average_size"`
}

// StorageReport is a point-in-time summary of the catalog.
type StorageReport struct {
	TotalFiles    int                  `json:"total_files"`
	TotalSize     int64                `json:"total_size"`
	AverageSize   float64              `json:"average_size"`
	LargestFiles  []Record             `json:"largest_files"`
	FileTypes     map[string]TypeStats `json:"file_types"`
	RecentlyAdded []Record             `json:"recently_added"`
}

// ReportTopN is the number of records listed in the largest and most recent
// sections of a StorageReport.
const ReportTopN = 5
