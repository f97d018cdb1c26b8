package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSON-encoded column types. MySQL stores these as json, sqlite as text;
// GORM round-trips them through the Valuer/Scanner pair.

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(dst any, src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(s) == 0 {
			return nil
		}
		return json.Unmarshal(s, dst)
	case string:
		if s == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

// StringList is an ordered list of strings stored as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) { return jsonValue([]string(l)) }
func (l *StringList) Scan(src any) error          { return jsonScan(l, src) }

// UintList is a set of record ids stored as a JSON column.
type UintList []uint

func (l UintList) Value() (driver.Value, error) { return jsonValue([]uint(l)) }
func (l *UintList) Scan(src any) error          { return jsonScan(l, src) }

// Contains reports whether id is present in the list.
func (l UintList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Merge appends the ids not already present, preserving order.
func (l UintList) Merge(ids []uint) UintList {
	out := l
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// ChecklistItem is one entry of a task checklist.
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Checklist []ChecklistItem

func (c Checklist) Value() (driver.Value, error) { return jsonValue([]ChecklistItem(c)) }
func (c *Checklist) Scan(src any) error          { return jsonScan(c, src) }

// CompletedCount returns how many checklist items are ticked.
func (c Checklist) CompletedCount() int {
	n := 0
	for _, item := range c {
		if item.Completed {
			n++
		}
	}
	return n
}

// FormChecklistItem is a form-style checklist entry with optional
// document references.
type FormChecklistItem struct {
	Name        string `json:"name"`
	DownloadDoc string `json:"downloadDoc,omitempty"`
	SampleDoc   string `json:"sampleDoc,omitempty"`
}

type FormChecklist []FormChecklistItem

func (c FormChecklist) Value() (driver.Value, error) { return jsonValue([]FormChecklistItem(c)) }
func (c *FormChecklist) Scan(src any) error          { return jsonScan(c, src) }

// FileRef describes one uploaded attachment.
type FileRef struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type FileList []FileRef

func (l FileList) Value() (driver.Value, error) { return jsonValue([]FileRef(l)) }
func (l *FileList) Scan(src any) error          { return jsonScan(l, src) }
