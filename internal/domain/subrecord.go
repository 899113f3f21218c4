package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const SubRecordSchemaVersion = 1

type SubRecordKind string

const (
	SubRecordAcademic     SubRecordKind = "academic"
	SubRecordProfessional SubRecordKind = "professional"
	SubRecordFamily       SubRecordKind = "family"
)

// SubRecordPayload is the stored JSON form of one sub-record collection.
type SubRecordPayload []byte

type AcademicEntry struct {
	Qualification string `json:"qualification"`
	Institution   string `json:"institution"`
	Board         string `json:"board"`
	YearOfPassing string `json:"yearOfPassing"`
	Score         string `json:"score"`
}

type ProfessionalEntry struct {
	Organization     string `json:"organization"`
	Designation      string `json:"designation"`
	From             string `json:"from"`
	To               string `json:"to"`
	LastSalary       string `json:"lastSalary"`
	ReasonForLeaving string `json:"reasonForLeaving"`
}

type FamilyMember struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Occupation   string `json:"occupation"`
	Other        string `json:"other"`
}

type subRecordEnvelope struct {
	Version int             `json:"version"`
	Entries json.RawMessage `json:"entries"`
}

// EncodeSubRecords wraps entries in the current schema envelope.
func EncodeSubRecords[T any](entries []T) (SubRecordPayload, error) {
	if entries == nil {
		entries = []T{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return json.Marshal(subRecordEnvelope{Version: SubRecordSchemaVersion, Entries: raw})
}

// DecodeSubRecords parses a stored payload. An empty payload is an empty
// collection; a bare JSON array is read as the unversioned legacy form.
// Every other failure wraps ErrMalformedSubRecords.
func DecodeSubRecords[T any](payload SubRecordPayload) ([]T, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var entries []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubRecords, err)
		}
		return entries, nil
	}

	var env subRecordEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSubRecords, err)
	}
	if env.Version != SubRecordSchemaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedSubRecords, env.Version)
	}
	if len(env.Entries) == 0 || bytes.Equal(env.Entries, []byte("null")) {
		return nil, nil
	}
	if err := json.Unmarshal(env.Entries, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSubRecords, err)
	}
	return entries, nil
}
