// Package repo implements the per-entity persistence contracts over the
// generic record store. Each repository converts entities to and from their
// flat record shapes via the record package and translates store-level
// failures into structured domain errors. Uniqueness rules that span records
// (participant names within a trip, one availability per participant per
// trip per day) are enforced here, not in the storage engine.
package repo

import (
	"encoding/json"
	"fmt"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

// decodeDocs unmarshals raw store documents into record structs. A document
// that is not even valid JSON indicates store corruption and fails the whole
// read; semantically invalid records (bad enum tags etc.) are handled later
// by the mapping layer on a per-record basis.
func decodeDocs[R any](docs [][]byte, op string) ([]R, error) {
	out := make([]R, len(docs))
	for i, doc := range docs {
		if err := json.Unmarshal(doc, &out[i]); err != nil {
			return nil, fmt.Errorf("%s: decode document: %w", op, err)
		}
	}
	return out, nil
}

// marshalRecord serializes a record struct into a store document.
func marshalRecord(rec any, op string) ([]byte, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: encode document: %w", op, err)
	}
	return doc, nil
}

// decodeDoc unmarshals a single raw store document.
func decodeDoc[R any](doc []byte, op string) (R, error) {
	var out R
	if err := json.Unmarshal(doc, &out); err != nil {
		return out, fmt.Errorf("%s: decode document: %w", op, err)
	}
	return out, nil
}

// deserializationError reports the records of a batch read that failed to
// deserialize. The successfully converted entities are still returned to the
// caller alongside this error; one stale record must not hide the rest.
func deserializationError(entity string, failures []record.Failure) error {
	ids := make([]string, len(failures))
	details := make(map[string]any, len(failures))
	for i, f := range failures {
		ids[i] = f.ID
		details[f.ID] = f.Err.Error()
	}
	return domain.NewDeserializationError(entity, ids, details)
}

// mergeChanges applies a sparse partial-update record on top of a stored
// document and returns the merged document. Keys absent from changes are
// passed through untouched, including fields that would no longer validate.
func mergeChanges(doc []byte, changes map[string]any, op string) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("%s: decode document: %w", op, err)
	}
	for k, v := range changes {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%s: encode document: %w", op, err)
	}
	return merged, nil
}
