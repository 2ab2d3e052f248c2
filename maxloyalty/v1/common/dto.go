package common

import (
	"bytes"
	"encoding/json"
)

type PaginationDTO struct {
	Total int `json:"total"`
}

// ListDTO covers the envelopes the list endpoints answer with:
// {data, total} and {data, pagination: {total}}.
type ListDTO[T any] struct {
	Data       []T            `json:"data"`
	Total      *int           `json:"total,omitempty"`
	Pagination *PaginationDTO `json:"pagination,omitempty"`
}

// DecodeList accepts a bare array or a list envelope. total is -1 when the
// server did not report one.
func DecodeList[T any](body []byte) (items []T, total int, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, -1, nil
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, -1, err
		}
		return items, -1, nil
	}

	var envelope ListDTO[T]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, -1, err
	}
	total = -1
	switch {
	case envelope.Total != nil:
		total = *envelope.Total
	case envelope.Pagination != nil:
		total = envelope.Pagination.Total
	}
	if envelope.Data == nil {
		envelope.Data = []T{}
	}
	return envelope.Data, total, nil
}

// DecodeRecord accepts either the bare record or {data: record}. ok is
// false when the body carries no record at all.
func DecodeRecord[T any](body []byte) (record T, ok bool, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return record, false, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return record, false, err
	}
	if data, found := keys["data"]; found {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return record, false, nil
		}
		trimmed = data
	} else if _, hasID := keys["id"]; !hasID {
		return record, false, nil
	}

	if err := json.Unmarshal(trimmed, &record); err != nil {
		return record, false, err
	}
	return record, true, nil
}
