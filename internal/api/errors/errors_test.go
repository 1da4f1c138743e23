package errors

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Classification(t *testing.T) {
	tests := []struct {
		code       int
		wantStatus string
	}{
		{403, "fail"},
		{404, "fail"},
		{405, "fail"},
		{500, "error"},
		{503, "error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, tt.code, "msg")

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("невалидный JSON: %v", err)
		}
		if body["status"] != tt.wantStatus {
			t.Errorf("код %d: status = %q, ожидался %q", tt.code, body["status"], tt.wantStatus)
		}
		if rec.Code != tt.code {
			t.Errorf("HTTP-код = %d, ожидался %d", rec.Code, tt.code)
		}
	}
}

func TestWriteError_DefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 500, "")

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("невалидный JSON: %v", err)
	}
	if body["message"] != "something bad happend" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, 201, map[string]string{"id": "1"})

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("невалидный JSON: %v", err)
	}
	if body["status"] != "success" {
		t.Errorf("status = %v", body["status"])
	}
	if rec.Code != 201 {
		t.Errorf("HTTP-код = %d, ожидался 201", rec.Code)
	}
}

func TestWriteSuccess_NoData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, 200, nil)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("невалидный JSON: %v", err)
	}
	if _, ok := body["data"]; ok {
		t.Error("data не должно присутствовать при nil")
	}
}
