package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tracker/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"}, nil)
	if err == nil || !strings.Contains(err.Error(), "service account") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet", CredentialsFile: "/does/not/exist.json"}, nil)
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestClient_ExportRejectsInvalid(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.Export(context.Background(), core.ExpenseRecord{Title: "", Amount: 1}); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := c.Export(context.Background(), core.ExpenseRecord{Title: "ok", Amount: 1}); err == nil {
		t.Fatal("expected error for uninitialised service")
	}
}

func TestClient_ExportKeepsFormulaTitlesAsText(t *testing.T) {
	var (
		gotQuery string
		gotBody  gsheet.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"updates":{"updatedRange":"Expenses!A2:D2"}}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), Config{SpreadsheetID: "sheet-123"}, nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	title := `=IMPORTXML("http://example.invalid","//a")`
	if _, err := c.Export(context.Background(), core.ExpenseRecord{ID: "x", Title: title, Amount: 1}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.Contains(gotQuery, "USER_ENTERED") || !strings.Contains(gotQuery, "valueInputOption=RAW") {
		t.Errorf("formula titles must not be interpreted, query %q", gotQuery)
	}
	if len(gotBody.Values) != 1 || gotBody.Values[0][1] != title {
		t.Errorf("unexpected body %+v", gotBody.Values)
	}
}

func TestClient_ExportAppendsRow(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotBody  gsheet.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"updates":{"updatedRange":"Expenses!A7:D7"}}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), Config{SpreadsheetID: "sheet-123"}, nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ref, err := c.Export(context.Background(), core.ExpenseRecord{
		ID:        "65a1",
		Title:     "Flowers",
		Amount:    14.5,
		CreatedAt: time.Date(2025, 9, 9, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if ref != "Expenses!A7:D7" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-123/values/") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "valueInputOption=RAW") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 4 {
		t.Fatalf("unexpected body %+v", gotBody.Values)
	}
	row := gotBody.Values[0]
	if row[0] != "2025-09-09" || row[1] != "Flowers" || row[2] != 14.5 || row[3] != "65a1" {
		t.Errorf("unexpected row %v", row)
	}
}
