package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newProfileRepoWithMock(t *testing.T) (*ProfileRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ProfileRepository{db: db}, mock, func() { _ = db.Close() }
}

func fieldRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"name", "value", "document_id", "extracted_at", "manually_edited"})
}

func TestMergeFieldsWritesNewField(t *testing.T) {
	repo, mock, done := newProfileRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, value, document_id").
		WithArgs("prof-1").
		WillReturnRows(fieldRows())
	mock.ExpectExec("INSERT INTO profile_fields").
		WithArgs("prof-1", "full_name", []byte(`"John Doe"`), "doc-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE profiles").
		WithArgs("prof-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := repo.MergeFields(context.Background(), "prof-1", map[string]any{"full_name": "John Doe"}, "doc-1")
	if err != nil {
		t.Fatalf("MergeFields() error = %v", err)
	}
	if !changed {
		t.Fatalf("expected changed = true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMergeFieldsHonorsManualEditVeto(t *testing.T) {
	repo, mock, done := newProfileRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, value, document_id").
		WithArgs("prof-1").
		WillReturnRows(fieldRows().
			AddRow("email", []byte(`"manual@example.com"`), "manual:reviewer", time.Now().UTC(), true))
	mock.ExpectCommit()

	changed, err := repo.MergeFields(context.Background(), "prof-1", map[string]any{"email": "scanned@example.com"}, "doc-2")
	if err != nil {
		t.Fatalf("MergeFields() error = %v", err)
	}
	if changed {
		t.Fatalf("expected manual field to be protected")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMergeFieldsSkipsEmptyCandidates(t *testing.T) {
	repo, mock, done := newProfileRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, value, document_id").
		WithArgs("prof-1").
		WillReturnRows(fieldRows())
	mock.ExpectCommit()

	changed, err := repo.MergeFields(context.Background(), "prof-1", map[string]any{"phone": "", "fax": nil}, "doc-1")
	if err != nil {
		t.Fatalf("MergeFields() error = %v", err)
	}
	if changed {
		t.Fatalf("expected no change for empty candidates")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetManualFieldMarksRowEdited(t *testing.T) {
	repo, mock, done := newProfileRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO profile_fields").
		WithArgs("prof-1", "email", []byte(`"fixed@example.com"`), "manual:reviewer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetManualField(context.Background(), "prof-1", "email", "fixed@example.com", "reviewer"); err != nil {
		t.Fatalf("SetManualField() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetFieldsDecodesJSONValues(t *testing.T) {
	repo, mock, done := newProfileRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT name, value, document_id").
		WithArgs("prof-1").
		WillReturnRows(fieldRows().
			AddRow("full_name", []byte(`"John Doe"`), "doc-1", now, false).
			AddRow("salary", []byte(`12500.5`), "doc-2", now, false))

	fields, sources, err := repo.GetFields(context.Background(), "prof-1")
	if err != nil {
		t.Fatalf("GetFields() error = %v", err)
	}
	if fields["full_name"] != "John Doe" {
		t.Fatalf("unexpected full_name: %v", fields["full_name"])
	}
	if fields["salary"] != 12500.5 {
		t.Fatalf("unexpected salary: %v", fields["salary"])
	}
	if sources["full_name"].DocumentID != "doc-1" || sources["full_name"].ManuallyEdited {
		t.Fatalf("unexpected source: %+v", sources["full_name"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
