package catalog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"captureserver/internal/logger"
	"captureserver/internal/repository/sqlite"
)

type stubProber struct {
	width, height int
	err           error
}

func (p stubProber) Dimensions([]byte) (int, int, error) {
	return p.width, p.height, p.err
}

func setupRepo(t *testing.T) *sqlite.CaptureRepository {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return sqlite.NewCaptureRepository(db)
}

func testEntry(name string) Entry {
	return Entry{
		Filename:    name,
		FilePath:    filepath.Join("files", name),
		ContentType: "image/jpeg",
		CapturedAt:  time.Date(2025, 6, 14, 9, 30, 5, 0, time.UTC),
		Data:        make([]byte, 2048),
	}
}

func TestService_Record(t *testing.T) {
	repo := setupRepo(t)
	svc := NewService(repo, stubProber{width: 800, height: 600}, logger.Discard())

	capture, err := svc.Record(testEntry("a.jpg"))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if capture.ID == 0 {
		t.Error("Expected assigned ID")
	}

	stored, err := repo.GetByFilename("a.jpg")
	if err != nil || stored == nil {
		t.Fatalf("GetByFilename = %v, %v", stored, err)
	}
	if stored.FileSize != 2048 || stored.Width != 800 || stored.Height != 600 {
		t.Errorf("Unexpected stored capture: %+v", stored)
	}
}

func TestService_RecordUndecodableFrame(t *testing.T) {
	repo := setupRepo(t)
	svc := NewService(repo, stubProber{err: errors.New("decoded image is empty")}, logger.Discard())

	capture, err := svc.Record(testEntry("b.jpg"))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if capture.Width != 0 || capture.Height != 0 {
		t.Errorf("Expected zero dimensions, got %dx%d", capture.Width, capture.Height)
	}
}

func TestService_RecordWithoutProber(t *testing.T) {
	svc := NewService(setupRepo(t), nil, logger.Discard())

	if _, err := svc.Record(testEntry("c.jpg")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
}

func TestService_RecordOverwrittenFile(t *testing.T) {
	repo := setupRepo(t)
	svc := NewService(repo, nil, logger.Discard())

	first, err := svc.Record(testEntry("d.jpg"))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	rewritten := testEntry("d.jpg")
	rewritten.Data = make([]byte, 16)
	second, err := svc.Record(rewritten)
	if err != nil {
		t.Fatalf("Record of rewritten file failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected the existing row %d to be reused, got %d", first.ID, second.ID)
	}

	stored, err := repo.GetByFilename("d.jpg")
	if err != nil || stored == nil {
		t.Fatalf("GetByFilename = %v, %v", stored, err)
	}
	if stored.FileSize != 16 {
		t.Errorf("Expected catalogued size to follow the file on disk (16), got %d", stored.FileSize)
	}

	count, err := repo.Count()
	if err != nil || count != 1 {
		t.Errorf("Count() = %d, %v; expected 1, nil", count, err)
	}
}
