package store

import (
	"time"
)

// DrawingFile is the metadata of the document attached to a drawing. The
// bytes live in the blob store under ObjectKey.
type DrawingFile struct {
	DrawingID   int64
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	SHA256      string
	UploadedBy  string
	UploadedAt  time.Time
}

const drawingFileSelectCols = `drawing_id, object_key, content_type, size_bytes, sha256, uploaded_by, uploaded_at`

func scanDrawingFile(row interface{ Scan(...any) error }) (*DrawingFile, error) {
	var f DrawingFile
	var uploadedAt any
	if err := row.Scan(&f.DrawingID, &f.ObjectKey, &f.ContentType, &f.SizeBytes, &f.SHA256, &f.UploadedBy, &uploadedAt); err != nil {
		return nil, err
	}
	f.UploadedAt = parseTime(uploadedAt)
	return &f, nil
}

// PutDrawingFile records f, replacing any earlier file for the same drawing.
func (db *DB) PutDrawingFile(f *DrawingFile) error {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	_, err := db.Exec(db.Q(`INSERT INTO drawing_files (drawing_id, object_key, content_type, size_bytes, sha256, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (drawing_id) DO UPDATE SET object_key=excluded.object_key, content_type=excluded.content_type,
			size_bytes=excluded.size_bytes, sha256=excluded.sha256, uploaded_by=excluded.uploaded_by, uploaded_at=excluded.uploaded_at`),
		f.DrawingID, f.ObjectKey, f.ContentType, f.SizeBytes, f.SHA256, f.UploadedBy, db.dialect.TimeArg(f.UploadedAt))
	return classify("put drawing file", err)
}

func (db *DB) GetDrawingFile(drawingID int64) (*DrawingFile, error) {
	row := db.QueryRow(db.Q(`SELECT `+drawingFileSelectCols+` FROM drawing_files WHERE drawing_id=?`), drawingID)
	f, err := scanDrawingFile(row)
	if err != nil {
		return nil, classify("get drawing file", err)
	}
	return f, nil
}

func (db *DB) DeleteDrawingFile(drawingID int64) error {
	return classify("delete drawing file", db.execOne(`DELETE FROM drawing_files WHERE drawing_id=?`, drawingID))
}

// ListProjectFileKeys returns the object keys of every file attached to a
// drawing of the project, so they can be removed before the project goes.
func (db *DB) ListProjectFileKeys(projectID int64) ([]string, error) {
	rows, err := db.Query(db.Q(`SELECT f.object_key FROM drawing_files f JOIN drawings d ON d.id = f.drawing_id WHERE d.project_id=? ORDER BY f.drawing_id`), projectID)
	if err != nil {
		return nil, classify("list project file keys", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
