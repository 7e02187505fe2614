package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Comment struct {
	ID          int64
	Comment     string
	WhenCreated time.Time
	LastEdited  *time.Time
	ProjectID   int64
	UserID      int64
}

// OwnerID satisfies the ownership policy: a comment belongs to its author.
func (c *Comment) OwnerID() int64 { return c.UserID }

const commentSelectCols = `id, comment, when_created, last_edited, project_id, user_id`

func scanComment(row interface{ Scan(...any) error }) (*Comment, error) {
	var c Comment
	var whenCreated, lastEdited any
	if err := row.Scan(&c.ID, &c.Comment, &whenCreated, &lastEdited, &c.ProjectID, &c.UserID); err != nil {
		return nil, err
	}
	c.WhenCreated = parseTime(whenCreated)
	c.LastEdited = parseTimePtr(lastEdited)
	return &c, nil
}

func scanComments(rows *sql.Rows) ([]*Comment, error) {
	var comments []*Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (db *DB) CreateComment(c *Comment) error {
	if c.WhenCreated.IsZero() {
		c.WhenCreated = time.Now()
	}
	id, err := db.insertID(`INSERT INTO comments (comment, when_created, last_edited, project_id, user_id) VALUES (?, ?, ?, ?, ?)`,
		c.Comment, db.dialect.TimeArg(c.WhenCreated), db.timePtrArg(c.LastEdited), c.ProjectID, c.UserID)
	if err != nil {
		return classify("create comment", err)
	}
	c.ID = id
	return nil
}

func (db *DB) UpdateComment(c *Comment) error {
	return classify("update comment", db.execOne(`UPDATE comments SET comment=?, last_edited=?, project_id=?, user_id=? WHERE id=?`,
		c.Comment, db.timePtrArg(c.LastEdited), c.ProjectID, c.UserID, c.ID))
}

func (db *DB) DeleteComment(id int64) error {
	return classify("delete comment", db.execOne(`DELETE FROM comments WHERE id=?`, id))
}

func (db *DB) GetComment(id int64) (*Comment, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM comments WHERE id=?`, commentSelectCols)), id)
	c, err := scanComment(row)
	if err != nil {
		return nil, classify("get comment", err)
	}
	return c, nil
}

func (db *DB) ListComments() ([]*Comment, error) {
	return db.queryComments("list comments", fmt.Sprintf(`SELECT %s FROM comments ORDER BY id`, commentSelectCols))
}

func (db *DB) ListCommentsByProject(projectID int64) ([]*Comment, error) {
	return db.queryComments("list comments by project",
		fmt.Sprintf(`SELECT %s FROM comments WHERE project_id=? ORDER BY id`, commentSelectCols), projectID)
}

func (db *DB) ListCommentsByUser(userID int64) ([]*Comment, error) {
	return db.queryComments("list comments by user",
		fmt.Sprintf(`SELECT %s FROM comments WHERE user_id=? ORDER BY id`, commentSelectCols), userID)
}

func (db *DB) queryComments(op, query string, args ...any) ([]*Comment, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	return scanComments(rows)
}
