package repository

import (
	"database/sql"

	"github.com/Ishtiak2/notes-app/models"
)

type NotesRepository struct {
	db *sql.DB
	// caseSensitiveSearch switches substring search from ILIKE to LIKE.
	// Default is case-insensitive.
	caseSensitiveSearch bool
}

func NewNotesRepository(db *sql.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

func (r *NotesRepository) WithCaseSensitiveSearch(enabled bool) *NotesRepository {
	r.caseSensitiveSearch = enabled
	return r
}

// GetNotes returns all notes owned by userID, newest first. A non-empty
// search restricts results to notes whose title or content contains it as a
// substring.
func (r *NotesRepository) GetNotes(userID int, search string) ([]*models.Note, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = $1`
	args := []interface{}{userID}

	if search != "" {
		op := "ILIKE"
		if r.caseSensitiveSearch {
			op = "LIKE"
		}
		query += ` AND (title ` + op + ` $2 OR content ` + op + ` $2)`
		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content,
			&note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// GetNoteByID fetches a single note. The (id, user_id) predicate makes a
// note owned by someone else indistinguishable from a missing one.
func (r *NotesRepository) GetNoteByID(userID, id int) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE id = $1 AND user_id = $2`, id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NotesRepository) CreateNote(userID int, title, content string) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		INSERT INTO notes (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, content, created_at, updated_at`,
		userID, title, content).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote overwrites title/content and refreshes updated_at in one
// statement scoped by (id, user_id). Returns nil when no owned row matched.
func (r *NotesRepository) UpdateNote(userID, id int, title, content string) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		UPDATE notes SET title = $1, content = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, title, content, created_at, updated_at`,
		title, content, id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes the owned row. Returns false when nothing was deleted,
// whether the note never existed or belongs to another user.
func (r *NotesRepository) DeleteNote(userID, id int) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM notes
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *NotesRepository) CountByUser(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notes
		WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
