package events

// Event types delivered over the websocket stream.
const (
	TypeNoteCreated = "note.created"
	TypeNoteUpdated = "note.updated"
	TypeNoteDeleted = "note.deleted"
)

// NoteChanged is emitted to a note's owner whenever one of their notes is
// created, updated or deleted. Intentionally small and versionable; changes
// should be additive.
type NoteChanged struct {
	Type   string `json:"type"`
	NoteID int    `json:"noteId"`
}
