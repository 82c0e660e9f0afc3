package entity

// Blob metadata keys. A blob with neither MetaEntityType nor
// MetaEntityID is unassociated and belongs to the uploader recorded
// under MetaUserID; association to an entity supersedes raw ownership.
const (
	MetaEntityType = "entity-type"
	MetaEntityID   = "entity-id"
	MetaUserID     = "user-id"
)

// EntityTypeExpense marks a blob as attached to an expense.
const EntityTypeExpense = "expense"

// FileMetadata is the opaque metadata map carried on a blob path.
type FileMetadata map[string]string

// Associated reports whether the metadata links the blob to an entity.
func (m FileMetadata) Associated() bool {
	return m[MetaEntityType] != "" || m[MetaEntityID] != ""
}
