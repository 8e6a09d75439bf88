package models

// Field names of the profile document, shared by every store backend.
const (
	FieldName      = "name"
	FieldBio       = "bio"
	FieldLocation  = "location"
	FieldUpdatedAt = "updatedAt"
)

const (
	MaxNameLength     = 50
	MaxBioLength      = 200
	MaxLocationLength = 50
)

// Profile is a schema-flexible user document keyed by the owner's email.
// Fields written by other parts of the product are passed through untouched.
type Profile map[string]interface{}

// UpdateProfileRequest is the PUT body. Nil means the key was absent.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}
