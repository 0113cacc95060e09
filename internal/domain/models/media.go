package models

// Media is the metadata of an uploaded file attached to a key, taxon, character or state
type Media struct {
	ID       string       `json:"id"`
	FileName string       `json:"fileName,omitempty"`
	Title    Translations `json:"title,omitempty"`
	Creators []string     `json:"creators,omitempty"`
	License  string       `json:"license,omitempty"`
}

// MediaEntity is the kind of object media is attached to
type MediaEntity string

const (
	MediaEntityKey       MediaEntity = "key"
	MediaEntityTaxon     MediaEntity = "taxon"
	MediaEntityCharacter MediaEntity = "character"
	MediaEntityState     MediaEntity = "state"
)

// Valid reports whether e is a known media entity
func (e MediaEntity) Valid() bool {
	switch e {
	case MediaEntityKey, MediaEntityTaxon, MediaEntityCharacter, MediaEntityState:
		return true
	}
	return false
}
