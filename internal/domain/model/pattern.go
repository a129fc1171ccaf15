package model

// Pattern represents one crochet design row of the pattern catalog.
// Name is the unique lookup key within a catalog.
type Pattern struct {
	Name        string `json:"name"`
	YarnWeight  string `json:"yarn_weight"`           // required weight category, free text
	HookSize    Cell   `json:"hook_size,omitempty"`   // millimeters, may be blank
	Composition string `json:"composition,omitempty"` // recommended fibers, free text or "not specified"
	Difficulty  string `json:"difficulty,omitempty"`
	Structure   string `json:"structure,omitempty"`
	Stitches    string `json:"stitches,omitempty"` // comma-separated stitch names
	Materials   string `json:"materials,omitempty"`
	Colors      string `json:"colors,omitempty"`
	SourceFile  string `json:"source_file,omitempty"`
}
