package session

// Snapshot is the locally persisted solving state for one puzzle date.
// Letters mirrors the grid shape: nil for block cells, "" for empty
// letter cells.
type Snapshot struct {
	Date              string      `json:"date"`
	Letters           [][]*string `json:"letters,omitempty"`
	ElapsedSeconds    int         `json:"elapsedSeconds,omitempty"`
	CompletionSeconds *int        `json:"completionSeconds,omitempty"`
	HasStarted        bool        `json:"hasStarted,omitempty"`
	Revealed          bool        `json:"revealed,omitempty"`
}

// Partial is a field-wise snapshot update. Nil fields are left alone
// when merged, so every save only touches what actually changed.
type Partial struct {
	Letters           [][]*string
	ElapsedSeconds    *int
	CompletionSeconds *int
	HasStarted        *bool
	Revealed          *bool
}

// Apply merges a partial update into the snapshot, field by field.
func (s *Snapshot) Apply(p Partial) {
	if p.Letters != nil {
		s.Letters = p.Letters
	}
	if p.ElapsedSeconds != nil {
		s.ElapsedSeconds = *p.ElapsedSeconds
	}
	if p.CompletionSeconds != nil {
		s.CompletionSeconds = p.CompletionSeconds
	}
	if p.HasStarted != nil {
		s.HasStarted = *p.HasStarted
	}
	if p.Revealed != nil {
		s.Revealed = *p.Revealed
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
