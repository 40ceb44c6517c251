package models

// SummaryModel is one row of the precomputed summary dataset. It is not a
// database table: rows are loaded from CSV at startup and never written.
type SummaryModel struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary"`
	Sentiment  string            `json:"sentiment,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}
