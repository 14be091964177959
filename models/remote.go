package models

// RemoteQuote is a remote record after decoding and validation.
type RemoteQuote struct {
	ID         string `json:"id" validate:"max=200"`
	Text       string `json:"text" validate:"notblank,max=2000"`
	Category   string `json:"category" validate:"notblank,max=100"`
	ModifiedAt int64  `json:"modifiedAt" validate:"gte=0"`
}

// HasID reports whether the remote scheme supplied an identifier.
func (r RemoteQuote) HasID() bool {
	return r.ID != ""
}

// ContentKey returns the (text, category) pair of the remote record.
func (r RemoteQuote) ContentKey() ContentKey {
	return ContentKey{Text: r.Text, Category: r.Category}
}

// PushRecord is one element of the JSON array sent to the remote endpoint.
type PushRecord struct {
	Text     string `json:"text" validate:"notblank,max=2000"`
	Category string `json:"category" validate:"notblank,max=100"`
}

// PushResponse is returned by the stand-in server after a push. Clients must
// not rely on it.
type PushResponse struct {
	Created int `json:"created"`
}

// ImportRecord is one element of an imported quotes file.
type ImportRecord struct {
	ID       string `json:"id,omitempty" validate:"max=200"`
	Text     string `json:"text" validate:"notblank,max=2000"`
	Category string `json:"category" validate:"notblank,max=100"`
}

// ImportResult summarises an import run.
type ImportResult struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}
