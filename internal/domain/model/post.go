package model

import "strings"

// Post is a single wall entry as returned by wall.get.
type Post struct {
	ID          int64
	OwnerID     int64
	Date        int64
	Text        string
	Likes       int
	Comments    int
	Reposts     int
	Attachments []Attachment
	IsPinned    bool
}

type Attachment struct {
	Type string
	ID   string
	URL  string
}

// Identifier returns the native id of the attached object, its url when the
// object has no id, and the attachment type as a last resort.
func (a Attachment) Identifier() string {
	if a.ID != "" {
		return a.ID
	}
	if a.URL != "" {
		return a.URL
	}
	return a.Type
}

// AttachmentIdentifiers joins attachment identifiers with spaces.
// A post without attachments yields "None".
func (p Post) AttachmentIdentifiers() string {
	if len(p.Attachments) == 0 {
		return "None"
	}
	ids := make([]string, 0, len(p.Attachments))
	for _, a := range p.Attachments {
		ids = append(ids, a.Identifier())
	}
	return strings.Join(ids, " ")
}

// WallPage is the answer of a single-page read.
type WallPage struct {
	Count int
	Items []Post
}

// BatchResult holds the pages read by one server-side script starting at Offset.
type BatchResult struct {
	Offset int
	Pages  [][]Post
}

func (b BatchResult) Len() int {
	n := 0
	for _, page := range b.Pages {
		n += len(page)
	}
	return n
}

// Record is the flat per-post row handed to the record sink.
type Record struct {
	ID                int64
	Text              string
	Attachments       string
	AttachmentsAmount int
	Comments          int
	Likes             int
	Reposts           int
}

func NewRecord(p Post) Record {
	return Record{
		ID:                p.ID,
		Text:              p.Text,
		Attachments:       p.AttachmentIdentifiers(),
		AttachmentsAmount: len(p.Attachments),
		Comments:          p.Comments,
		Likes:             p.Likes,
		Reposts:           p.Reposts,
	}
}
