package vk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

type envelope struct {
	Response      json.RawMessage `json:"response"`
	Error         *apiErrorWire   `json:"error"`
	ExecuteErrors []apiErrorWire  `json:"execute_errors"`
}

type apiErrorWire struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

type wallResponse struct {
	Count *int       `json:"count"`
	Items []postWire `json:"items"`
}

type counterWire struct {
	Count int `json:"count"`
}

type postWire struct {
	ID          *int64           `json:"id"`
	OwnerID     int64            `json:"owner_id"`
	Date        *int64           `json:"date"`
	Text        string           `json:"text"`
	IsPinned    int              `json:"is_pinned"`
	Likes       counterWire      `json:"likes"`
	Comments    counterWire      `json:"comments"`
	Reposts     counterWire      `json:"reposts"`
	Attachments []attachmentWire `json:"attachments"`
}

// attachmentWire decodes {"type": "photo", "photo": {...}}: the payload key
// is named after the type.
type attachmentWire struct {
	Type string
	ID   string
	URL  string
}

func (a *attachmentWire) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	typeRaw, ok := raw["type"]
	if !ok {
		return fmt.Errorf("attachment without type")
	}
	if err := json.Unmarshal(typeRaw, &a.Type); err != nil {
		return err
	}
	body, ok := raw[a.Type]
	if !ok {
		return nil
	}
	var obj struct {
		ID  json.RawMessage `json:"id"`
		URL string          `json:"url"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return err
	}
	if id := bytes.TrimSpace(obj.ID); len(id) > 0 && !bytes.Equal(id, []byte("null")) {
		a.ID = strings.Trim(string(id), `"`)
	}
	a.URL = obj.URL
	return nil
}

func (p postWire) toModel() (model.Post, error) {
	if p.ID == nil || p.Date == nil {
		return model.Post{}, fmt.Errorf("%w: post without id or date", model.ErrMalformedResponse)
	}
	post := model.Post{
		ID:       *p.ID,
		OwnerID:  p.OwnerID,
		Date:     *p.Date,
		Text:     p.Text,
		Likes:    p.Likes.Count,
		Comments: p.Comments.Count,
		Reposts:  p.Reposts.Count,
		IsPinned: p.IsPinned == 1,
	}
	if len(p.Attachments) > 0 {
		post.Attachments = make([]model.Attachment, 0, len(p.Attachments))
		for _, a := range p.Attachments {
			post.Attachments = append(post.Attachments, model.Attachment{Type: a.Type, ID: a.ID, URL: a.URL})
		}
	}
	return post, nil
}

func toPosts(items []postWire) ([]model.Post, error) {
	posts := make([]model.Post, 0, len(items))
	for _, item := range items {
		post, err := item.toModel()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
