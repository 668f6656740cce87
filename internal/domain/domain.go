package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	CreatorID       = 1
	RowStatusNormal = "NORMAL"

	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid memo ID")
)

type Account struct {
	ID          string
	Username    string
	Acct        string
	DisplayName string
}

type Attachment struct {
	Type      string
	URL       string
	RemoteURL string
}

// Post is one upstream status after dialect normalization.
type Post struct {
	ID          string
	Account     Account
	CreatedAt   time.Time
	Content     string
	Text        string
	Attachments []Attachment
	Visibility  string
	Pinned      bool
}

type Resource struct {
	Type         string `json:"type"`
	Link         string `json:"link"`
	ExternalLink string `json:"externalLink"`
}

type Relation struct {
	Type     string `json:"type"`
	TargetID int64  `json:"targetId"`
}

type Memo struct {
	ID              int64      `json:"id"`
	CreatorID       int64      `json:"creatorId"`
	CreatorName     string     `json:"creatorName"`
	CreatorUsername string     `json:"creatorUsername"`
	CreatedTs       int64      `json:"createdTs"`
	UpdatedTs       int64      `json:"updatedTs"`
	DisplayTs       int64      `json:"displayTs"`
	Content         string     `json:"content"`
	ResourceList    []Resource `json:"resourceList"`
	RelationList    []Relation `json:"relationList"`
	Visibility      string     `json:"visibility"`
	Pinned          bool       `json:"pinned"`
	RowStatus       string     `json:"rowStatus"`
}

// MalformedPostError reports an upstream status that lacks a required field.
type MalformedPostError struct {
	PostID string
	Field  string
	Err    error
}

func (e *MalformedPostError) Error() string {
	msg := fmt.Sprintf("malformed upstream post (id = %q, field = %s)", e.PostID, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *MalformedPostError) Unwrap() error {
	return e.Err
}
