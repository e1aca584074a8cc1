package http

import (
	"time"

	"messagely/internal/domain"
	"messagely/internal/storage"
)

type ProfileResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type UserResponse struct {
	ProfileResponse
	JoinAt      string  `json:"join_at"`
	LastLoginAt *string `json:"last_login_at"`
}

type SentMessageResponse struct {
	ID     int64           `json:"id"`
	ToUser ProfileResponse `json:"to_user"`
	Body   string          `json:"body"`
	SentAt string          `json:"sent_at"`
	ReadAt *string         `json:"read_at"`
}

type ReceivedMessageResponse struct {
	ID       int64           `json:"id"`
	FromUser ProfileResponse `json:"from_user"`
	Body     string          `json:"body"`
	SentAt   string          `json:"sent_at"`
	ReadAt   *string         `json:"read_at"`
}

type CreatedMessageResponse struct {
	ID           int64  `json:"id"`
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
	Body         string `json:"body"`
	SentAt       string `json:"sent_at"`
}

type MessageDetailResponse struct {
	ID       int64           `json:"id"`
	Body     string          `json:"body"`
	SentAt   string          `json:"sent_at"`
	ReadAt   *string         `json:"read_at"`
	FromUser ProfileResponse `json:"from_user"`
	ToUser   ProfileResponse `json:"to_user"`
}

type ReadReceiptResponse struct {
	ID     int64   `json:"id"`
	ReadAt *string `json:"read_at"`
}

type ExportResponse struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Messages int    `json:"messages"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := formatTime(*t)
	return &v
}

func profileToResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}
}

// participant falls back to a bare username when the profile was not joined in.
func participant(p *domain.Profile, username string) ProfileResponse {
	if p == nil {
		return ProfileResponse{Username: username}
	}
	return profileToResponse(*p)
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ProfileResponse: profileToResponse(u.Profile()),
		JoinAt:          formatTime(u.JoinedAt),
		LastLoginAt:     formatOptionalTime(u.LastLoginAt),
	}
}

func sentToResponse(m domain.Message) SentMessageResponse {
	return SentMessageResponse{
		ID:     m.ID,
		ToUser: participant(m.ToUser, m.ToUsername),
		Body:   m.Body,
		SentAt: formatTime(m.SentAt),
		ReadAt: formatOptionalTime(m.ReadAt),
	}
}

func receivedToResponse(m domain.Message) ReceivedMessageResponse {
	return ReceivedMessageResponse{
		ID:       m.ID,
		FromUser: participant(m.FromUser, m.FromUsername),
		Body:     m.Body,
		SentAt:   formatTime(m.SentAt),
		ReadAt:   formatOptionalTime(m.ReadAt),
	}
}

func createdToResponse(m domain.Message) CreatedMessageResponse {
	return CreatedMessageResponse{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       formatTime(m.SentAt),
	}
}

func detailToResponse(m domain.Message) MessageDetailResponse {
	return MessageDetailResponse{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   formatTime(m.SentAt),
		ReadAt:   formatOptionalTime(m.ReadAt),
		FromUser: participant(m.FromUser, m.FromUsername),
		ToUser:   participant(m.ToUser, m.ToUsername),
	}
}

func readToResponse(m domain.Message) ReadReceiptResponse {
	return ReadReceiptResponse{ID: m.ID, ReadAt: formatOptionalTime(m.ReadAt)}
}

func exportToResponse(e domain.Export) ExportResponse {
	return ExportResponse{
		Key:      e.Key,
		Location: e.Location,
		URL:      e.URL,
		Messages: e.Messages,
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
