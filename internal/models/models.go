package models

import (
	"time"

	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

// ============================================
// Auth DTOs
// ============================================

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

func NewUserResponse(u *repository.User) UserResponse {
	return UserResponse{
		Username:  u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}
}

// ============================================
// Committee DTOs
// ============================================

type CommitteeResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	MeetingTime string  `json:"meeting_time"`
	MeetingDay  int     `json:"meeting_day"`
	Head        string  `json:"head"`
	HeadName    string  `json:"head_name"`
	Image       *string `json:"committee_img"`
	Enabled     bool    `json:"enabled"`
}

func NewCommitteeResponse(c *repository.Committee) CommitteeResponse {
	return CommitteeResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		MeetingTime: c.MeetingTime,
		MeetingDay:  c.MeetingDay,
		Head:        c.HeadID,
		HeadName:    c.HeadName,
		Image:       c.Image,
		Enabled:     c.Enabled,
	}
}

func NewCommitteeList(cs []*repository.Committee) []CommitteeResponse {
	out := make([]CommitteeResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCommitteeResponse(c))
	}
	return out
}

// ============================================
// Charge DTOs
// ============================================

type ChargeResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Committee    string    `json:"committee"`
	Author       *string   `json:"author"`
	Priority     int       `json:"priority"`
	Status       int       `json:"status"`
	Private      bool      `json:"private"`
	PawLinks     string    `json:"paw_links"`
	Objectives   []string  `json:"objectives"`
	Schedule     []string  `json:"schedule"`
	Resources    []string  `json:"resources"`
	Stakeholders []string  `json:"stakeholders"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewChargeResponse(c *repository.Charge) ChargeResponse {
	return ChargeResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Committee:    c.CommitteeID,
		Author:       c.AuthorID,
		Priority:     int(c.Priority),
		Status:       int(c.Status),
		Private:      c.Private,
		PawLinks:     c.PawLinks,
		Objectives:   orEmpty(c.Objectives),
		Schedule:     orEmpty(c.Schedule),
		Resources:    orEmpty(c.Resources),
		Stakeholders: orEmpty(c.Stakeholders),
		CreatedAt:    c.CreatedAt,
	}
}

func NewChargeList(cs []*repository.Charge) []ChargeResponse {
	out := make([]ChargeResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewChargeResponse(c))
	}
	return out
}

type ProgressNoteResponse struct {
	ID        int64     `json:"id"`
	Charge    int64     `json:"charge"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewProgressNoteList(ns []*repository.ProgressNote) []ProgressNoteResponse {
	out := make([]ProgressNoteResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, ProgressNoteResponse{
			ID:        n.ID,
			Charge:    n.ChargeID,
			Author:    n.AuthorID,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

// ============================================
// Action DTOs
// ============================================

type ActionResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Charge      int64     `json:"charge"`
	Author      *string   `json:"author"`
	AssignedTo  *string   `json:"assigned_to"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewActionResponse(a *repository.Action) ActionResponse {
	return ActionResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Charge:      a.ChargeID,
		Author:      a.AuthorID,
		AssignedTo:  a.AssignedTo,
		Status:      int(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

func NewActionList(as []*repository.Action) []ActionResponse {
	out := make([]ActionResponse, 0, len(as))
	for _, a := range as {
		out = append(out, NewActionResponse(a))
	}
	return out
}

// ============================================
// Note DTOs
// ============================================

type NoteResponse struct {
	ID          int64     `json:"id"`
	Action      int64     `json:"action"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Hidden      bool      `json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewNoteResponse reports the author by username.
func NewNoteResponse(n *repository.Note) NoteResponse {
	return NoteResponse{
		ID:          n.ID,
		Action:      n.ActionID,
		Author:      n.AuthorID,
		Description: n.Description,
		Hidden:      n.Hidden,
		CreatedAt:   n.CreatedAt,
	}
}

// NewNoteList reports authors by full name, falling back to the username.
func NewNoteList(ns []*repository.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(ns))
	for _, n := range ns {
		r := NewNoteResponse(n)
		if n.AuthorName != "" {
			r.Author = n.AuthorName
		}
		out = append(out, r)
	}
	return out
}

type CommitteeNoteResponse struct {
	ID          int64     `json:"id"`
	Author      string    `json:"author"`
	Committee   string    `json:"committee"`
	Description string    `json:"description"`
	Hidden      bool      `json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCommitteeNoteResponse(n *repository.CommitteeNote) CommitteeNoteResponse {
	return CommitteeNoteResponse{
		ID:          n.ID,
		Author:      n.AuthorID,
		Committee:   n.CommitteeID,
		Description: n.Description,
		Hidden:      n.Hidden,
		CreatedAt:   n.CreatedAt,
	}
}

func NewCommitteeNoteList(ns []*repository.CommitteeNote) []CommitteeNoteResponse {
	out := make([]CommitteeNoteResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, NewCommitteeNoteResponse(n))
	}
	return out
}

// ============================================
// Minute DTOs
// ============================================

type MinuteChargeResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type MinuteResponse struct {
	ID          int64                  `json:"id"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	Date        int64                  `json:"date"`
	Private     bool                   `json:"private"`
	CommitteeID string                 `json:"committee_id"`
	Charges     []MinuteChargeResponse `json:"charges"`
}

func NewMinuteResponse(m *repository.Minute) MinuteResponse {
	charges := make([]MinuteChargeResponse, 0, len(m.Charges))
	for _, c := range m.Charges {
		charges = append(charges, MinuteChargeResponse{ID: c.ID, Title: c.Title})
	}
	return MinuteResponse{
		ID:          m.ID,
		Title:       m.Title,
		Body:        m.Body,
		Date:        m.Date,
		Private:     m.Private,
		CommitteeID: m.CommitteeID,
		Charges:     charges,
	}
}

func NewMinuteList(ms []*repository.Minute) []MinuteResponse {
	out := make([]MinuteResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMinuteResponse(m))
	}
	return out
}

// ============================================
// Notification DTOs
// ============================================

type NotificationResponse struct {
	ID          int64  `json:"id"`
	User        string `json:"user"`
	Type        string `json:"type"`
	Destination string `json:"destination"`
	Viewed      bool   `json:"viewed"`
	Message     string `json:"message"`
	Redirect    string `json:"redirect"`
}

func NewNotificationList(ns []*repository.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationResponse{
			ID:          n.ID,
			User:        n.UserID,
			Type:        string(n.Type),
			Destination: n.Destination,
			Viewed:      n.Viewed,
			Message:     n.Message,
			Redirect:    n.Redirect,
		})
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
