package models

import "github.com/Marga-Ghale/charge-tracker/internal/repository"

// ============================================
// Member DTOs
// ============================================

type MemberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type MembersResponse struct {
	CommitteeID string           `json:"committee_id"`
	Members     []MemberResponse `json:"members"`
}

func NewMembersResponse(committeeID string, members []*repository.Member) MembersResponse {
	out := MembersResponse{CommitteeID: committeeID, Members: make([]MemberResponse, 0, len(members))}
	for _, m := range members {
		name := m.UserID
		if m.User != nil && m.User.FullName() != "" {
			name = m.User.FullName()
		}
		out.Members = append(out.Members, MemberResponse{ID: m.UserID, Name: name, Role: string(m.Role)})
	}
	return out
}
