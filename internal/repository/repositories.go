package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo          UserRepository
	CommitteeRepo     CommitteeRepository
	MemberRepo        MemberRepository
	ChargeRepo        ChargeRepository
	ActionRepo        ActionRepository
	NoteRepo          NoteRepository
	CommitteeNoteRepo CommitteeNoteRepository
	MinuteRepo        MinuteRepository
	InvitationRepo    InvitationRepository
	NotificationRepo  NotificationRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:          NewUserRepository(pool),
		CommitteeRepo:     NewCommitteeRepository(pool),
		MemberRepo:        NewMemberRepository(pool),
		ChargeRepo:        NewChargeRepository(pool),
		ActionRepo:        NewActionRepository(pool),
		NoteRepo:          NewNoteRepository(pool),
		CommitteeNoteRepo: NewCommitteeNoteRepository(pool),
		MinuteRepo:        NewMinuteRepository(pool),
		InvitationRepo:    NewInvitationRepository(pool),
		NotificationRepo:  NewNotificationRepository(pool),
	}
}
