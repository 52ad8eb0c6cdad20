// internal/seed/seed.go
package seed

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

const (
	AdminUser     = "adminuser"
	TestUser      = "testuser"
	TestCommittee = "testcommittee"
)

// SeedData creates development users, a committee headed by the admin and a
// public charge. Seeded users log in through the local authenticator with
// password. It does nothing once the admin user exists.
func SeedData(ctx context.Context, repos *repository.Repositories, password string) error {
	existing, err := repos.UserRepo.FindByID(ctx, AdminUser)
	if err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if existing != nil {
		logger.Info("[Seed] Data already exists, skipping...")
		return nil
	}

	logger.Info("[Seed] Creating development data...")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	passwordHash := string(hash)

	users := []*repository.User{
		{ID: AdminUser, FirstName: "Admin", LastName: "User", Email: AdminUser + "@rit.edu", IsAdmin: true, PasswordHash: &passwordHash},
		{ID: TestUser, FirstName: "Test", LastName: "User", Email: TestUser + "@rit.edu", PasswordHash: &passwordHash},
	}
	for _, u := range users {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.ID, err)
		}
	}

	committee := &repository.Committee{
		ID:          TestCommittee,
		Title:       "Test Committee",
		Description: "Committee for local development.",
		Location:    "SAU",
		MeetingTime: "1300",
		MeetingDay:  2,
		HeadID:      AdminUser,
		Enabled:     true,
	}
	if err := repos.CommitteeRepo.Create(ctx, committee); err != nil {
		return fmt.Errorf("failed to create committee: %w", err)
	}

	if err := repos.MemberRepo.Add(ctx, &repository.Member{
		CommitteeID: TestCommittee,
		UserID:      TestUser,
		Role:        types.NormalMember,
	}); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	author := AdminUser
	charge := &repository.Charge{
		Title:       "Welcome charge",
		Description: "A public charge to explore the tracker.",
		CommitteeID: TestCommittee,
		AuthorID:    &author,
		Priority:    types.PriorityLow,
		Status:      types.ChargeUnapproved,
	}
	if err := repos.ChargeRepo.Create(ctx, charge); err != nil {
		return fmt.Errorf("failed to create charge: %w", err)
	}

	logger.Infof("[Seed] Created %d users, committee %s and charge %d", len(users), TestCommittee, charge.ID)
	return nil
}
