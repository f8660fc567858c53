package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/state"
)

// FamilyMembers is the simulated remote service for family members
type FamilyMembers struct {
	base
}

func NewFamilyMembers(c *state.Container, opts Options) *FamilyMembers {
	return &FamilyMembers{base: newBase(c, opts, "family_member")}
}

func familyMemberID(m models.FamilyMember) string { return m.ID }

// Fetch returns the current family members after the simulated delay.
func (s *FamilyMembers) Fetch(ctx context.Context) (members []models.FamilyMember, err error) {
	start := time.Now()
	defer func() { s.observe("fetch", start, err) }()
	s.logger.Info("API: Fetching family members...")

	if err = s.fetch(ctx, func(st *models.AppState) *bool { return &st.IsLoadingFamilyMembers }); err != nil {
		s.logger.Info("API: Family members fetch discarded", zap.Error(err))
		return nil, err
	}

	s.logger.Info("API: Family members fetched successfully.")
	return s.container.Snapshot().FamilyMembers, nil
}

// Add creates a family member. Every contact gets a fresh id.
func (s *FamilyMembers) Add(ctx context.Context, in models.FamilyMemberInput) (member models.FamilyMember, err error) {
	start := time.Now()
	defer func() { s.observe("add", start, err) }()
	s.logger.Info("API: Adding family member...", zap.String("name", in.Name))

	if err = s.latency.Wait(ctx); err != nil {
		return models.FamilyMember{}, err
	}

	member = models.NewFamilyMember(in)
	err = s.container.Update(ctx, func(st *models.AppState) error {
		st.FamilyMembers = append(st.FamilyMembers, member)
		st.EditingFamilyMemberID = ""
		return nil
	})
	if err != nil {
		return models.FamilyMember{}, err
	}

	s.logger.Info("API: Family member added successfully.", zap.String("id", member.ID))
	return member, nil
}

// Update merges patch into the member. Contacts lacking an id get one.
func (s *FamilyMembers) Update(ctx context.Context, id string, patch models.FamilyMemberPatch) (member models.FamilyMember, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()
	s.logger.Info("API: Updating family member...", zap.String("id", id))

	if err = s.latency.Wait(ctx); err != nil {
		return models.FamilyMember{}, err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.FamilyMembers, id, familyMemberID)
		if i < 0 {
			return apperrors.NotFound("family member", id)
		}
		patch.Apply(&st.FamilyMembers[i])
		st.EditingFamilyMemberID = ""
		member = st.FamilyMembers[i]
		return nil
	})
	if err != nil {
		s.logger.Error("API: Error updating family member.", zap.String("id", id), zap.Error(err))
		return models.FamilyMember{}, err
	}

	s.logger.Info("API: Family member updated successfully.", zap.String("id", id))
	return member, nil
}

// Delete removes the member and reassigns everything that pointed at them
// to self in the same persisted update.
func (s *FamilyMembers) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()
	s.logger.Info("API: Deleting family member...", zap.String("id", id))

	if err = s.latency.Wait(ctx); err != nil {
		return err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.FamilyMembers, id, familyMemberID)
		if i < 0 {
			return apperrors.NotFound("family member", id)
		}
		st.FamilyMembers = append(st.FamilyMembers[:i], st.FamilyMembers[i+1:]...)
		reassignToSelf(st, id)
		if st.EditingFamilyMemberID == id {
			st.EditingFamilyMemberID = ""
		}
		return nil
	})
	if err != nil {
		s.logger.Error("API: Error deleting family member.", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("API: Family member deleted successfully.", zap.String("id", id))
	return nil
}

func reassignToSelf(st *models.AppState, memberID string) {
	for i := range st.Medications {
		if st.Medications[i].AssignedTo == memberID {
			st.Medications[i].AssignedTo = models.AssignedToSelf
		}
	}
	for i := range st.Appointments {
		if st.Appointments[i].AssignedTo == memberID {
			st.Appointments[i].AssignedTo = models.AssignedToSelf
		}
	}
	for i := range st.HealthRecords {
		if st.HealthRecords[i].AssignedTo == memberID {
			st.HealthRecords[i].AssignedTo = models.AssignedToSelf
		}
	}
}
