package services

import (
	"errors"
	"fmt"

	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/repository"
)

var ErrInvalidPartnerTag = errors.New("partner tags must reference your own connections")

// VisibilityResolver computes which workouts a user may see or modify.
//
// A workout tags Connection records, and each tagged record is owned by the
// workout owner, not by the partner it grants access to. A user therefore
// appears in someone else's workout through connections where they are the
// linked user, not the owner. The resolver looks up those IDs and matches
// them against a workout's tag set.
type VisibilityResolver struct {
	connRepo repository.ConnectionRepository
}

// NewVisibilityResolver creates a new VisibilityResolver.
func NewVisibilityResolver(connRepo repository.ConnectionRepository) *VisibilityResolver {
	return &VisibilityResolver{connRepo: connRepo}
}

// MyConnectionIDs returns the connection IDs through which workouts become
// visible to the user.
func (v *VisibilityResolver) MyConnectionIDs(userID uint64) ([]uint64, error) {
	ids, err := v.connRepo.IDsLinkedToUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve linked connections: %w", err)
	}
	return ids, nil
}

// ValidateTags checks that every connection ID is eligible for tagging by
// the owner, meaning it references one of the owner's own connection records.
func (v *VisibilityResolver) ValidateTags(ownerID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	owned, err := v.connRepo.IDsOwnedBy(ownerID, ids)
	if err != nil {
		return fmt.Errorf("failed to validate partner tags: %w", err)
	}

	ownedSet := make(map[uint64]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := ownedSet[id]; !ok {
			return ErrInvalidPartnerTag
		}
	}
	return nil
}

// IsOwner reports whether the user owns the workout.
func (v *VisibilityResolver) IsOwner(userID uint64, workout *models.Workout) bool {
	return workout.UserID == userID
}

// Access resolves the user's standing on a workout. The workout's Partners
// relation must be loaded. A partner may edit and delete the workout but not
// change its tag set; only the owner may do that.
func (v *VisibilityResolver) Access(userID uint64, workout *models.Workout) (isOwner, isPartner bool, err error) {
	if v.IsOwner(userID, workout) {
		return true, false, nil
	}

	myIDs, err := v.MyConnectionIDs(userID)
	if err != nil {
		return false, false, err
	}

	mine := make(map[uint64]struct{}, len(myIDs))
	for _, id := range myIDs {
		mine[id] = struct{}{}
	}

	for _, tag := range workout.Partners {
		if _, ok := mine[tag.ConnectionID]; ok {
			return false, true, nil
		}
	}

	return false, false, nil
}
