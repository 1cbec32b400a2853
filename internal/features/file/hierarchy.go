package file

import (
	"context"
	"errors"
	"fmt"
)

// HierarchyValidator decides whether a requested parentId may hold a new record.
type HierarchyValidator interface {
	Validate(ctx context.Context, parentID string) (ParentRef, error)
}

type HierarchyValidatorImpl struct {
	FileRepo FileRepository
}

func NewHierarchyValidator(fileRepo FileRepository) HierarchyValidator {
	return &HierarchyValidatorImpl{FileRepo: fileRepo}
}

// Validate resolves parentID to root or to an existing folder. The parent's
// owner is not compared with the caller.
func (v *HierarchyValidatorImpl) Validate(ctx context.Context, parentID string) (ParentRef, error) {
	ref, err := ParseParentRef(parentID)
	if err != nil {
		return Root, ErrParentNotFound
	}
	if ref.IsRoot() {
		return Root, nil
	}

	parent, err := v.FileRepo.FindByID(ctx, ref.FolderID())
	if errors.Is(err, ErrNotFound) {
		return Root, ErrParentNotFound
	}
	if err != nil {
		return Root, fmt.Errorf("lookup parent: %w", err)
	}
	if parent.Type != TypeFolder {
		return Root, ErrParentNotAFolder
	}
	return ParentFolder(parent.ID), nil
}
