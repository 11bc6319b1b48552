// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"recree/internal/apperrors"
	"recree/internal/taxonomy"
)

func errDuplicateID(id uuid.UUID) error {
	return apperrors.InvalidInput(fmt.Sprintf("id %s appears more than once", id))
}

func errForeignID(id uuid.UUID) error {
	return apperrors.InvalidInput(fmt.Sprintf("id %s does not belong to the sibling group being reordered", id))
}

func errPartialOrder(got, want int) error {
	return apperrors.InvalidInput(fmt.Sprintf("reorder must list all %d siblings, got %d", want, got))
}

// hierarchyError maps a placement failure to the application error shown
// to clients.
func hierarchyError(err error, parentID *uuid.UUID) error {
	switch {
	case errors.Is(err, taxonomy.ErrParentNotFound):
		return apperrors.NotFound("parent topic", parentID.String())
	case errors.Is(err, taxonomy.ErrCycle):
		return apperrors.InvalidHierarchy(err.Error(), err)
	case errors.Is(err, taxonomy.ErrDepthExceeded):
		return apperrors.InvalidHierarchy(
			fmt.Sprintf("%s: topics may be nested at most %d levels deep", err, taxonomy.MaxLevel+1), err)
	default:
		return err
	}
}
