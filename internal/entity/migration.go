package entity

import (
	"context"

	"github.com/questx-lab/reactrole/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&ReactionRoleGroup{},
		&ReactionBinding{},
		&Idempotency{},
	)
}
