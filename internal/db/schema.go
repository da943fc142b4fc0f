package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Capabilities describes which optional moderation columns the comments
// table carries. It is resolved once at startup so deployments on the older
// schema keep working without per-write introspection.
type Capabilities struct {
	SupportsWarningFlag     bool
	SupportsModerationNotes bool
}

// ProbeCapabilities inspects the live schema for the optional moderation
// columns. A probe failure degrades to the base column set; it must never
// fail a submission.
func ProbeCapabilities(ctx context.Context, pool *pgxpool.Pool) Capabilities {
	rows, err := pool.Query(ctx, `
        SELECT column_name
        FROM information_schema.columns
        WHERE table_name = 'comments'
          AND column_name IN ('has_warning_flag', 'moderation_notes')`)
	if err != nil {
		slog.Warn("[Store] Capability probe failed, assuming base schema",
			slog.String("error", err.Error()))
		return Capabilities{}
	}
	defer rows.Close()

	var caps Capabilities
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		switch name {
		case "has_warning_flag":
			caps.SupportsWarningFlag = true
		case "moderation_notes":
			caps.SupportsModerationNotes = true
		}
	}

	return caps
}

// supportsModeration reports whether both optional columns are present; the
// annotated write path needs the pair.
func (c Capabilities) supportsModeration() bool {
	return c.SupportsWarningFlag && c.SupportsModerationNotes
}
