// Package registry stores versioned model artifacts per league and the
// "active" pointer used by the predict path.
//
// Conventions:
//   - Artifacts are immutable once published; publishing appends a new
//     version, it never rewrites one in place.
//   - The active-pointer swap happens only after the artifact is fully
//     stored, so a concurrent reader never observes a half-published model.
package registry

import (
	"context"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

// Registry provides publish/read access to model artifacts.
type Registry interface {
	// Publish stores the artifact as the next version for its league and
	// atomically makes it active. Returns the assigned version number.
	Publish(ctx context.Context, leagueID int, artifact *train.Artifact) (int, error)

	// Active returns the league's active artifact. Returns ErrNotFound when
	// no model has been trained yet; callers degrade, they do not fail.
	Active(ctx context.Context, leagueID int) (*train.Artifact, error)

	// Versions returns the metadata of every published version in
	// publication order, for rollback and audit.
	Versions(ctx context.Context, leagueID int) ([]train.Metadata, error)
}
