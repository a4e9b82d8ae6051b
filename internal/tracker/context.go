package tracker

import (
	"context"

	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/pkg/models"
)

// LoadContext fetches the tracker's allow-lists. Each list degrades to
// empty on failure; metadata filtering then drops everything rather than
// fabricating values, so a partially reachable tracker stays safe.
func LoadContext(ctx context.Context, t Tracker) models.TrackerContext {
	logger := logging.GetCurrentLogger()

	tc := models.TrackerContext{}

	labels, err := t.ListLabels(ctx)
	if err != nil {
		logger.Log("could not load labels, metadata filtering will drop all labels: %v", err)
	} else {
		tc.Labels = labels
	}

	milestones, err := t.ListMilestones(ctx)
	if err != nil {
		logger.Log("could not load milestones: %v", err)
	} else {
		tc.Milestones = milestones
	}

	collaborators, err := t.ListCollaborators(ctx)
	if err != nil {
		logger.Log("could not load collaborators: %v", err)
	} else {
		tc.Collaborators = collaborators
	}

	return tc
}
