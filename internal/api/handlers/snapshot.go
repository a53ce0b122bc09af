package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/snapshot"
	"github.com/jstittsworth/ffdecision/pkg/utils"
)

type SnapshotHandler struct {
	deps *Deps
}

func NewSnapshotHandler(deps *Deps) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// GetFeedSnapshot handles GET /leagues/:id/snapshots/:feed, returning
// the stored feed history (C2) for the requested week, or the as-of
// resolved record when an `as_of` query timestamp is given.
func (h *SnapshotHandler) GetFeedSnapshot(c *gin.Context) {
	_, leagueID, ok := h.deps.loadLeague(c)
	if !ok {
		return
	}

	feedName := c.Param("feed")
	if !validFeedDomain(feedName) {
		utils.SendValidationError(c, "unknown feed domain", feedName)
		return
	}
	week := weekParam(c, 0)
	if week <= 0 {
		utils.SendValidationError(c, "week query parameter is required", "")
		return
	}

	if asOf := c.Query("as_of"); asOf != "" {
		queryTime, err := time.Parse(time.RFC3339, asOf)
		if err != nil {
			utils.SendValidationError(c, "as_of must be RFC3339", err.Error())
			return
		}
		env, err := h.deps.Snapshots.AsOf(leagueID, h.deps.Year, week, feedName, queryTime, snapshotPolicy(c))
		if err != nil {
			utils.SendNotFound(c, err.Error())
			return
		}
		utils.SendSuccess(c, env)
		return
	}

	records, err := h.deps.Snapshots.Read(leagueID, h.deps.Year, week, feedName, time.Now().UTC())
	if err != nil {
		utils.SendInternalError(c, err.Error())
		return
	}
	utils.SendSuccess(c, records)
}

func snapshotPolicy(c *gin.Context) snapshot.ResolutionPolicy {
	if c.Query("policy") == "degrade_warn" {
		return snapshot.PolicyDegradeWarn
	}
	return snapshot.PolicyBackwardPublishTime
}

func validFeedDomain(name string) bool {
	for _, d := range models.AllFeedDomains() {
		if string(d) == name {
			return true
		}
	}
	return false
}
