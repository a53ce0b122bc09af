// Package providers implements the league-context data source: an
// ESPN private-league fantasy football client that turns a league's
// roster, schedule, and scoring history into the models.LeagueContext
// every other component (C1-C8) operates on.
package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/sirupsen/logrus"
)

// LeagueCache is the narrow caching surface the ESPN client needs —
// satisfied by services.CacheService's SetSimple/GetSimple pair.
type LeagueCache interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}

// ESPNClient fetches a private fantasy football league's roster,
// schedule, and matchup history from ESPN's fantasy API.
type ESPNClient struct {
	httpClient *http.Client
	cache      LeagueCache
	logger     *logrus.Logger
	swid       string
	espnS2     string
}

func NewESPNClient(cache LeagueCache, logger *logrus.Logger, swid, espnS2 string) *ESPNClient {
	return &ESPNClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		logger:     logger,
		swid:       swid,
		espnS2:     espnS2,
	}
}

type espnLeagueResponse struct {
	Teams []struct {
		ID     int `json:"id"`
		Record struct {
			Overall struct {
				Wins        int     `json:"wins"`
				Losses      int     `json:"losses"`
				PointsFor   float64 `json:"pointsFor"`
			} `json:"overall"`
		} `json:"record"`
		Name  string `json:"name"`
		Roster struct {
			Entries []struct {
				PlayerPoolEntry struct {
					Player espnPlayer `json:"player"`
				} `json:"playerPoolEntry"`
				LineupSlotID int `json:"lineupSlotId"`
			} `json:"entries"`
		} `json:"roster"`
	} `json:"teams"`
	Schedule []struct {
		MatchupPeriodID int `json:"matchupPeriodId"`
		Home            struct {
			TeamID         int     `json:"teamId"`
			TotalPoints    float64 `json:"totalPoints"`
		} `json:"home"`
		Away struct {
			TeamID      int     `json:"teamId"`
			TotalPoints float64 `json:"totalPoints"`
		} `json:"away"`
	} `json:"schedule"`
	Settings struct {
		ScheduleSettings struct {
			MatchupPeriodCount int `json:"matchupPeriodCount"`
			PlayoffTeamCount   int `json:"playoffTeamCount"`
		} `json:"scheduleSettings"`
	} `json:"settings"`
	ScoringPeriodID int `json:"scoringPeriodId"`
}

type espnPlayer struct {
	ID                  int     `json:"id"`
	FullName            string  `json:"fullName"`
	DefaultPositionID   int     `json:"defaultPositionId"`
	ProTeamID           int     `json:"proTeamId"`
	InjuryStatus        string  `json:"injuryStatus"`
	EligibleSlots       []int   `json:"eligibleSlots"`
	Ownership           struct {
		PercentStarted float64 `json:"percentStarted"`
		PercentOwned   float64 `json:"percentOwned"`
	} `json:"ownership"`
	Stats []struct {
		ScoringPeriodID int                `json:"scoringPeriodId"`
		StatSourceID    int                `json:"statSourceId"`
		AppliedTotal    float64            `json:"appliedTotal"`
	} `json:"stats"`
}

var espnPositionNames = map[int]string{
	0: "QB", 2: "RB", 4: "WR", 6: "TE", 16: "D/ST", 17: "K",
}

var espnSlotNames = map[int]string{
	0: "QB", 2: "RB", 4: "WR", 6: "TE", 16: "D/ST", 17: "K", 23: "FLEX", 20: "BE", 21: "IR",
}

// FetchLeagueContext fetches the full league snapshot (rosters,
// schedule, scoring) for the given league/year, honoring ESPN's private
// league cookies when set. Results are cached for five minutes — ESPN's
// fantasy endpoint is not rate-limit-friendly for per-request calls
// from a Monte Carlo loop.
func (c *ESPNClient) FetchLeagueContext(leagueID, year int) (models.LeagueContext, error) {
	cacheKey := fmt.Sprintf("espn:league:%d:%d", leagueID, year)
	var cached models.LeagueContext
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	url := fmt.Sprintf("https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl/seasons/%d/segments/0/leagues/%d"+
		"?view=mRoster&view=mTeam&view=mMatchup&view=mSettings", year, leagueID)

	var resp espnLeagueResponse
	if err := c.makeRequest(url, &resp); err != nil {
		return models.LeagueContext{}, fmt.Errorf("fetch espn league: %w", err)
	}

	league := c.toLeagueContext(leagueID, year, resp)
	c.cache.SetSimple(cacheKey, league, 5*time.Minute)
	return league, nil
}

func (c *ESPNClient) toLeagueContext(leagueID, year int, resp espnLeagueResponse) models.LeagueContext {
	teams := make([]models.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		teamID := fmt.Sprintf("%d", t.ID)
		teams = append(teams, models.Team{
			ID:        teamID,
			Name:      t.Name,
			Wins:      t.Record.Overall.Wins,
			Losses:    t.Record.Overall.Losses,
			PointsFor: t.Record.Overall.PointsFor,
			Roster:    c.toRoster(t.Roster.Entries, resp.ScoringPeriodID),
		})
	}

	scheduleByTeam := c.toSchedules(resp.Schedule, resp.Settings.ScheduleSettings.MatchupPeriodCount)
	outcomesByTeam := c.toOutcomes(resp.Schedule)
	scoresByTeam := c.toScores(resp.Schedule)
	for i := range teams {
		teams[i].Schedule = scheduleByTeam[teams[i].ID]
		teams[i].Outcomes = outcomesByTeam[teams[i].ID]
		teams[i].Scores = scoresByTeam[teams[i].ID]
	}

	return models.LeagueContext{
		LeagueID:         leagueID,
		Year:             year,
		CurrentWeek:      resp.ScoringPeriodID,
		RegSeasonCount:   resp.Settings.ScheduleSettings.MatchupPeriodCount,
		PlayoffTeamCount: resp.Settings.ScheduleSettings.PlayoffTeamCount,
		Teams:            teams,
		SyncedAt:         time.Now().UTC(),
	}
}

func (c *ESPNClient) toRoster(entries []struct {
	PlayerPoolEntry struct {
		Player espnPlayer `json:"player"`
	} `json:"playerPoolEntry"`
	LineupSlotID int `json:"lineupSlotId"`
}, currentWeek int) []models.Player {
	roster := make([]models.Player, 0, len(entries))
	for _, e := range entries {
		p := e.PlayerPoolEntry.Player
		stats := make(map[int]models.WeeklyStat, len(p.Stats))
		var total float64
		var games int
		for _, s := range p.Stats {
			if s.StatSourceID != 0 {
				continue // projections live under a different source ID
			}
			stats[s.ScoringPeriodID] = models.WeeklyStat{WeekID: s.ScoringPeriodID, Points: s.AppliedTotal}
			if s.ScoringPeriodID < currentWeek {
				total += s.AppliedTotal
				games++
			}
		}
		avg := 0.0
		if games > 0 {
			avg = total / float64(games)
		}

		eligible := make([]string, 0, len(p.EligibleSlots))
		for _, slotID := range p.EligibleSlots {
			if name, ok := espnSlotNames[slotID]; ok {
				eligible = append(eligible, name)
			}
		}

		roster = append(roster, models.Player{
			ID:             fmt.Sprintf("%d", p.ID),
			Name:           p.FullName,
			Position:       espnPositionNames[p.DefaultPositionID],
			TeamID:         fmt.Sprintf("%d", p.ProTeamID),
			AvgPoints:      avg,
			PercentStarted: p.Ownership.PercentStarted,
			PercentOwned:   p.Ownership.PercentOwned,
			InjuryStatus:   p.InjuryStatus,
			EligibleSlots:  eligible,
			Stats:          stats,
		})
	}
	return roster
}

func (c *ESPNClient) toSchedules(schedule []struct {
	MatchupPeriodID int `json:"matchupPeriodId"`
	Home            struct {
		TeamID      int     `json:"teamId"`
		TotalPoints float64 `json:"totalPoints"`
	} `json:"home"`
	Away struct {
		TeamID      int     `json:"teamId"`
		TotalPoints float64 `json:"totalPoints"`
	} `json:"away"`
}, weeks int) map[string][]string {
	out := make(map[string][]string)
	for _, m := range schedule {
		homeID := fmt.Sprintf("%d", m.Home.TeamID)
		awayID := fmt.Sprintf("%d", m.Away.TeamID)
		setSchedule(out, homeID, m.MatchupPeriodID, weeks, awayID)
		setSchedule(out, awayID, m.MatchupPeriodID, weeks, homeID)
	}
	return out
}

func setSchedule(out map[string][]string, teamID string, week, totalWeeks int, opponentID string) {
	if _, ok := out[teamID]; !ok {
		out[teamID] = make([]string, totalWeeks)
	}
	if week >= 1 && week <= totalWeeks {
		out[teamID][week-1] = opponentID
	}
}

func (c *ESPNClient) toOutcomes(schedule []struct {
	MatchupPeriodID int `json:"matchupPeriodId"`
	Home            struct {
		TeamID      int     `json:"teamId"`
		TotalPoints float64 `json:"totalPoints"`
	} `json:"home"`
	Away struct {
		TeamID      int     `json:"teamId"`
		TotalPoints float64 `json:"totalPoints"`
	} `json:"away"`
}) map[string][]string {
	out := make(map[string][]string)
	for _, m := range schedule {
		homeID := fmt.Sprintf("%d", m.Home.TeamID)
		awayID := fmt.Sprintf("%d", m.Away.TeamID)
		if m.Home.TotalPoints == 0 && m.Away.TotalPoints == 0 {
			out[homeID] = append(out[homeID], "U")
			out[awayID] = append(out[awayID], "U")
			continue
		}
		if m.Home.TotalPoints > m.Away.TotalPoints {
			out[homeID] = append(out[homeID], "W")
			out[awayID] = append(out[awayID], "L")
		} else {
			out[homeID] = append(out[homeID], "L")
			out[awayID] = append(out[awayID], "W")
		}
	}
	return out
}

func (c *ESPNClient) toScores(schedule []struct {
	MatchupPeriodID int `json:"matchupPeriodId"`
	Home            struct {
		TeamID      int     `json:"teamId"`
		TotalPoints float64 `json:"totalPoints"`
	} `json:"home"`
	Away struct {
		TeamID      int     `json:"teamId"`
		TotalPoints float64 `json:"totalPoints"`
	} `json:"away"`
}) map[string][]float64 {
	out := make(map[string][]float64)
	for _, m := range schedule {
		homeID := fmt.Sprintf("%d", m.Home.TeamID)
		awayID := fmt.Sprintf("%d", m.Away.TeamID)
		if m.Home.TotalPoints == 0 && m.Away.TotalPoints == 0 {
			continue
		}
		out[homeID] = append(out[homeID], m.Home.TotalPoints)
		out[awayID] = append(out[awayID], m.Away.TotalPoints)
	}
	return out
}

func (c *ESPNClient) makeRequest(url string, dest interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.swid != "" && c.espnS2 != "" {
		req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("espn api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
